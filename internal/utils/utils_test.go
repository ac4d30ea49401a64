package utils

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Errorf("existing file reported as missing")
	}
	if FileExists(filepath.Join(dir, "absent.txt")) {
		t.Errorf("missing file reported as existing")
	}
	if FileExists(dir) {
		t.Errorf("directory reported as file")
	}
}

func TestGenerateXXHashDigest(t *testing.T) {
	first := GenerateXXHashDigest([]byte("icon bytes"))
	second := GenerateXXHashDigest([]byte("icon bytes"))
	other := GenerateXXHashDigest([]byte("different bytes"))

	if first != second {
		t.Errorf("same input hashed to different digests")
	}
	if first == other {
		t.Errorf("different inputs hashed to the same digest")
	}
	if len(first) != 16 {
		t.Errorf("digest length %d, expected 16 hex chars", len(first))
	}
}

func TestResizeRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	resized := ResizeRGBA(img, 32, 32)
	if resized.Bounds().Dx() != 32 || resized.Bounds().Dy() != 32 {
		t.Errorf("resized bounds %v, expected 32x32", resized.Bounds())
	}

	same := ResizeRGBA(img, 64, 64)
	if same != img {
		t.Errorf("resize to identical dimensions should return the input")
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	signature := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if !bytes.HasPrefix(data, signature) {
		t.Errorf("encoded bytes do not start with the PNG signature")
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(1234567); got != "1,234,567 B" {
		t.Errorf("FormatBytes(1234567) = %q", got)
	}
}
