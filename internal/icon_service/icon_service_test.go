package icon_service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"runtime"
	"strings"
	"testing"

	"fileicon/internal/error_service"
	"fileicon/internal/testutils"

	"github.com/stretchr/testify/assert"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newTestImage(width, height int) *Image {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i+0] = byte(i % 251)
		rgba.Pix[i+1] = byte((i * 7) % 251)
		rgba.Pix[i+2] = byte((i * 13) % 251)
		rgba.Pix[i+3] = 0xFF
	}
	return &Image{rgba: rgba, Width: uint(width), Height: uint(height)}
}

func TestPNGSignature(t *testing.T) {
	img := newTestImage(16, 16)
	data, err := img.PNG()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Errorf("output does not start with the PNG signature: % X", data[:8])
	}
}

func TestPNGEncodeIsDeterministic(t *testing.T) {
	img := newTestImage(32, 32)
	first, err := img.PNG()
	if err != nil {
		t.Fatal(err)
	}
	second, err := img.PNG()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encoding the same buffer twice produced different bytes")
	}
}

func TestPNGDecodedDimensionsAndPixels(t *testing.T) {
	img := newTestImage(16, 16)
	data, err := img.PNG()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 16 {
		t.Errorf("decoded dimensions %v, expected 16x16", decoded.Bounds())
	}
	// Opaque pixels survive the round trip exactly
	r, g, b, a := decoded.At(3, 0).RGBA()
	src := img.rgba.RGBAAt(3, 0)
	if byte(r>>8) != src.R || byte(g>>8) != src.G || byte(b>>8) != src.B || byte(a>>8) != 0xFF {
		t.Errorf("decoded pixel %v does not match source %v", decoded.At(3, 0), src)
	}
}

func TestPNGRejectsMismatchedDimensions(t *testing.T) {
	img := newTestImage(8, 8)
	img.Width = 9
	_, err := img.PNG()
	if !errors.Is(err, error_service.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestAsBase64PNGRoundTrip(t *testing.T) {
	img := newTestImage(16, 16)
	result, err := img.AsBase64PNG()
	if err != nil {
		t.Fatal(err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(result.Base64, prefix) {
		t.Fatalf("missing data URI prefix: %s", result.Base64[:32])
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(result.Base64, prefix))
	if err != nil {
		t.Fatal(err)
	}

	pngData, err := img.PNG()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, pngData) {
		t.Errorf("base64 payload does not decode back to the PNG bytes")
	}
}

func TestAsBase64RawRoundTrip(t *testing.T) {
	img := newTestImage(4, 4)
	decoded, err := base64.StdEncoding.DecodeString(img.AsBase64Raw())
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 4*4*4 {
		t.Errorf("raw payload is %d bytes, expected %d", len(decoded), 4*4*4)
	}
	if !bytes.Equal(decoded, img.Pix()) {
		t.Errorf("raw payload does not match the pixel buffer")
	}
}

func TestSizeClassPixelSize(t *testing.T) {
	assert.Equal(t, uint(16), SizeSmall.PixelSize())
	assert.Equal(t, uint(32), SizeLarge.PixelSize())
	assert.False(t, SizeSmall.Large())
	assert.True(t, SizeLarge.Large())
}

func TestOutcomeClassification(t *testing.T) {
	assert.Equal(t, "success", outcomeOf(nil))
	assert.Equal(t, "not_found", outcomeOf(error_service.ErrIconNotFound))
	assert.Equal(t, "permission_denied", outcomeOf(error_service.ErrPermissionDenied))
	assert.Equal(t, "bitmap_unavailable", outcomeOf(error_service.ErrBitmapUnavailable))
	assert.Equal(t, "encode_error", outcomeOf(error_service.ErrEncodeFailed))
	assert.Equal(t, "error", outcomeOf(errors.New("boom")))
}

func TestTryNewFromFileRejectsZeroDimensions(t *testing.T) {
	_, err := TryNewFromFile(context.Background(), "whatever", 0, 16)
	if !errors.Is(err, error_service.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestTryNewFromFileHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TryNewFromFile(ctx, "whatever", 16, 16)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExtractNotepad(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("shell icon extraction needs the Windows shell")
	}
	data, err := Extract(context.Background(), testutils.System32Path("notepad.exe"), SizeLarge)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 32 || decoded.Bounds().Dy() != 32 {
		t.Errorf("decoded dimensions %v, expected 32x32", decoded.Bounds())
	}
	opaque := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if _, _, _, a := decoded.At(x, y).RGBA(); a != 0 {
				opaque++
			}
		}
	}
	if opaque == 0 {
		t.Errorf("extracted icon has no opaque pixels")
	}
}

func TestExtractMissingFile(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("shell icon extraction needs the Windows shell")
	}
	_, err := Extract(context.Background(), `C:\does\not\exist.txt`, SizeLarge)
	if !errors.Is(err, error_service.ErrIconNotFound) {
		t.Errorf("expected ErrIconNotFound, got %v", err)
	}
}

func TestExtractBase64Scenario(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("shell icon extraction needs the Windows shell")
	}
	result, err := ExtractBase64(context.Background(), testutils.System32Path("cmd.exe"), SizeLarge)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(result.Base64, "data:image/png;base64,"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(decoded, pngSignature) {
		t.Errorf("base64 payload is not a PNG")
	}
	if result.IsDefault {
		t.Errorf("cmd.exe icon flagged as the generic file icon")
	}
}

func TestCustomSizeExtraction(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("shell icon extraction needs the Windows shell")
	}
	img, err := TryNewFromFile(context.Background(), testutils.System32Path("cmd.exe"), 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 64 || img.Height != 64 {
		t.Errorf("got %dx%d, expected 64x64", img.Width, img.Height)
	}
	if len(img.Pix()) != 64*64*4 {
		t.Errorf("pixel buffer is %d bytes, expected %d", len(img.Pix()), 64*64*4)
	}
}
