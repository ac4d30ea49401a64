package utils

import (
	"bytes"
	"encoding/hex"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/nfnt/resize"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// GenerateXXHashDigest returns the xxh3 hex digest of the given bytes.
func GenerateXXHashDigest(data []byte) string {
	hashFunction := xxh3.New()
	hashFunction.Write(data)

	hexHash := make([]byte, hex.EncodedLen(8))
	hex.Encode(hexHash, hashFunction.Sum(nil))
	return string(hexHash)
}

func GetCurrentTime() string {
	return time.Now().Format(time.RFC3339)
}

func GetEpochTime() int64 {
	return time.Now().Unix()
}

// FormatBytes formats a byte count with locale-aware grouping, e.g. "12,345 B"
func FormatBytes(size int) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d B", size)
}

// ResizeRGBA scales an RGBA image to the given dimensions and returns the
// result as RGBA. If the image already has the requested dimensions it is
// returned unchanged.
func ResizeRGBA(img *image.RGBA, width, height uint) *image.RGBA {
	bounds := img.Bounds()
	if uint(bounds.Dx()) == width && uint(bounds.Dy()) == height {
		return img
	}
	resizedImg := resize.Resize(width, height, img, resize.Lanczos3)
	if rgba, ok := resizedImg.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			out.Set(x, y, resizedImg.At(x, y))
		}
	}
	return out
}

// EncodePNG encodes an RGBA image as PNG bytes.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
