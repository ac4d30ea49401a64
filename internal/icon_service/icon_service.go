package icon_service

import (
	"context"
	"encoding/base64"
	"errors"
	"fileicon/internal/constants"
	"fileicon/internal/error_service"
	"fileicon/internal/metrics_service"
	"fileicon/internal/system_icon"
	"fileicon/internal/utils"
	"fmt"
	"image"
	"os"
	"sync"
	"time"
)

type SizeClass string

const (
	SizeSmall SizeClass = "small"
	SizeLarge SizeClass = "large"
)

// PixelSize maps a size class to the pixel dimensions the output is scaled
// to. The shell picks the raster it actually hands back.
func (s SizeClass) PixelSize() uint {
	if s == SizeSmall {
		return constants.SMALL_ICON_SIZE
	}
	return constants.LARGE_ICON_SIZE
}

func (s SizeClass) Large() bool {
	return s != SizeSmall
}

// Image is an extracted icon held as a canonical RGBA pixel buffer.
type Image struct {
	rgba   *image.RGBA
	Width  uint
	Height uint
}

// Base64Png is a PNG encoded as a data URI, with a flag marking the shell's
// generic file icon so callers can substitute their own placeholder.
type Base64Png struct {
	Base64    string `json:"base64"`
	IsDefault bool   `json:"is_default"`
}

// TryNewFromFile extracts the shell icon for path and scales it to the given
// dimensions. The OS icon handle is acquired and released inside the call.
func TryNewFromFile(ctx context.Context, path string, width, height uint) (*Image, error) {
	start := time.Now()
	img, err := tryNewFromFile(ctx, path, width, height)
	metrics_service.RecordExtract(ctx, outcomeOf(err), time.Since(start))
	return img, err
}

func tryNewFromFile(ctx context.Context, path string, width, height uint) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", error_service.ErrInvalidDimensions, width, height)
	}
	// Release-on-cancellation needs no special handling: the synchronous leg
	// below never blocks and releases its handles via defer. A cancelled
	// context is only honored before the OS calls begin.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	large := width > constants.SMALL_ICON_SIZE || height > constants.SMALL_ICON_SIZE
	rgba, err := system_icon.GetPathIconRGBA(path, large)
	if err != nil {
		return nil, err
	}

	rgba = utils.ResizeRGBA(rgba, width, height)
	return &Image{rgba: rgba, Width: width, Height: height}, nil
}

// TryNewFromFileRecommended extracts the icon at the shell's large size.
func TryNewFromFileRecommended(ctx context.Context, path string) (*Image, error) {
	return TryNewFromFile(ctx, path, constants.LARGE_ICON_SIZE, constants.LARGE_ICON_SIZE)
}

// Extract resolves the icon for path at the given size class and encodes it
// as PNG. This is the core contract, a single stateless pass.
func Extract(ctx context.Context, path string, size SizeClass) ([]byte, error) {
	start := time.Now()
	ctx, span := metrics_service.StartSpan(ctx, "icon_service.Extract")
	defer span.End()

	data, err := extract(ctx, path, size)
	metrics_service.RecordExtract(ctx, outcomeOf(err), time.Since(start))
	return data, err
}

func extract(ctx context.Context, path string, size SizeClass) ([]byte, error) {
	img, err := tryNewFromFile(ctx, path, size.PixelSize(), size.PixelSize())
	if err != nil {
		return nil, err
	}
	return img.PNG()
}

// ExtractBase64 is Extract with the PNG wrapped in a data URI.
func ExtractBase64(ctx context.Context, path string, size SizeClass) (Base64Png, error) {
	start := time.Now()
	ctx, span := metrics_service.StartSpan(ctx, "icon_service.ExtractBase64")
	defer span.End()

	result, err := extractBase64(ctx, path, size)
	metrics_service.RecordExtract(ctx, outcomeOf(err), time.Since(start))
	return result, err
}

func extractBase64(ctx context.Context, path string, size SizeClass) (Base64Png, error) {
	img, err := tryNewFromFile(ctx, path, size.PixelSize(), size.PixelSize())
	if err != nil {
		return Base64Png{}, err
	}
	return img.AsBase64PNG()
}

// PNG encodes the pixel buffer as PNG bytes.
func (i *Image) PNG() ([]byte, error) {
	expectedSize := int(i.Width * i.Height * 4)
	if len(i.rgba.Pix) != expectedSize {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d image, got %d bytes",
			error_service.ErrInvalidDimensions, expectedSize, i.Width, i.Height, len(i.rgba.Pix))
	}

	data, err := utils.EncodePNG(i.rgba)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", error_service.ErrEncodeFailed, err)
	}
	return data, nil
}

// AsBase64Raw returns the raw RGBA pixel bytes base64 encoded.
func (i *Image) AsBase64Raw() string {
	return base64.StdEncoding.EncodeToString(i.rgba.Pix)
}

// AsBase64PNG returns the image as a base64 PNG data URI
func (i *Image) AsBase64PNG() (Base64Png, error) {
	pngData, err := i.PNG()
	if err != nil {
		return Base64Png{}, err
	}

	b64 := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
	return Base64Png{
		Base64:    b64,
		IsDefault: i.IsDefault(),
	}, nil
}

// SaveAsPNG writes the image to outputPath as a PNG file.
func (i *Image) SaveAsPNG(outputPath string) error {
	data, err := i.PNG()
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

// Pix exposes the raw RGBA bytes, row-major.
func (i *Image) Pix() []byte {
	return i.rgba.Pix
}

// IsDefault reports whether this icon is the shell's generic file icon,
// matched by pixel fingerprint against the icon of an unregistered extension.
func (i *Image) IsDefault() bool {
	fp := defaultFingerprint(i.Width, i.Height)
	if fp == "" {
		return false
	}
	return utils.GenerateXXHashDigest(i.rgba.Pix) == fp
}

var (
	defaultFingerprints   = map[uint]string{}
	defaultFingerprintsMu sync.Mutex
)

func defaultFingerprint(width, height uint) string {
	if width != height {
		return ""
	}
	defaultFingerprintsMu.Lock()
	defer defaultFingerprintsMu.Unlock()

	if fp, ok := defaultFingerprints[width]; ok {
		return fp
	}

	fp := ""
	// No registered handler for this extension, so the shell falls back to
	// the generic file icon.
	rgba, err := system_icon.GetFileExtensionIconRGBA(".fileicon-unregistered", width > constants.SMALL_ICON_SIZE)
	if err == nil {
		rgba = utils.ResizeRGBA(rgba, width, height)
		fp = utils.GenerateXXHashDigest(rgba.Pix)
	}
	defaultFingerprints[width] = fp
	return fp
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, error_service.ErrIconNotFound):
		return "not_found"
	case errors.Is(err, error_service.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, error_service.ErrBitmapUnavailable):
		return "bitmap_unavailable"
	case errors.Is(err, error_service.ErrEncodeFailed):
		return "encode_error"
	default:
		return "error"
	}
}
