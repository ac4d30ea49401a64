package system_icon_test

import (
	"errors"
	"testing"

	"fileicon/internal/error_service"
	"fileicon/internal/system_icon"
	"fileicon/internal/testutils"
)

func solidBGRA(width, height int, b, g, r, a byte) []byte {
	return testutils.SolidBGRA(width, height, b, g, r, a)
}

func maskPlane(width, height int, transparent func(x, y int) bool) []byte {
	return testutils.MaskPlane(width, height, transparent)
}

func TestConvertSwizzlesBGRAToRGBA(t *testing.T) {
	// Blue-ish BGRA pixel: B=10 G=20 R=30 A=255
	colorBits := solidBGRA(2, 2, 10, 20, 30, 255)
	img, err := system_icon.ConvertDIBToRGBA(colorBits, nil, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[0] != 30 || img.Pix[1] != 20 || img.Pix[2] != 10 || img.Pix[3] != 255 {
		t.Errorf("expected RGBA 30,20,10,255 got %v", img.Pix[:4])
	}
}

func TestConvertNativeAlphaIgnoresMask(t *testing.T) {
	colorBits := solidBGRA(4, 4, 0, 0, 255, 128)
	// A mask claiming everything is transparent must not win over a live
	// alpha channel.
	mask := maskPlane(4, 4, func(x, y int) bool { return true })

	img, err := system_icon.ConvertDIBToRGBA(colorBits, mask, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 128 {
			t.Fatalf("pixel %d: alpha %d, expected native alpha 128", i/4, img.Pix[i])
		}
	}
}

func TestConvertMaskDrivesLegacyTransparency(t *testing.T) {
	// Zero alpha plane means BGRX, transparency must come from the mask.
	colorBits := solidBGRA(8, 2, 1, 2, 3, 0)
	mask := maskPlane(8, 2, func(x, y int) bool { return x < 4 })

	img, err := system_icon.ConvertDIBToRGBA(colorBits, mask, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 8; x++ {
			alpha := img.Pix[img.PixOffset(x, y)+3]
			if x < 4 && alpha != 0 {
				t.Errorf("pixel (%d,%d): expected transparent, alpha %d", x, y, alpha)
			}
			if x >= 4 && alpha != 255 {
				t.Errorf("pixel (%d,%d): expected opaque, alpha %d", x, y, alpha)
			}
		}
	}
}

func TestConvertWithoutMaskIsOpaque(t *testing.T) {
	colorBits := solidBGRA(3, 3, 9, 9, 9, 0)
	img, err := system_icon.ConvertDIBToRGBA(colorBits, nil, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Errorf("expected opaque pixel, alpha %d", img.Pix[i])
		}
	}
}

func TestConvertRejectsBadDimensions(t *testing.T) {
	_, err := system_icon.ConvertDIBToRGBA(nil, nil, 0, 4)
	if !errors.Is(err, error_service.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
	_, err = system_icon.ConvertDIBToRGBA(make([]byte, 4), nil, 4, 4)
	if !errors.Is(err, error_service.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions for short buffer, got %v", err)
	}
}

func TestMaskStride(t *testing.T) {
	cases := map[int]int{1: 4, 8: 4, 16: 4, 32: 4, 33: 8, 48: 8, 64: 8, 65: 12}
	for width, expected := range cases {
		if got := system_icon.MaskStride(width); got != expected {
			t.Errorf("MaskStride(%d) = %d, expected %d", width, got, expected)
		}
	}
}

func TestHasAlphaChannel(t *testing.T) {
	if system_icon.HasAlphaChannel(solidBGRA(2, 2, 1, 2, 3, 0)) {
		t.Errorf("all-zero alpha plane reported as live")
	}
	withAlpha := solidBGRA(2, 2, 1, 2, 3, 0)
	withAlpha[7] = 1
	if !system_icon.HasAlphaChannel(withAlpha) {
		t.Errorf("nonzero alpha byte not detected")
	}
}
