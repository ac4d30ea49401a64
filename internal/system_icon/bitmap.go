package system_icon

import (
	"fileicon/internal/error_service"
	"fmt"
	"image"
)

// MaskStride returns the byte stride of a 1bpp mask row, DWORD aligned.
func MaskStride(width int) int {
	return ((width + 31) / 32) * 4
}

// HasAlphaChannel reports whether a 32bpp BGRA buffer carries a live alpha
// channel. Icons drawn as BGRX come out of GetDIBits with every alpha byte
// zero, so a fully transparent image means "no alpha channel, use the mask".
func HasAlphaChannel(colorBits []byte) bool {
	for i := 3; i < len(colorBits); i += 4 {
		if colorBits[i] != 0 {
			return true
		}
	}
	return false
}

// ConvertDIBToRGBA converts a top-down 32bpp BGRA color plane and an optional
// 1bpp mask plane into an RGBA image.
//
// When the color plane has a live alpha channel the mask is ignored, the
// shell already baked per-pixel transparency into it. Otherwise transparency
// comes from the mask plane, where a set bit marks a transparent pixel. With
// neither, every pixel is opaque.
func ConvertDIBToRGBA(colorBits []byte, maskBits []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", error_service.ErrInvalidDimensions, width, height)
	}
	if len(colorBits) < width*height*4 {
		return nil, fmt.Errorf("%w: got %d color bytes for %dx%d", error_service.ErrInvalidDimensions, len(colorBits), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	useAlpha := HasAlphaChannel(colorBits)
	maskStride := MaskStride(width)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * 4
			dst := img.PixOffset(x, y)

			// BGRA to RGBA
			img.Pix[dst+0] = colorBits[src+2]
			img.Pix[dst+1] = colorBits[src+1]
			img.Pix[dst+2] = colorBits[src+0]

			if useAlpha {
				img.Pix[dst+3] = colorBits[src+3]
				continue
			}
			img.Pix[dst+3] = 0xFF
			if maskBits != nil {
				maskByte := y*maskStride + x/8
				if maskByte < len(maskBits) && maskBits[maskByte]&(0x80>>uint(x%8)) != 0 {
					img.Pix[dst+3] = 0x00
				}
			}
		}
	}
	return img, nil
}
