// testutils/setup.go
package testutils

import (
	"fileicon/internal/system_icon"
	"os"
	"path/filepath"
)

// System32Path returns a path under the Windows system directory, the
// closest thing to a file that always has a shell icon.
func System32Path(name string) string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		windir = `C:\Windows`
	}
	return filepath.Join(windir, "System32", name)
}

// SolidBGRA builds a top-down 32bpp BGRA plane filled with one color.
func SolidBGRA(width, height int, b, g, r, a byte) []byte {
	pixels := make([]byte, width*height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i+0] = b
		pixels[i+1] = g
		pixels[i+2] = r
		pixels[i+3] = a
	}
	return pixels
}

// MaskPlane builds a 1bpp mask plane with DWORD-aligned rows. The
// transparent callback marks which pixels get their mask bit set.
func MaskPlane(width, height int, transparent func(x, y int) bool) []byte {
	stride := system_icon.MaskStride(width)
	mask := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if transparent(x, y) {
				mask[y*stride+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return mask
}
