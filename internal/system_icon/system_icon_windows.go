//go:build windows

package system_icon

import (
	"fileicon/internal/error_service"
	"fmt"
	"image"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows API structs
type SHFILEINFO struct {
	hIcon         uintptr
	iIcon         int32
	dwAttributes  uint32
	szDisplayName [260]uint16
	szTypeName    [80]uint16
}

type ICONINFO struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  uintptr
	hbmColor uintptr
}

type BITMAP struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

type BITMAPINFOHEADER struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type BITMAPINFO struct {
	Header BITMAPINFOHEADER
	Colors [8]uint32
}

var (
	shell32 = windows.NewLazySystemDLL("shell32.dll")
	user32  = windows.NewLazySystemDLL("user32.dll")
	gdi32   = windows.NewLazySystemDLL("gdi32.dll")

	procSHGetFileInfoW     = shell32.NewProc("SHGetFileInfoW")
	procGetIconInfo        = user32.NewProc("GetIconInfo")
	procDestroyIcon        = user32.NewProc("DestroyIcon")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procGetObjectW         = gdi32.NewProc("GetObjectW")
	procGetDIBits          = gdi32.NewProc("GetDIBits")
)

const (
	SHGFI_ICON              = 0x000000100
	SHGFI_SMALLICON         = 0x000000001
	SHGFI_LARGEICON         = 0x000000000
	SHGFI_USEFILEATTRIBUTES = 0x000000010
	FILE_ATTRIBUTE_NORMAL   = 0x00000080
	DIB_RGB_COLORS          = 0
	BI_RGB                  = 0
)

// GetPathIcon asks the shell for the icon associated with an existing
// file-system path. The returned handle must be released with ReleaseIcon.
func GetPathIcon(path string, large bool) (uintptr, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf("failed to convert path to UTF16: %v", err)
	}

	fileInfo := SHFILEINFO{}
	flags := uintptr(SHGFI_ICON)
	if large {
		flags |= SHGFI_LARGEICON
	} else {
		flags |= SHGFI_SMALLICON
	}

	ret, _, _ := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		0,
		uintptr(unsafe.Pointer(&fileInfo)),
		uintptr(unsafe.Sizeof(fileInfo)),
		flags,
	)

	if ret == 0 || fileInfo.hIcon == 0 {
		return 0, classifyLookupFailure(path)
	}

	return fileInfo.hIcon, nil
}

// GetFileExtensionIcon resolves the icon the shell shows for a file type
// without needing a real file on disk. Used for the generic-icon fingerprint.
func GetFileExtensionIcon(extension string, large bool) (uintptr, error) {
	if extension[0] != '.' {
		extension = "." + extension
	}

	extensionPtr, err := windows.UTF16PtrFromString(extension)
	if err != nil {
		return 0, fmt.Errorf("failed to convert extension to UTF16: %v", err)
	}

	fileInfo := SHFILEINFO{}
	flags := uintptr(SHGFI_ICON | SHGFI_USEFILEATTRIBUTES)
	if large {
		flags |= SHGFI_LARGEICON
	} else {
		flags |= SHGFI_SMALLICON
	}

	ret, _, _ := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(extensionPtr)),
		FILE_ATTRIBUTE_NORMAL,
		uintptr(unsafe.Pointer(&fileInfo)),
		uintptr(unsafe.Sizeof(fileInfo)),
		flags,
	)

	if ret == 0 || fileInfo.hIcon == 0 {
		return 0, error_service.ErrIconNotFound
	}

	return fileInfo.hIcon, nil
}

// ReleaseIcon destroys an icon handle returned by one of the lookups.
// Every acquired handle must go through here exactly once.
func ReleaseIcon(hIcon uintptr) {
	procDestroyIcon.Call(hIcon)
}

// classifyLookupFailure turns a shell lookup failure into one of the sentinel
// errors. SHGetFileInfoW does not report why it failed, so the path is
// stat-ed to tell a missing file from a forbidden one.
func classifyLookupFailure(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return error_service.ErrIconNotFound
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %s", error_service.ErrPermissionDenied, path)
	}
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", error_service.ErrIconNotFound, path)
	}
	if error_service.IsAccessDeniedError(err) {
		return fmt.Errorf("%w: %s", error_service.ErrPermissionDenied, path)
	}
	return fmt.Errorf("%w: %s", error_service.ErrIconNotFound, path)
}

// IconToRGBA copies an icon's color and mask planes out of GDI and converts
// them into an RGBA image. The icon handle itself is left for the caller to
// release, everything acquired here is released before returning.
func IconToRGBA(hIcon uintptr) (*image.RGBA, error) {
	iconInfo := ICONINFO{}
	ret, _, _ := procGetIconInfo.Call(hIcon, uintptr(unsafe.Pointer(&iconInfo)))
	if ret == 0 {
		return nil, fmt.Errorf("%w: GetIconInfo failed", error_service.ErrBitmapUnavailable)
	}
	if iconInfo.hbmMask != 0 {
		defer procDeleteObject.Call(iconInfo.hbmMask)
	}
	if iconInfo.hbmColor != 0 {
		defer procDeleteObject.Call(iconInfo.hbmColor)
	}

	if iconInfo.hbmColor == 0 {
		// Monochrome icon, the mask bitmap doubles as AND and XOR planes.
		// The shell does not hand these out for file icons.
		return nil, fmt.Errorf("%w: icon has no color plane", error_service.ErrBitmapUnavailable)
	}

	bitmap := BITMAP{}
	ret, _, _ = procGetObjectW.Call(
		iconInfo.hbmColor,
		unsafe.Sizeof(bitmap),
		uintptr(unsafe.Pointer(&bitmap)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("%w: GetObjectW failed", error_service.ErrBitmapUnavailable)
	}

	width := int(bitmap.bmWidth)
	height := int(bitmap.bmHeight)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d bitmap", error_service.ErrBitmapUnavailable, width, height)
	}

	hMemDC, _, _ := procCreateCompatibleDC.Call(0)
	if hMemDC == 0 {
		return nil, fmt.Errorf("%w: failed to create compatible DC", error_service.ErrBitmapUnavailable)
	}
	defer procDeleteDC.Call(hMemDC)

	colorBits, err := getDIBits(hMemDC, iconInfo.hbmColor, width, height, 32)
	if err != nil {
		return nil, err
	}

	var maskBits []byte
	if iconInfo.hbmMask != 0 {
		// Mask retrieval failure is not fatal, a 32bpp alpha icon never
		// consults it.
		maskBits, _ = getDIBits(hMemDC, iconInfo.hbmMask, width, height, 1)
	}

	return ConvertDIBToRGBA(colorBits, maskBits, width, height)
}

// getDIBits copies a bitmap's pixel rows as a top-down DIB at the given bit
// depth.
func getDIBits(hDC, hBitmap uintptr, width, height int, bitCount uint16) ([]byte, error) {
	stride := width * 4
	if bitCount == 1 {
		stride = MaskStride(width)
	}
	pixels := make([]byte, stride*height)

	bmi := BITMAPINFO{
		Header: BITMAPINFOHEADER{
			biSize:        uint32(unsafe.Sizeof(BITMAPINFOHEADER{})),
			biWidth:       int32(width),
			biHeight:      -int32(height), // Negative height for top-down bitmap
			biPlanes:      1,
			biBitCount:    bitCount,
			biCompression: BI_RGB,
		},
	}

	ret, _, _ := procGetDIBits.Call(
		hDC,
		hBitmap,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&bmi)),
		DIB_RGB_COLORS,
	)
	if ret == 0 {
		return nil, fmt.Errorf("%w: failed to get bitmap bits", error_service.ErrBitmapUnavailable)
	}

	return pixels, nil
}

// GetPathIconRGBA resolves a path's shell icon and returns it as an RGBA
// image, releasing the icon handle on every outcome.
func GetPathIconRGBA(path string, large bool) (*image.RGBA, error) {
	hIcon, err := GetPathIcon(path, large)
	if err != nil {
		return nil, err
	}
	defer ReleaseIcon(hIcon)

	return IconToRGBA(hIcon)
}

// GetFileExtensionIconRGBA resolves a file type's shell icon by extension.
func GetFileExtensionIconRGBA(extension string, large bool) (*image.RGBA, error) {
	hIcon, err := GetFileExtensionIcon(extension, large)
	if err != nil {
		return nil, err
	}
	defer ReleaseIcon(hIcon)

	return IconToRGBA(hIcon)
}
