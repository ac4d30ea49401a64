package system_icon

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework CoreServices
#import <Cocoa/Cocoa.h>
#import <CoreServices/CoreServices.h>

void* getIconForFile(const char* path) {
    NSString* filePath = [NSString stringWithUTF8String:path];
    NSImage* icon = [[NSWorkspace sharedWorkspace] iconForFile:filePath];
    [icon retain];
    return (void*)icon;
}

void* getIconForExtension(const char* extension) {
    NSString* ext = [NSString stringWithUTF8String:extension];
    NSImage* icon = [[NSWorkspace sharedWorkspace] iconForFileType:ext];
    [icon retain];
    return (void*)icon;
}

void copyImagePixels(void* imagePtr, unsigned char* buffer, int width, int height) {
    NSImage* image = (NSImage*)imagePtr;
    NSBitmapImageRep* bitmap = [[NSBitmapImageRep alloc]
        initWithBitmapDataPlanes:NULL
        pixelsWide:width
        pixelsHigh:height
        bitsPerSample:8
        samplesPerPixel:4
        hasAlpha:YES
        isPlanar:NO
        colorSpaceName:NSDeviceRGBColorSpace
        bytesPerRow:width * 4
        bitsPerPixel:32];

    [NSGraphicsContext saveGraphicsState];
    [NSGraphicsContext setCurrentContext:[NSGraphicsContext graphicsContextWithBitmapImageRep:bitmap]];
    [image drawInRect:NSMakeRect(0, 0, width, height)
        fromRect:NSZeroRect
        operation:NSCompositingOperationCopy
        fraction:1.0];
    [NSGraphicsContext restoreGraphicsState];

    memcpy(buffer, [bitmap bitmapData], width * height * 4);
    [bitmap release];
}

void releaseIcon(void* iconPtr) {
    if (iconPtr) {
        [(NSImage*)iconPtr release];
    }
}
*/
import "C"
import (
	"fileicon/internal/error_service"
	"fmt"
	"image"
	"os"
	"unsafe"
)

func renderIconRGBA(iconPtr unsafe.Pointer, size int) (*image.RGBA, error) {
	if iconPtr == nil {
		return nil, error_service.ErrBitmapUnavailable
	}
	defer C.releaseIcon(iconPtr)

	buffer := make([]byte, size*size*4)
	C.copyImagePixels(iconPtr, (*C.uchar)(unsafe.Pointer(&buffer[0])), C.int(size), C.int(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, buffer)
	return img, nil
}

func iconSize(large bool) int {
	if large {
		return 32
	}
	return 16
}

// GetPathIconRGBA returns the workspace icon for an existing file path.
func GetPathIconRGBA(path string, large bool) (*image.RGBA, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", error_service.ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("%w: %s", error_service.ErrIconNotFound, path)
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	return renderIconRGBA(C.getIconForFile(cPath), iconSize(large))
}

// GetFileExtensionIconRGBA returns the workspace icon for a file type.
func GetFileExtensionIconRGBA(extension string, large bool) (*image.RGBA, error) {
	if extension[0] != '.' {
		extension = "." + extension
	}

	cExtension := C.CString(extension)
	defer C.free(unsafe.Pointer(cExtension))

	return renderIconRGBA(C.getIconForExtension(cExtension), iconSize(large))
}
