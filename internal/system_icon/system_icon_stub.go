//go:build !windows && !darwin

package system_icon

import (
	"fileicon/internal/error_service"
	"image"
)

func GetPathIconRGBA(path string, large bool) (*image.RGBA, error) {
	return nil, error_service.ErrUnsupportedOS
}

func GetFileExtensionIconRGBA(extension string, large bool) (*image.RGBA, error) {
	return nil, error_service.ErrUnsupportedOS
}
