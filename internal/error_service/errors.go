package error_service

import (
	"errors"
	"strings"
)

var (
	ErrIconNotFound     = errors.New("no icon association for path")
	ErrPermissionDenied = errors.New("access to path denied")

	ErrBitmapUnavailable = errors.New("icon has no realizable bitmap")

	// ErrEncodeFailed means the codec rejected a buffer we built ourselves.
	// That is an internal invariant violation, callers alert on it separately.
	ErrEncodeFailed = errors.New("failed to encode icon as png")

	ErrInvalidDimensions = errors.New("pixel buffer does not match its dimensions")
	ErrUnsupportedOS     = errors.New("system icons not supported on this platform")
)

func IsAccessDeniedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Access is denied")
}
