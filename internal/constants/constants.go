package constants

import "fmt"

var USER_AGENT = fmt.Sprintf("FileIcon/%s", Version())

const SERVICE_NAME = "fileicon"

// Small and large mirror the shell's icon size classes. The shell decides the
// real pixel dimensions of the icon it hands back, these are only the sizes
// we scale the output to.
const (
	SMALL_ICON_SIZE = 16
	LARGE_ICON_SIZE = 32
)

// Version returns the build version
func Version() string {
	if version != "" {
		return version
	}
	// Fallback if not set at build time
	return "0.2"
}

// version will be replaced by the value passed at build time using ldflags
var version string
