package desktop

import "os"

// DetectDisplayServer reports which display server the session runs on.
// XWayland counts as x11 when DISPLAY is set, which is enough for overlays.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if x11Display != "" {
		return "x11"
	}

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	return "unknown"
}
