package platform

import (
	"fmt"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/integrations/x11"
)

// New probes the session and returns a platform provider, or an error when
// no supported display server is reachable.
func New() (*desktop.Provider, error) {
	switch server := desktop.DetectDisplayServer(); server {
	case "x11":
		return x11.NewProvider()
	case "wayland":
		return nil, fmt.Errorf("pure wayland session: overlays need X11 or XWayland (set DISPLAY)")
	default:
		return nil, fmt.Errorf("no display server detected (DISPLAY and WAYLAND_DISPLAY unset)")
	}
}
