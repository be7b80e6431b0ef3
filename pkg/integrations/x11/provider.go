// Package x11 implements the desktop interfaces over the X protocol. Works
// on native X11 and on XWayland.
package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xinerama"
	"github.com/jezek/xgb/xproto"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Client owns one X connection used for queries and overlay rendering. The
// focus signal runs on its own connection so event waiting never interleaves
// with request/reply traffic.
type Client struct {
	conn        *xgb.Conn
	setup       *xproto.SetupInfo
	screen      *xproto.ScreenInfo
	root        xproto.Window
	hasXinerama bool
	hasShape    bool
	argbDepth   byte
	argbVisual  xproto.Visualid
	hasARGB     bool
}

// NewClient connects and probes the extensions the overlays need.
func NewClient() (*Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	c := &Client{
		conn:   conn,
		setup:  setup,
		screen: screen,
		root:   screen.Root,
	}

	if err := xinerama.Init(conn); err == nil {
		if active, err := xinerama.IsActive(conn).Reply(); err == nil && active.State != 0 {
			c.hasXinerama = true
		}
	}

	if err := shape.Init(conn); err == nil {
		c.hasShape = true
	}

	c.findARGBVisual()

	return c, nil
}

// findARGBVisual locates a 32-bit TrueColor visual for per-pixel alpha.
// Without a compositor the overlays still work, just without translucency
// blending (the alpha channel is ignored).
func (c *Client) findARGBVisual() {
	for _, depth := range c.screen.AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, visual := range depth.Visuals {
			if visual.Class == xproto.VisualClassTrueColor {
				c.argbDepth = depth.Depth
				c.argbVisual = visual.VisualId
				c.hasARGB = true
				return
			}
		}
	}
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.conn.Close()
	return nil
}

// NewProvider assembles the full platform provider.
func NewProvider() (*desktop.Provider, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}

	p := &desktop.Provider{
		Screens:  &ScreenSource{client: client},
		Pointer:  &PointerSource{client: client},
		Targets:  &TargetFactory{client: client},
		Notifier: &Notifier{},
	}
	p.AddCloser(client.Close)

	// The focus signal is best-effort: without it the watchdog still runs
	// on its periodic cadence.
	if focus, err := NewFocusSignal(); err == nil {
		p.Focus = focus
		p.AddCloser(focus.Close)
	}

	return p, nil
}
