package x11

import (
	"fmt"
	"math"

	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// gradientBands is the number of vertical strips used to approximate the
// rotating gradient mask.
const gradientBands = 32

// TargetFactory creates one overlay window per display.
type TargetFactory struct {
	client *Client
}

// Target is an override-redirect, always-on-top window covering one display.
// With an ARGB visual and a compositor the fill is truly translucent;
// otherwise the alpha channel degrades to a solid mask.
type Target struct {
	client *Client
	geom   desktop.Geometry

	window   xproto.Window
	colormap xproto.Colormap
	gc       xproto.Gcontext
	depth    byte
	mapped   bool
}

func (f *TargetFactory) CreateTarget(geom desktop.Geometry) (desktop.RenderTarget, error) {
	c := f.client

	window, err := xproto.NewWindowId(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	t := &Target{
		client: c,
		geom:   geom,
		window: window,
	}

	// An override-redirect window is ignored by the window manager: no
	// decorations, no focus stealing, stacked wherever we put it.
	if c.hasARGB {
		colormap, err := xproto.NewColormapId(c.conn)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate colormap id: %w", err)
		}
		t.colormap = colormap
		t.depth = c.argbDepth

		if err := xproto.CreateColormapChecked(c.conn, xproto.ColormapAllocNone,
			colormap, c.root, c.argbVisual).Check(); err != nil {
			return nil, fmt.Errorf("failed to create colormap: %w", err)
		}

		// A 32-bit window needs explicit border pixel and colormap or the
		// server answers BadMatch.
		err = xproto.CreateWindowChecked(c.conn, c.argbDepth, window, c.root,
			int16(geom.X), int16(geom.Y), uint16(geom.Width), uint16(geom.Height), 0,
			xproto.WindowClassInputOutput, c.argbVisual,
			xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwColormap,
			[]uint32{0, 0, 1, uint32(colormap)}).Check()
		if err != nil {
			return nil, fmt.Errorf("failed to create overlay window: %w", err)
		}
	} else {
		t.depth = c.screen.RootDepth
		err = xproto.CreateWindowChecked(c.conn, t.depth, window, c.root,
			int16(geom.X), int16(geom.Y), uint16(geom.Width), uint16(geom.Height), 0,
			xproto.WindowClassInputOutput, c.screen.RootVisual,
			xproto.CwBackPixel|xproto.CwOverrideRedirect,
			[]uint32{0, 1}).Check()
		if err != nil {
			return nil, fmt.Errorf("failed to create overlay window: %w", err)
		}
	}

	gc, err := xproto.NewGcontextId(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate gc id: %w", err)
	}
	t.gc = gc
	if err := xproto.CreateGCChecked(c.conn, gc, xproto.Drawable(window),
		xproto.GcForeground, []uint32{0}).Check(); err != nil {
		return nil, fmt.Errorf("failed to create gc: %w", err)
	}

	return t, nil
}

func (t *Target) Show() error {
	if t.mapped {
		return nil
	}
	xproto.MapWindow(t.client.conn, t.window)
	xproto.ConfigureWindow(t.client.conn, t.window,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	t.mapped = true
	return nil
}

func (t *Target) Hide() error {
	if !t.mapped {
		return nil
	}
	xproto.UnmapWindow(t.client.conn, t.window)
	t.mapped = false
	return nil
}

// SetInputTransparent toggles the input shape. Transparent means an empty
// input region: every event lands on whatever is beneath. Opaque restores
// the default whole-window region so the overlay swallows input.
func (t *Target) SetInputTransparent(transparent bool) error {
	if !t.client.hasShape {
		// Without the extension a hidden overlay is already harmless and a
		// visible one is supposed to block input.
		return nil
	}

	if transparent {
		return shape.RectanglesChecked(t.client.conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, t.window, 0, 0, nil).Check()
	}
	return shape.MaskChecked(t.client.conn, shape.SoSet, shape.SkInput,
		t.window, 0, 0, xproto.PixmapNone).Check()
}

func (t *Target) Repaint(p desktop.Paint) error {
	if p.Gradient == nil {
		pixel := t.pixel(p.Color, p.Alpha)
		xproto.ChangeWindowAttributes(t.client.conn, t.window,
			xproto.CwBackPixel, []uint32{pixel})
		xproto.ClearArea(t.client.conn, false, t.window, 0, 0, 0, 0)
		return nil
	}

	// Approximate the rotating gradient with vertical bands whose alpha
	// swings around the base value as the phase advances.
	width := t.geom.Width
	bandWidth := width / gradientBands
	if bandWidth < 1 {
		bandWidth = 1
	}

	for i := 0; i < gradientBands; i++ {
		offset := p.Gradient.Phase + 2*math.Pi*float64(i)/gradientBands
		alpha := p.Alpha * (0.75 + 0.25*math.Sin(offset))
		xproto.ChangeGC(t.client.conn, t.gc,
			xproto.GcForeground, []uint32{t.pixel(p.Color, alpha)})

		x := i * bandWidth
		w := bandWidth
		if i == gradientBands-1 {
			w = width - x
		}
		xproto.PolyFillRectangle(t.client.conn, xproto.Drawable(t.window), t.gc,
			[]xproto.Rectangle{{
				X:      int16(x),
				Y:      0,
				Width:  uint16(w),
				Height: uint16(t.geom.Height),
			}})
	}
	return nil
}

func (t *Target) Close() error {
	xproto.FreeGC(t.client.conn, t.gc)
	xproto.DestroyWindow(t.client.conn, t.window)
	if t.colormap != 0 {
		xproto.FreeColormap(t.client.conn, t.colormap)
	}
	return nil
}

// pixel converts a color and alpha to the window's pixel format:
// premultiplied ARGB on a 32-bit visual, plain RGB otherwise.
func (t *Target) pixel(color desktop.RGB, alpha float64) uint32 {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	if t.depth == 32 {
		a := uint32(alpha * 255)
		r := uint32(color.R) * a / 255
		g := uint32(color.G) * a / 255
		b := uint32(color.B) * a / 255
		return a<<24 | r<<16 | g<<8 | b
	}

	return uint32(color.R)<<16 | uint32(color.G)<<8 | uint32(color.B)
}
