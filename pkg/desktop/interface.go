package desktop

// Geometry describes one physical display in virtual-desktop coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RGB is a plain 8-bit color. Alpha is carried separately by Paint so the
// engine can animate opacity without touching the color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// GradientSpec describes a rotating two-stop gradient mask. Phase is a cyclic
// angle in radians that the animation engine advances each tick.
type GradientSpec struct {
	Phase float64
}

// Paint is one repaint request for an overlay surface.
type Paint struct {
	Color    RGB
	Alpha    float64       // 0..1
	Gradient *GradientSpec // nil means flat fill
}

// ScreenSource enumerates display geometries. Queried at startup and on
// explicit refresh; hardware-change events are out of scope.
type ScreenSource interface {
	// Enumerate returns the geometry of every connected display, ordered.
	Enumerate() ([]Geometry, error)
}

// PointerSource reports the current global pointer position. Polled, not
// pushed.
type PointerSource interface {
	CurrentPosition() (x, y int, err error)
}

// RenderTarget is a borderless always-on-top translucent surface covering
// one display. It never takes keyboard focus. While input-opaque it swallows
// all mouse and keyboard input; while input-transparent everything passes
// through to whatever is beneath it.
type RenderTarget interface {
	Show() error
	Hide() error
	SetInputTransparent(transparent bool) error
	Repaint(p Paint) error
	Close() error
}

// RenderTargetFactory creates one RenderTarget per display.
type RenderTargetFactory interface {
	CreateTarget(geom Geometry) (RenderTarget, error)
}

// FocusSignal surfaces host focus-change notifications. No payload beyond
// "focus changed". The channel is closed by Close.
type FocusSignal interface {
	Notifications() <-chan struct{}
	Close() error
}

// Notifier shows best-effort transient user-visible messages. Failures are
// non-fatal.
type Notifier interface {
	Notify(title, message string) error
}

// Provider bundles every platform-facing dependency of the engine. The
// platform package constructs one; the engine never imports protocol code.
type Provider struct {
	Screens  ScreenSource
	Pointer  PointerSource
	Targets  RenderTargetFactory
	Focus    FocusSignal
	Notifier Notifier

	closers []func() error
}

// AddCloser registers a cleanup function run by Close, in reverse order.
func (p *Provider) AddCloser(fn func() error) {
	p.closers = append(p.closers, fn)
}

// Close releases all platform resources.
func (p *Provider) Close() error {
	var firstErr error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
