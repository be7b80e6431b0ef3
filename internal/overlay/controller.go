package overlay

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Effects holds the decorative-animation switches shared by every overlay.
// Glassmorphism and ColorShift are mutually exclusive; the controller's
// setters enforce it.
type Effects struct {
	CoolEnabled        bool
	PowerSave          bool
	Breathing          bool
	BreathingIntensity float64
	Glassmorphism      bool
	ColorShift         bool
	Speed              float64
}

// DefaultEffects mirrors the source application's defaults.
func DefaultEffects() Effects {
	return Effects{
		CoolEnabled:        true,
		PowerSave:          true,
		Breathing:          false,
		BreathingIntensity: 0.1,
		Glassmorphism:      false,
		ColorShift:         false,
		Speed:              1.0,
	}
}

// GradientActive reports whether a gradient-style effect should advance.
func (e Effects) GradientActive() bool {
	return e.CoolEnabled && (e.Glassmorphism || e.ColorShift)
}

// Waker re-arms the animation engine. The controller calls it whenever an
// overlay becomes active or an effect is (re)enabled.
type Waker interface {
	Wake()
}

// Controller owns one State per display surface and the global enabled flag.
// All methods run on the run loop; no locking.
type Controller struct {
	overlays  []*State
	effects   Effects
	enabled   bool
	active    int
	hasActive bool
	waker     Waker
	log       zerolog.Logger

	// OnEnable, when set, is invoked after SetEnabled(true) so the caller
	// can force the sampler to reset and re-resolve the pointer.
	OnEnable func()
}

// NewController builds one overlay state per surface. Targets are created by
// the caller so tests can substitute fakes.
func NewController(surfaces []display.Surface, targets []desktop.RenderTarget, log zerolog.Logger) *Controller {
	overlays := make([]*State, len(surfaces))
	for i, s := range surfaces {
		overlays[i] = &State{
			Surface:       s,
			Target:        targets[i],
			Phase:         PhaseHidden,
			TargetOpacity: 0.7,
			Color:         desktop.RGB{},
		}
	}
	return &Controller{
		overlays: overlays,
		effects:  DefaultEffects(),
		enabled:  true,
		log:      log,
	}
}

// SetWaker wires the animation engine in after construction.
func (c *Controller) SetWaker(w Waker) {
	c.waker = w
}

// Overlays exposes the per-display states to the animation engine and tests.
func (c *Controller) Overlays() []*State {
	return c.overlays
}

// Effects returns the current shared effect switches.
func (c *Controller) Effects() Effects {
	return c.effects
}

// Enabled reports the global flag.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// ActiveIndex returns the last display activated and whether one is known.
func (c *Controller) ActiveIndex() (int, bool) {
	return c.active, c.hasActive
}

// OpacityPercent reports the shared target opacity as the 10..90 UI value.
func (c *Controller) OpacityPercent() int {
	if len(c.overlays) == 0 {
		return 0
	}
	return int(math.Round(c.overlays[0].TargetOpacity * 100))
}

// SetActiveDisplay dims every display except index. No-op while disabled.
func (c *Controller) SetActiveDisplay(index int) {
	if !c.enabled {
		return
	}
	if index < 0 || index >= len(c.overlays) {
		c.log.Warn().Int("display", index).Msg("ignoring activation of unknown display")
		return
	}

	c.active = index
	c.hasActive = true

	for _, o := range c.overlays {
		c.setBlurActive(o, o.Surface.Index != index)
	}
}

// Mismatch reports whether any overlay's blur flag disagrees with what
// activating index would produce. Used by the watchdog.
func (c *Controller) Mismatch(index int) bool {
	if !c.enabled {
		return false
	}
	for _, o := range c.overlays {
		if o.BlurActive != (o.Surface.Index != index) {
			return true
		}
	}
	return false
}

// SetEnabled toggles the whole system. Disabling immediately hides every
// overlay (not animated) and is sticky until re-enabled. Enabling triggers a
// full re-evaluation through OnEnable.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled

	if !enabled {
		c.hasActive = false
		for _, o := range c.overlays {
			if err := o.Hide(); err != nil {
				c.log.Warn().Err(err).Int("display", o.Surface.Index).Msg("failed to hide overlay")
			}
		}
		c.log.Info().Msg("dimming disabled")
		return
	}

	c.log.Info().Msg("dimming enabled")
	if c.OnEnable != nil {
		c.OnEnable()
	}
}

// SetOpacity retargets every overlay. Percent is clamped to 10..90; the
// internal target is percent/100. Blur flags are untouched.
func (c *Controller) SetOpacity(percent int) {
	percent = ClampPercent(percent)
	target := float64(percent) / 100.0

	for _, o := range c.overlays {
		o.TargetOpacity = target
	}
	c.wake()
}

// SetColor recolors every overlay and repaints the visible ones in place.
func (c *Controller) SetColor(color desktop.RGB) {
	for _, o := range c.overlays {
		o.Color = color
		if o.BlurActive {
			if err := o.Repaint(); err != nil {
				c.log.Warn().Err(err).Int("display", o.Surface.Index).Msg("repaint failed")
			}
		}
	}
}

// SetColorName resolves a palette name and applies it.
func (c *Controller) SetColorName(name string) error {
	color, err := ColorByName(name)
	if err != nil {
		return err
	}
	c.SetColor(color)
	return nil
}

// SetCoolEffects toggles decorative animations as a group.
func (c *Controller) SetCoolEffects(enabled bool) {
	c.effects.CoolEnabled = enabled
	c.afterEffectChange()
}

// SetPowerSave switches the animation scheduling regime.
func (c *Controller) SetPowerSave(enabled bool) {
	c.effects.PowerSave = enabled
	c.wake()
}

// SetBreathing toggles the sinusoidal opacity oscillation.
func (c *Controller) SetBreathing(enabled bool) {
	c.effects.Breathing = enabled
	c.afterEffectChange()
}

// SetGlassmorphism enables the gradient effect, clearing ColorShift.
func (c *Controller) SetGlassmorphism(enabled bool) {
	c.effects.Glassmorphism = enabled
	if enabled {
		c.effects.ColorShift = false
	}
	c.afterEffectChange()
}

// SetColorShift enables the hue-rotation effect, clearing Glassmorphism.
func (c *Controller) SetColorShift(enabled bool) {
	c.effects.ColorShift = enabled
	if enabled {
		c.effects.Glassmorphism = false
	}
	c.afterEffectChange()
}

// SetAnimationSpeed scales both easing and decorative-effect speed.
func (c *Controller) SetAnimationSpeed(speed float64) {
	if speed <= 0 {
		speed = 1.0
	}
	c.effects.Speed = speed
	c.wake()
}

// afterEffectChange resets accumulators when every decorative effect is off,
// then wakes the engine.
func (c *Controller) afterEffectChange() {
	if !c.effects.CoolEnabled || (!c.effects.Breathing && !c.effects.Glassmorphism && !c.effects.ColorShift) {
		for _, o := range c.overlays {
			o.ExitAnimating()
		}
	}
	c.wake()
}

func (c *Controller) setBlurActive(o *State, blur bool) {
	if o.BlurActive == blur {
		return
	}

	var err error
	if blur {
		err = o.BeginFadeIn()
		c.wake()
	} else {
		err = o.Hide()
	}
	if err != nil {
		c.log.Warn().Err(err).Int("display", o.Surface.Index).Bool("blur", blur).Msg("overlay transition failed")
	}
}

func (c *Controller) wake() {
	if c.waker != nil {
		c.waker.Wake()
	}
}

// ClampPercent bounds a UI opacity value to the slider range.
func ClampPercent(percent int) int {
	if percent < 10 {
		return 10
	}
	if percent > 90 {
		return 90
	}
	return percent
}
