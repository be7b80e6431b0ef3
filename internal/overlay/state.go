// Package overlay owns the per-display dimming state machines and the
// controller that keeps exactly one display undimmed.
package overlay

import (
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Phase is the explicit per-overlay state. Transitions:
// Hidden -> FadingIn -> Steady <-> Animating -> Hidden.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseFadingIn
	PhaseSteady
	PhaseAnimating
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseFadingIn:
		return "fading-in"
	case PhaseSteady:
		return "steady"
	case PhaseAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// Opacity bounds and animation thresholds. The seed keeps a freshly shown
// overlay from popping in at zero opacity.
const (
	OpacityCeiling  = 0.9
	OpacityFloor    = 0.05
	FadeInSeed      = 0.05
	FadeInThreshold = 0.05
	Epsilon         = 0.01
	BreathingMin    = 0.1
	BreathingMax    = 0.9
)

// State is one display's overlay. Mutated only on the run loop: phase and
// targets by the Controller, CurrentOpacity and effect accumulators by the
// animation engine.
type State struct {
	Surface display.Surface
	Target  desktop.RenderTarget

	Phase          Phase
	BlurActive     bool
	TargetOpacity  float64
	CurrentOpacity float64
	Color          desktop.RGB

	// Animation bookkeeping, owned by the engine between retargets.
	BaseOpacity   float64 // recorded at fade-in completion, breathing center
	GradientPhase float64 // cyclic angle, wraps at 2*pi
	EffectTime    float64 // seconds accumulated while decorative effects run
}

// BeginFadeIn transitions Hidden -> FadingIn: the overlay becomes visible
// and input-blocking, and the fade restarts from a small non-zero seed so
// there is no opacity discontinuity.
func (s *State) BeginFadeIn() error {
	s.BlurActive = true
	s.Phase = PhaseFadingIn
	s.CurrentOpacity = FadeInSeed

	if err := s.Target.SetInputTransparent(false); err != nil {
		return err
	}
	if err := s.Target.Show(); err != nil {
		return err
	}
	return s.Repaint()
}

// Hide transitions any phase -> Hidden: immediate (not faded), the surface
// becomes input-transparent, and fade-in bookkeeping resets so the next
// activation restarts cleanly.
func (s *State) Hide() error {
	s.BlurActive = false
	s.Phase = PhaseHidden
	s.CurrentOpacity = 0
	s.BaseOpacity = 0

	if err := s.Target.SetInputTransparent(true); err != nil {
		return err
	}
	return s.Target.Hide()
}

// CompleteFadeIn transitions FadingIn -> Steady and records the breathing
// center.
func (s *State) CompleteFadeIn() {
	s.Phase = PhaseSteady
	s.BaseOpacity = s.CurrentOpacity
}

// EnterAnimating marks the Steady overlay as running decorative effects.
func (s *State) EnterAnimating() {
	if s.Phase == PhaseSteady {
		s.Phase = PhaseAnimating
	}
}

// ExitAnimating returns to plain Steady and zeroes the effect accumulators
// so effects restart predictably when re-enabled.
func (s *State) ExitAnimating() {
	if s.Phase == PhaseAnimating {
		s.Phase = PhaseSteady
	}
	s.GradientPhase = 0
	s.EffectTime = 0
}

// FadeInComplete reports whether CurrentOpacity has reached the target.
func (s *State) FadeInComplete() bool {
	return s.Phase == PhaseSteady || s.Phase == PhaseAnimating
}

// Repaint pushes the current color and opacity to the render target.
func (s *State) Repaint() error {
	return s.RepaintGradient(nil)
}

// RepaintGradient pushes the current color and opacity with an optional
// gradient spec.
func (s *State) RepaintGradient(g *desktop.GradientSpec) error {
	return s.Target.Repaint(desktop.Paint{
		Color:    s.Color,
		Alpha:    clampOpacity(s.CurrentOpacity),
		Gradient: g,
	})
}

func clampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > OpacityCeiling {
		return OpacityCeiling
	}
	return v
}
