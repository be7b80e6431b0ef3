package animation

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/config"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

type stubTarget struct {
	paints []desktop.Paint
}

func (s *stubTarget) Show() error                    { return nil }
func (s *stubTarget) Hide() error                    { return nil }
func (s *stubTarget) SetInputTransparent(bool) error { return nil }
func (s *stubTarget) Repaint(p desktop.Paint) error  { s.paints = append(s.paints, p); return nil }
func (s *stubTarget) Close() error                   { return nil }

func testAnimationConfig() config.AnimationConfig {
	return config.AnimationConfig{
		EaseFraction:    0.1,
		PowerSaveTick:   67 * time.Millisecond,
		PowerSaveFxTick: 33 * time.Millisecond,
		PerformanceTick: 16 * time.Millisecond,
		MinRecompute:    50 * time.Millisecond,
	}
}

// newTestEngine builds an engine over two displays with display 0 active, so
// overlay 1 is fading in toward the default target.
func newTestEngine(t *testing.T) (*Engine, *overlay.Controller, []*stubTarget) {
	t.Helper()

	surfaces := []display.Surface{
		{Index: 0, X: 0, Y: 0, Width: 1920, Height: 1080},
		{Index: 1, X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	stubs := []*stubTarget{{}, {}}
	targets := []desktop.RenderTarget{stubs[0], stubs[1]}

	c := overlay.NewController(surfaces, targets, zerolog.Nop())
	e := NewEngine(testAnimationConfig(), c, func(fn func()) { fn() }, zerolog.Nop())
	c.SetActiveDisplay(0)
	return e, c, stubs
}

// stepUntil drives one task with a synthetic clock until cond holds or the
// tick budget runs out. Returns the number of ticks consumed.
func stepUntil(t *testing.T, e *Engine, tk *task, budget int, cond func() bool) int {
	t.Helper()

	now := time.Now()
	for i := 0; i < budget; i++ {
		if cond() {
			return i
		}
		now = now.Add(e.cadence())
		e.step(tk, now)
	}
	if !cond() {
		t.Fatalf("condition not reached within %d ticks", budget)
	}
	return budget
}

func TestStepSuspendsWhenOverlayHidden(t *testing.T) {
	e, c, _ := newTestEngine(t)

	// Overlay 0 is the active display: hidden, nothing to animate.
	if e.step(e.tasks[0], time.Now()) {
		t.Error("step() on hidden overlay reported more work")
	}
	if c.Overlays()[0].CurrentOpacity != 0 {
		t.Error("hidden overlay opacity changed")
	}
}

func TestFadeInConvergesWithoutOvershoot(t *testing.T) {
	e, c, _ := newTestEngine(t)
	o := c.Overlays()[1]

	if o.Phase != overlay.PhaseFadingIn {
		t.Fatalf("overlay 1 phase = %v, want fading-in", o.Phase)
	}

	prev := o.CurrentOpacity
	now := time.Now()
	for i := 0; i < 200 && o.Phase == overlay.PhaseFadingIn; i++ {
		now = now.Add(e.cadence())
		e.step(e.tasks[1], now)

		if o.CurrentOpacity < prev {
			t.Fatalf("opacity moved backwards: %v -> %v", prev, o.CurrentOpacity)
		}
		if o.CurrentOpacity < 0 || o.CurrentOpacity > overlay.OpacityCeiling {
			t.Fatalf("opacity %v outside [0, %v]", o.CurrentOpacity, overlay.OpacityCeiling)
		}
		prev = o.CurrentOpacity
	}

	if o.Phase != overlay.PhaseSteady {
		t.Fatalf("fade never completed, phase = %v at opacity %v", o.Phase, o.CurrentOpacity)
	}
	if diff := o.TargetOpacity - o.CurrentOpacity; diff > overlay.FadeInThreshold {
		t.Errorf("completed %v away from target, threshold %v", diff, overlay.FadeInThreshold)
	}
	if o.BaseOpacity != o.CurrentOpacity {
		t.Errorf("BaseOpacity = %v, want %v at completion", o.BaseOpacity, o.CurrentOpacity)
	}
}

func TestSteadyOverlaySuspends(t *testing.T) {
	e, c, _ := newTestEngine(t)
	o := c.Overlays()[1]

	stepUntil(t, e, e.tasks[1], 200, func() bool { return o.Phase == overlay.PhaseSteady })

	// Settle the residual distance below epsilon.
	now := time.Now().Add(time.Hour)
	for i := 0; i < 200; i++ {
		now = now.Add(e.cadence())
		if !e.step(e.tasks[1], now) {
			return
		}
	}
	t.Error("steady overlay with no effects never suspended")
}

func TestPowerSaveThrottleSkipsRecompute(t *testing.T) {
	e, c, stubs := newTestEngine(t)
	o := c.Overlays()[1]

	now := time.Now()
	e.step(e.tasks[1], now)

	before := o.CurrentOpacity
	paints := len(stubs[1].paints)

	// Well inside the recompute floor: keep ticking but change nothing.
	if !e.step(e.tasks[1], now.Add(10*time.Millisecond)) {
		t.Error("throttled step should keep the task armed")
	}
	if o.CurrentOpacity != before {
		t.Errorf("throttled step changed opacity %v -> %v", before, o.CurrentOpacity)
	}
	if len(stubs[1].paints) != paints {
		t.Error("throttled step repainted")
	}

	// Past the floor the fade resumes.
	e.step(e.tasks[1], now.Add(60*time.Millisecond))
	if o.CurrentOpacity == before {
		t.Error("step past the recompute floor changed nothing")
	}
}

func TestPerformanceModeSkipsThrottle(t *testing.T) {
	e, c, _ := newTestEngine(t)
	c.SetPowerSave(false)
	o := c.Overlays()[1]

	if got := e.cadence(); got != e.cfg.PerformanceTick {
		t.Errorf("cadence = %v, want %v", got, e.cfg.PerformanceTick)
	}

	now := time.Now()
	e.step(e.tasks[1], now)
	before := o.CurrentOpacity
	e.step(e.tasks[1], now.Add(16*time.Millisecond))
	if o.CurrentOpacity == before {
		t.Error("performance mode applied the power-save recompute floor")
	}
}

func TestCadencePerRegime(t *testing.T) {
	e, c, _ := newTestEngine(t)

	if got := e.cadence(); got != e.cfg.PowerSaveTick {
		t.Errorf("power-save cadence = %v, want %v", got, e.cfg.PowerSaveTick)
	}

	c.SetGlassmorphism(true)
	if got := e.cadence(); got != e.cfg.PowerSaveFxTick {
		t.Errorf("power-save effects cadence = %v, want %v", got, e.cfg.PowerSaveFxTick)
	}

	c.SetPowerSave(false)
	if got := e.cadence(); got != e.cfg.PerformanceTick {
		t.Errorf("performance cadence = %v, want %v", got, e.cfg.PerformanceTick)
	}
}

func TestBreathingStaysWithinBounds(t *testing.T) {
	e, c, _ := newTestEngine(t)
	o := c.Overlays()[1]

	stepUntil(t, e, e.tasks[1], 200, func() bool { return o.Phase == overlay.PhaseSteady })
	c.SetBreathing(true)

	now := time.Now().Add(time.Hour)
	for i := 0; i < 500; i++ {
		now = now.Add(e.cadence())
		if !e.step(e.tasks[1], now) {
			t.Fatal("breathing overlay suspended")
		}
		if o.CurrentOpacity < overlay.BreathingMin || o.CurrentOpacity > overlay.BreathingMax {
			t.Fatalf("breathing opacity %v outside [%v, %v]", o.CurrentOpacity, overlay.BreathingMin, overlay.BreathingMax)
		}
	}

	if o.Phase != overlay.PhaseAnimating {
		t.Errorf("phase = %v, want animating", o.Phase)
	}
}

func TestGradientPhaseWraps(t *testing.T) {
	e, c, stubs := newTestEngine(t)
	o := c.Overlays()[1]

	stepUntil(t, e, e.tasks[1], 200, func() bool { return o.Phase == overlay.PhaseSteady })
	c.SetGlassmorphism(true)

	now := time.Now().Add(time.Hour)
	for i := 0; i < 1000; i++ {
		now = now.Add(e.cadence())
		if !e.step(e.tasks[1], now) {
			t.Fatal("gradient overlay suspended")
		}
		if o.GradientPhase < 0 || o.GradientPhase >= 2*math.Pi {
			t.Fatalf("gradient phase %v outside [0, 2pi)", o.GradientPhase)
		}
	}

	last := stubs[1].paints[len(stubs[1].paints)-1]
	if last.Gradient == nil {
		t.Error("gradient repaint carried no spec")
	}
}

func TestSpeedMultiplierAcceleratesFade(t *testing.T) {
	slow, cSlow, _ := newTestEngine(t)
	fast, cFast, _ := newTestEngine(t)
	cFast.SetAnimationSpeed(3.0)

	oSlow := cSlow.Overlays()[1]
	oFast := cFast.Overlays()[1]

	slowTicks := stepUntil(t, slow, slow.tasks[1], 500, func() bool { return oSlow.Phase == overlay.PhaseSteady })
	fastTicks := stepUntil(t, fast, fast.tasks[1], 500, func() bool { return oFast.Phase == overlay.PhaseSteady })

	if fastTicks >= slowTicks {
		t.Errorf("speed 3.0 took %d ticks, speed 1.0 took %d", fastTicks, slowTicks)
	}
}

func TestStopCancelsTicks(t *testing.T) {
	e, c, _ := newTestEngine(t)
	o := c.Overlays()[1]

	e.Stop()

	before := o.CurrentOpacity
	e.Wake()           // no-op once stopped
	e.tick(e.tasks[1]) // fired timer racing shutdown

	if o.CurrentOpacity != before {
		t.Error("tick after Stop mutated overlay state")
	}
	for _, tk := range e.tasks {
		if tk.armed {
			t.Error("task armed after Stop")
		}
	}
}
