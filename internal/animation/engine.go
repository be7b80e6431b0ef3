// Package animation drives overlay opacity and decorative effects on
// per-overlay recurring ticks that suspend themselves when nothing visible
// is changing.
package animation

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/config"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Oscillation rates in radians per second, scaled by the speed multiplier.
const (
	breathingRate = 2.0
	gradientRate  = 1.0
)

// maxStepSeconds bounds the simulated time of one tick so a stalled timer
// cannot produce a visible jump.
const maxStepSeconds = 0.1

// Engine owns one animation task per overlay. Ticks fire from timers but the
// work itself is posted onto the run loop, so all state mutation stays
// single-threaded. Each task self-suspends when a tick produces no visible
// change; the controller's Wake re-arms it.
type Engine struct {
	cfg        config.AnimationConfig
	controller *overlay.Controller
	post       func(func())
	log        zerolog.Logger

	tasks   []*task
	stopped bool
}

type task struct {
	state       *overlay.State
	timer       *time.Timer
	armed       bool
	lastTick    time.Time
	lastCompute time.Time
}

// NewEngine builds a suspended engine over the controller's overlays. The
// post function must execute closures on the run loop.
func NewEngine(cfg config.AnimationConfig, controller *overlay.Controller, post func(func()), log zerolog.Logger) *Engine {
	overlays := controller.Overlays()
	tasks := make([]*task, len(overlays))
	for i, o := range overlays {
		tasks[i] = &task{state: o}
	}

	e := &Engine{
		cfg:        cfg,
		controller: controller,
		post:       post,
		log:        log,
		tasks:      tasks,
	}
	controller.SetWaker(e)
	return e
}

// Wake re-arms every suspended task. Runs on the run loop.
func (e *Engine) Wake() {
	if e.stopped {
		return
	}
	for _, t := range e.tasks {
		e.arm(t)
	}
}

// Stop cancels all pending ticks. Runs on the run loop during shutdown; no
// tick can fire against a torn-down overlay afterwards because fired timers
// check the stopped flag on the loop before touching state.
func (e *Engine) Stop() {
	e.stopped = true
	for _, t := range e.tasks {
		if t.timer != nil {
			t.timer.Stop()
		}
		t.armed = false
	}
}

// cadence returns the tick interval for the current scheduling regime.
func (e *Engine) cadence() time.Duration {
	fx := e.controller.Effects()
	if !fx.PowerSave {
		return e.cfg.PerformanceTick
	}
	if fx.GradientActive() {
		return e.cfg.PowerSaveFxTick
	}
	return e.cfg.PowerSaveTick
}

func (e *Engine) arm(t *task) {
	if t.armed || e.stopped {
		return
	}
	t.armed = true
	t.lastTick = time.Now()

	d := e.cadence()
	if t.timer == nil {
		t.timer = time.AfterFunc(d, func() { e.post(func() { e.tick(t) }) })
	} else {
		t.timer.Reset(d)
	}
}

// tick runs one animation step on the run loop, then either re-arms the
// timer or suspends the task.
func (e *Engine) tick(t *task) {
	if e.stopped {
		return
	}
	t.armed = false

	now := time.Now()
	if e.step(t, now) {
		e.arm(t)
	}
}

// step advances one overlay by one tick and repaints if needed. Returns true
// when the task should keep ticking: an opacity delta was applied or a
// decorative effect is running.
func (e *Engine) step(t *task, now time.Time) bool {
	o := t.state
	if !o.BlurActive {
		return false
	}

	fx := e.controller.Effects()

	// Power-save throttle: never recompute more often than the floor,
	// regardless of tick rate.
	if fx.PowerSave && !t.lastCompute.IsZero() && now.Sub(t.lastCompute) < e.cfg.MinRecompute {
		return true
	}

	dt := now.Sub(t.lastTick).Seconds()
	if dt <= 0 || dt > maxStepSeconds {
		dt = e.cadence().Seconds()
	}
	t.lastTick = now
	t.lastCompute = now

	frac := e.cfg.EaseFraction * fx.Speed
	if frac > 1 {
		frac = 1
	}

	changed := false
	breathing := o.FadeInComplete() && fx.CoolEnabled && fx.Breathing

	if breathing {
		// Ease the oscillation center toward the target, then swing
		// around it.
		if diff := o.TargetOpacity - o.BaseOpacity; math.Abs(diff) > overlay.Epsilon {
			o.BaseOpacity += diff * frac
		}
		o.EffectTime += dt * fx.Speed
		osc := o.BaseOpacity + math.Sin(o.EffectTime*breathingRate)*fx.BreathingIntensity
		o.CurrentOpacity = clamp(osc, overlay.BreathingMin, overlay.BreathingMax)
		o.EnterAnimating()
		changed = true
	} else {
		diff := o.TargetOpacity - o.CurrentOpacity
		if math.Abs(diff) > overlay.Epsilon {
			o.CurrentOpacity = clamp(o.CurrentOpacity+diff*frac, 0, overlay.OpacityCeiling)
			changed = true
		}
		if o.Phase == overlay.PhaseFadingIn && math.Abs(o.TargetOpacity-o.CurrentOpacity) <= overlay.FadeInThreshold {
			o.CompleteFadeIn()
		}
	}

	var gradient *desktop.GradientSpec
	gradientActive := fx.GradientActive()
	if gradientActive {
		o.GradientPhase = math.Mod(o.GradientPhase+dt*gradientRate*fx.Speed, 2*math.Pi)
		o.EnterAnimating()
		gradient = &desktop.GradientSpec{Phase: o.GradientPhase}
	}

	if changed || gradientActive {
		if err := o.RepaintGradient(gradient); err != nil {
			e.log.Warn().Err(err).Int("display", o.Surface.Index).Msg("animation repaint failed")
		}
	}

	return changed || gradientActive
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
