// Package watchdog periodically corrects drift between the pointer sampler
// and the overlay state. The sampler can silently stop emitting (lost event,
// stalled loop); this is the system's self-healing pass.
package watchdog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// Sampler is the resynchronization hook into the pointer sampler.
type Sampler interface {
	Reset()
}

// FaultSink records corrections and faults. May be nil.
type FaultSink interface {
	RecordFault(component, message string)
}

// Watchdog re-resolves the pointer on a slow cadence, plus debounced host
// focus-change signals, and reasserts the activation path on any mismatch.
// Reconciliation itself runs on the run loop; this goroutine only schedules.
type Watchdog struct {
	interval time.Duration
	debounce time.Duration

	registry   *display.Registry
	pointer    desktop.PointerSource
	controller *overlay.Controller
	sampler    Sampler
	post       func(func())
	focus      <-chan struct{}
	faults     FaultSink
	log        zerolog.Logger

	stopChan chan struct{}
	done     chan struct{}
}

// New creates a watchdog. focus and faults may be nil.
func New(
	interval, debounce time.Duration,
	registry *display.Registry,
	pointer desktop.PointerSource,
	controller *overlay.Controller,
	sampler Sampler,
	post func(func()),
	focus <-chan struct{},
	faults FaultSink,
	log zerolog.Logger,
) *Watchdog {
	return &Watchdog{
		interval:   interval,
		debounce:   debounce,
		registry:   registry,
		pointer:    pointer,
		controller: controller,
		sampler:    sampler,
		post:       post,
		focus:      focus,
		faults:     faults,
		log:        log,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run schedules reconciliation until Stop or context cancellation. Blocks;
// callers run it on its own goroutine.
func (w *Watchdog) Run(ctx context.Context) error {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Debounce timer for focus-change signals; inactive until one arrives.
	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.stopChan:
			return nil

		case <-ticker.C:
			w.post(w.Reconcile)

		case _, ok := <-w.focus:
			if !ok {
				w.focus = nil
				continue
			}
			// Restart the debounce window on every signal.
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.debounce)

		case <-debounce.C:
			w.post(w.Reconcile)
		}
	}
}

// Stop terminates the scheduling loop and waits for it to exit.
func (w *Watchdog) Stop() {
	select {
	case <-w.stopChan:
	default:
		close(w.stopChan)
	}
	<-w.done
}

// Reconcile runs one idempotent correction pass on the run loop. When
// nothing is wrong it performs no visible change. Panics are swallowed and
// logged; the next scheduled run retries.
func (w *Watchdog) Reconcile() {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("reconciliation panicked")
			if w.faults != nil {
				w.faults.RecordFault("watchdog", "reconciliation panic")
			}
		}
	}()

	if !w.controller.Enabled() {
		return
	}

	x, y, err := w.pointer.CurrentPosition()
	if err != nil {
		w.log.Warn().Err(err).Msg("watchdog pointer query failed")
		if w.faults != nil {
			w.faults.RecordFault("watchdog", err.Error())
		}
		return
	}

	index, ok := w.registry.Locate(x, y)
	if !ok {
		// Pointer outside every surface; last known state stands.
		return
	}

	if !w.controller.Mismatch(index) {
		return
	}

	w.log.Info().Int("display", index).Msg("correcting overlay drift")
	w.controller.SetActiveDisplay(index)
	w.sampler.Reset()
	if w.faults != nil {
		w.faults.RecordFault("watchdog", "corrected overlay drift")
	}
}
