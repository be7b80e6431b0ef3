// Package pointer runs the background loop that polls the pointer position
// and emits active-display-changed events.
package pointer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/display"
	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// FaultSink records non-fatal background faults. Satisfied by the settings
// store; may be nil.
type FaultSink interface {
	RecordFault(component, message string)
}

// Sample is one observed pointer position.
type Sample struct {
	X         int
	Y         int
	Timestamp time.Time
}

// Sampler polls the pointer on its own goroutine and emits the index of the
// display under the pointer whenever it changes. It never writes shared
// engine state; consumers drain Events on the run loop.
type Sampler struct {
	interval time.Duration
	registry *display.Registry
	source   desktop.PointerSource
	log      zerolog.Logger
	faults   FaultSink

	events chan int

	mu          sync.Mutex
	lastSeen    Sample
	seenValid   bool
	lastEmitted int
	emitValid   bool

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  bool
}

// NewSampler creates a sampler. faults may be nil.
func NewSampler(interval time.Duration, registry *display.Registry, source desktop.PointerSource, log zerolog.Logger, faults FaultSink) *Sampler {
	return &Sampler{
		interval: interval,
		registry: registry,
		source:   source,
		log:      log,
		faults:   faults,
		events:   make(chan int, 16),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Events is the active-display-changed stream.
func (s *Sampler) Events() <-chan int {
	return s.events
}

// Start runs the sampling loop until Stop or context cancellation. Blocks;
// callers run it on its own goroutine.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("sampler is already running")
	}
	s.running = true
	s.mu.Unlock()

	defer close(s.done)

	s.log.Debug().Dur("interval", s.interval).Msg("pointer sampler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("pointer sampler stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			s.log.Debug().Msg("pointer sampler stopped")
			return nil

		case <-ticker.C:
			s.sampleOnce()
		}
	}
}

// Stop terminates the loop and blocks until it has exited, so teardown can
// safely release resources the loop touches.
func (s *Sampler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	<-s.done
}

// Reset clears the last-emitted index and last-seen position. The next tick
// re-evaluates and emits unconditionally once a position is resolvable.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seenValid = false
	s.emitValid = false
}

// sampleOnce performs one tick. Faults are logged and recorded, never fatal.
func (s *Sampler) sampleOnce() {
	x, y, err := s.source.CurrentPosition()
	if err != nil {
		s.log.Warn().Err(err).Msg("pointer query failed")
		if s.faults != nil {
			s.faults.RecordFault("sampler", err.Error())
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seenValid && x == s.lastSeen.X && y == s.lastSeen.Y {
		return
	}
	s.lastSeen = Sample{X: x, Y: y, Timestamp: time.Now()}
	s.seenValid = true

	index, ok := s.registry.Locate(x, y)
	if !ok {
		// Outside every surface: previous active display stays active.
		return
	}

	if s.emitValid && index == s.lastEmitted {
		return
	}

	select {
	case s.events <- index:
		s.lastEmitted = index
		s.emitValid = true
	default:
		// Consumer is behind; drop and let the watchdog resynchronize.
		s.log.Warn().Int("display", index).Msg("event queue full, dropping display change")
	}
}
