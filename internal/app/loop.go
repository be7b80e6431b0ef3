package app

import "sync"

// Loop is the single-threaded cooperative scheduler the engine runs on: one
// goroutine draining a task channel. Overlay, animation, and settings state
// are only ever touched from here, so the core needs no locks.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
	done  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 128),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Post schedules fn on the loop. Safe from any goroutine; drops the task if
// the loop is already shut down.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.quit:
	case l.tasks <- fn:
	}
}

// PostWait schedules fn and blocks until it has run, or the loop shut down.
func (l *Loop) PostWait(fn func()) {
	ran := make(chan struct{})
	l.Post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-l.done:
	}
}

// Run drains tasks until Close. Blocks; callers run it on a dedicated
// goroutine.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			// Drain anything already queued so posted work is not lost.
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Close stops the loop after draining queued tasks and waits for exit.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.quit)
	})
	<-l.done
}
