package event

import (
	"context"
)

// Loop serializes all state mutation onto one goroutine.
//
// The bus dispatches synchronously, so whichever goroutine calls Emit runs
// the handlers. The loop gives the application a single such goroutine:
// UI-origin events, network completions, and countdown ticks are posted here
// and executed one at a time, in arrival order. State machines and mediators
// therefore never need locks.
type Loop struct {
	tasks chan func()
}

// NewLoop creates a dispatch loop. The buffer absorbs bursts of completions
// posted from network goroutines without blocking them.
func NewLoop() *Loop {
	return &Loop{tasks: make(chan func(), 64)}
}

// Run executes posted tasks until ctx is cancelled. It drains tasks already
// queued at cancellation time before returning, so a completion posted just
// before shutdown is not silently lost.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-ctx.Done():
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return ctx.Err()
				}
			}
		}
	}
}

// Post enqueues a task for execution on the loop goroutine. It is safe to
// call from any goroutine, including from a task already running on the loop
// (the buffer keeps a self-post from deadlocking).
func (l *Loop) Post(task func()) {
	l.tasks <- task
}
