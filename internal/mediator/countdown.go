// Package mediator wires UI-origin and model-change events to state-machine
// operations, network calls, and render commands. Mediators own no state
// beyond references to their collaborators and the currently open modal.
package mediator

import (
	"sync"
	"time"

	"github.com/akarpov/auction-desk/internal/event"
)

// countdown is the scoped timer resource behind an open lot modal. It ticks
// on its own goroutine but delivers every callback through the loop, so
// observers run single-threaded like everything else.
//
// Exactly one countdown exists per open modal; the owner must call Stop on
// every path that closes or replaces the modal. Stop is idempotent. A tick
// already posted when Stop is called may still run, so callbacks must guard
// on "is this view still current".
type countdown struct {
	stop chan struct{}
	once sync.Once
}

// startCountdown ticks every period until deadline, posting tick(remaining)
// onto the loop, and posts expire once the deadline passes, then stops
// itself.
func startCountdown(loop *event.Loop, period time.Duration, deadline time.Time, tick func(remaining time.Duration), expire func()) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case now := <-t.C:
				remaining := deadline.Sub(now)
				if remaining <= 0 {
					loop.Post(expire)
					c.Stop()
					return
				}
				loop.Post(func() { tick(remaining) })
			}
		}
	}()
	return c
}

// Stop releases the timer. Safe to call multiple times and from any
// goroutine.
func (c *countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
