// Package event provides the in-process publish/subscribe backbone of the
// application: a synchronous Bus, a serialized dispatch Loop, and the
// Observable base that state machines embed to announce changes.
package event

import (
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes the payload of a single event.
type Handler func(payload any)

// Message pairs an event name with its payload. It is what SubscribeAll
// observers receive.
type Message struct {
	Name    string
	Payload any
}

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	id uint64
}

// subscriber is one registered handler. A pattern containing glob
// metacharacters matches event-name families; otherwise matching is exact.
// all-subscribers receive every event regardless of name.
type subscriber struct {
	id      uint64
	pattern string
	glob    bool
	all     bool
	handler Handler
	observe func(Message)
}

func (s *subscriber) matches(name string) bool {
	if s.all {
		return true
	}
	if s.glob {
		ok, err := path.Match(s.pattern, name)
		return err == nil && ok
	}
	return s.pattern == name
}

// Bus is a synchronous publish/subscribe dispatcher.
//
// Dispatch runs every matching handler, in registration order, before Emit
// returns. Emit is re-entrant: a handler may emit further events, and those
// nested dispatches run to completion before the outer dispatch resumes with
// its remaining handlers. The bus keeps no event history.
//
// Each handler invocation is isolated: a panicking handler is logged and
// skipped, and the remaining handlers still run. One faulty subscriber can
// never break the dispatch chain for unrelated subscribers.
//
// The bus itself is not a scheduling point. All Emit calls are expected to
// happen on a single logical thread (the Loop); the internal mutex only
// protects the subscriber list during registration.
type Bus struct {
	lg *zap.Logger

	mu     sync.Mutex
	nextID uint64
	subs   []*subscriber
}

// NewBus creates a Bus that reports handler panics through lg.
func NewBus(lg *zap.Logger) *Bus {
	return &Bus{lg: lg.Named("bus")}
}

// Subscribe registers handler for events whose name matches pattern.
// Pattern is an exact event name, or a path.Match glob (e.g. "lot:*") when it
// contains glob metacharacters.
func (b *Bus) Subscribe(pattern string, handler Handler) Subscription {
	return b.add(&subscriber{
		pattern: pattern,
		glob:    strings.ContainsAny(pattern, `*?[\`),
		handler: handler,
	})
}

// SubscribeAll registers an observer that receives every emitted event.
// It is meant for cross-cutting concerns such as audit logging.
func (b *Bus) SubscribeAll(observe func(Message)) Subscription {
	return b.add(&subscriber{all: true, observe: observe})
}

func (b *Bus) add(s *subscriber) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subs = append(b.subs, s)
	return Subscription{id: s.id}
}

// Unsubscribe removes a previously registered handler. Removing an unknown
// subscription is a no-op. A handler removed mid-dispatch still receives the
// event currently being dispatched.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit dispatches the event to every matching handler in registration order.
// The subscriber list is snapshotted at the start of the dispatch, so
// handlers registered during it first see the next event.
func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	subs := make([]*subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if !s.matches(name) {
			continue
		}
		b.invoke(s, name, payload)
	}
}

// invoke runs a single handler behind a recover guard so a panicking
// subscriber is logged and skipped instead of unwinding the whole dispatch.
func (b *Bus) invoke(s *subscriber, name string, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			b.lg.Error("event handler panicked",
				zap.String("event", name),
				zap.String("pattern", s.pattern),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
		}
	}()
	if s.all {
		s.observe(Message{Name: name, Payload: payload})
		return
	}
	s.handler(payload)
}

// On registers a handler for a single event name with a typed payload.
// An emitted payload of a different type is logged and dropped; the event
// vocabulary is a closed set, so a mismatch is a programming error rather
// than an input error.
func On[T any](b *Bus, name string, handler func(T)) Subscription {
	return b.Subscribe(name, func(payload any) {
		v, ok := payload.(T)
		if !ok {
			b.lg.Warn("event payload type mismatch",
				zap.String("event", name),
				zap.Any("payload", payload),
			)
			return
		}
		handler(v)
	})
}
