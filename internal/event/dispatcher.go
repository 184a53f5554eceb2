package event

// Dispatcher is the emit surface handed to rendering collaborators. Views
// run outside the loop goroutine, so their UI-origin events must not call
// Bus.Emit directly; Dispatcher posts each emission onto the loop, where it
// is dispatched with the same ordering guarantees as any other event.
type Dispatcher struct {
	bus  *Bus
	loop *Loop
}

// NewDispatcher creates a Dispatcher bound to the given bus and loop.
func NewDispatcher(bus *Bus, loop *Loop) *Dispatcher {
	return &Dispatcher{bus: bus, loop: loop}
}

// Emit schedules the event for dispatch on the loop and returns immediately.
func (d *Dispatcher) Emit(name string, payload any) {
	d.loop.Post(func() {
		d.bus.Emit(name, payload)
	})
}
