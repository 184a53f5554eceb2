package event

// Observable is the base that domain state machines embed. It holds the
// owning bus and exposes EmitChanges as the single sanctioned path for a
// state machine to announce a mutation. Mediators and views interact with a
// state machine only through its public operations; they never write its
// fields or emit its change events on its behalf.
type Observable struct {
	bus *Bus
}

// NewObservable binds an Observable to its owning bus.
func NewObservable(bus *Bus) Observable {
	return Observable{bus: bus}
}

// EmitChanges publishes a change event describing a completed mutation.
func (o Observable) EmitChanges(name string, payload any) {
	o.bus.Emit(name, payload)
}

// Bus returns the owning bus, for wiring observers next to the model.
func (o Observable) Bus() *Bus {
	return o.bus
}
