package lot

import (
	"github.com/shopspring/decimal"

	"github.com/akarpov/auction-desk/internal/event"
)

// Model is the state machine owning a single lot. All mutation goes through
// PlaceBid and UpdateStatus; observers learn about changes from the
// event.LotBid and event.LotStatus events on the owning bus.
type Model struct {
	event.Observable
	lot Lot
}

// NewModel creates a lot state machine from construction data, normalizing
// the price: the last accepted bid wins, the starting price otherwise.
func NewModel(l Lot, bus *event.Bus) *Model {
	if n := len(l.History); n > 0 {
		l.Price = l.History[n-1]
	} else {
		l.Price = l.MinPrice
	}
	if l.Status == "" {
		l.Status = StatusWait
	}
	return &Model{
		Observable: event.NewObservable(bus),
		lot:        l,
	}
}

// Snapshot returns an immutable point-in-time copy of the lot.
func (m *Model) Snapshot() Lot {
	l := m.lot
	l.History = append([]decimal.Decimal(nil), m.lot.History...)
	return l
}

// ID returns the lot identity.
func (m *Model) ID() string {
	return m.lot.ID
}

// Status returns the current auction state.
func (m *Model) Status() Status {
	return m.lot.Status
}

// Price returns the current winning price.
func (m *Model) Price() decimal.Decimal {
	return m.lot.Price
}

// PlaceBid applies a bid. The amount must strictly exceed the current price;
// ties are rejected with *InvalidBidError and a bid against a closed lot is
// rejected with ErrLotClosed. On success the price and history are updated
// and event.LotBid is emitted with a BidAccepted payload.
func (m *Model) PlaceBid(amount decimal.Decimal) error {
	if m.lot.Status == StatusClosed {
		return ErrLotClosed
	}
	if amount.LessThanOrEqual(m.lot.Price) {
		return &InvalidBidError{Amount: amount, Current: m.lot.Price}
	}

	m.lot.Price = amount
	m.lot.History = append(m.lot.History, amount)

	m.EmitChanges(event.LotBid, BidAccepted{
		ID:    m.lot.ID,
		Price: m.lot.Price,
	})
	return nil
}

// UpdateStatus transitions the auction state and emits event.LotStatus. The
// ordering wait -> active -> closed is driven by the auction clock, which is
// trusted; the state machine does not enforce it.
func (m *Model) UpdateStatus(status Status) {
	m.lot.Status = status
	m.EmitChanges(event.LotStatus, StatusChange{
		ID:     m.lot.ID,
		Status: m.lot.Status,
	})
}
