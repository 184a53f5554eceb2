// Package lot holds the auction-lot state machine and its bidding protocol.
package lot

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the auction state of a lot.
type Status string

const (
	// StatusWait means the auction has not started yet.
	StatusWait Status = "wait"
	// StatusActive means the auction is open for bids.
	StatusActive Status = "active"
	// StatusClosed is terminal: no operation transitions out of it.
	StatusClosed Status = "closed"
)

// Lot is an auctioned item with a live price and bid history.
//
// Invariant: History is strictly increasing and Price equals its last
// element, or MinPrice while History is empty. Only Model.PlaceBid and
// Model.UpdateStatus mutate a lot.
type Lot struct {
	ID          string
	Title       string
	About       string
	Description string
	Image       string
	Status      Status
	Datetime    time.Time // auction end instant
	Price       decimal.Decimal
	MinPrice    decimal.Decimal
	History     []decimal.Decimal
}

// Remaining reports the time left until the auction end instant, floored at
// zero.
func (l Lot) Remaining(now time.Time) time.Duration {
	d := l.Datetime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ErrLotClosed rejects operations against a lot whose auction has ended.
var ErrLotClosed = fmt.Errorf("lot is closed")

// InvalidBidError indicates a bid that does not strictly exceed the current
// price. Ties are rejected.
type InvalidBidError struct {
	Amount  decimal.Decimal
	Current decimal.Decimal
}

func (e *InvalidBidError) Error() string {
	return fmt.Sprintf("bid %s must exceed current price %s", e.Amount, e.Current)
}

// DetailsRequest asks the catalog mediator to open the lot modal.
type DetailsRequest struct {
	ID string
}

// BidRequest is the UI-origin intent to place a bid.
type BidRequest struct {
	LotID  string
	Amount decimal.Decimal
}

// BidAccepted is the model's change event for a successfully applied bid.
type BidAccepted struct {
	ID    string
	Price decimal.Decimal
}

// StatusChange is the model's change event for a status transition.
type StatusChange struct {
	ID     string
	Status Status
}
