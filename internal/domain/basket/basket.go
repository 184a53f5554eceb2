// Package basket holds the shopping-basket state machine.
package basket

import (
	"github.com/shopspring/decimal"
)

// Tab selects which subset of basket items is presented.
type Tab string

const (
	// TabActive shows items whose auctions are still running.
	TabActive Tab = "active"
	// TabClosed shows items whose auctions have ended.
	TabClosed Tab = "closed"
)

// Item is a snapshot of a lot at the time it was added to the basket. Items
// are never mutated in place except for the Closed flag, which is flipped by
// the model when the underlying auction ends.
type Item struct {
	ID     string
	Title  string
	Image  string
	Price  decimal.Decimal
	Closed bool
}

// Snapshot is the immutable basket view handed to renderers: all items in
// insertion order, the basket-wide total, and the selected tab.
type Snapshot struct {
	Items      []Item
	Total      decimal.Decimal
	CurrentTab Tab
}

// TabItems returns the subset of items matching the selected tab. The total
// is deliberately not recomputed here: it is a basket-wide aggregate,
// independent of the tab filter.
func (s Snapshot) TabItems() []Item {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Closed == (s.CurrentTab == TabClosed) {
			items = append(items, it)
		}
	}
	return items
}

// TabChange is the UI-origin request to switch the presented tab.
type TabChange struct {
	Tab Tab
}
