// Package view declares the rendering-surface contract. Renderers accept
// typed snapshots and are responsible purely for presentation; they emit
// UI-origin events back through an event.Dispatcher and never call
// state-machine operations directly.
package view

import (
	"time"

	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/domain/lot"
)

// Catalog presents the lot listing.
type Catalog interface {
	RenderCatalog(lots []lot.Lot)
}

// Basket presents the always-visible basket badge/summary.
type Basket interface {
	RenderBasket(s basket.Snapshot)
}

// BasketModal presents the basket contents, the order form, and the
// checkout outcome. Inline errors stay on this surface; they are not bus
// events.
type BasketModal interface {
	RenderBasketModal(s basket.Snapshot)
	RenderOrderForm(s basket.Snapshot)
	RenderOrderError(message string)
	RenderOrderSuccess(orderID string)
	Close()
}

// LotModal presents a single lot's detail with its live countdown.
type LotModal interface {
	RenderLot(l lot.Lot, remaining time.Duration)
	RenderCountdown(lotID string, remaining time.Duration)
	RenderBidError(message string)
	Close()
}
