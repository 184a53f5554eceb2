package mediator

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/domain/lot"
	"github.com/akarpov/auction-desk/internal/event"
	"github.com/akarpov/auction-desk/internal/view"
)

// LotAPI is the slice of the network contract the catalog mediator needs.
type LotAPI interface {
	ListLots(ctx context.Context) ([]lot.Lot, error)
	GetLot(ctx context.Context, id string) (lot.Lot, error)
	PlaceBid(ctx context.Context, id string, price decimal.Decimal) (lot.Lot, error)
}

// CatalogConfig tunes the catalog mediator.
type CatalogConfig struct {
	// Tick is the countdown re-render period. Defaults to one second.
	Tick time.Duration
}

// Catalog mediates between the lot listing, the lot modal with its bidding
// protocol and countdown, and the basket (adding purchased lots).
//
// The mediator owns the lot modal lifecycle: at most one lot model is open
// at a time, with exactly one countdown behind it. The countdown is released
// on every close path: the explicit close event, the basket taking over the
// modal surface, the application reset, the lot's auction closing, and a
// newly opened lot replacing the modal.
type Catalog struct {
	ctx    context.Context
	bus    *event.Bus
	loop   *event.Loop
	api    LotAPI
	basket *basket.Model
	list   view.Catalog
	modal  view.LotModal
	lg     *zap.Logger
	tick   time.Duration
	now    func() time.Time

	open  *lot.Model
	timer *countdown
}

// NewCatalog creates the mediator and registers its event handlers. ctx
// bounds the async network operations it starts.
func NewCatalog(
	ctx context.Context,
	bus *event.Bus,
	loop *event.Loop,
	api LotAPI,
	basketModel *basket.Model,
	listView view.Catalog,
	modal view.LotModal,
	lg *zap.Logger,
	cfg CatalogConfig,
) *Catalog {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	c := &Catalog{
		ctx:    ctx,
		bus:    bus,
		loop:   loop,
		api:    api,
		basket: basketModel,
		list:   listView,
		modal:  modal,
		lg:     lg.Named("catalog"),
		tick:   cfg.Tick,
		now:    time.Now,
	}

	event.On(bus, event.LotBuy, c.onBuy)
	event.On(bus, event.LotDetails, c.onDetails)
	// lot:bid carries the UI bid intent and, re-emitted by the lot model,
	// the accepted-bid change notification. Only the intent is acted on
	// here; the modal refresh happens after the server round trip.
	bus.Subscribe(event.LotBid, func(payload any) {
		if req, ok := payload.(lot.BidRequest); ok {
			c.onBid(req)
		}
	})
	event.On(bus, event.LotStatus, c.onStatus)
	bus.Subscribe(event.LotClose, func(any) { c.releaseLot(true) })
	// The basket modal takes over the shared modal surface; release the lot
	// modal's resources without issuing a close command to the surface.
	bus.Subscribe(event.BasketClick, func(any) { c.releaseLot(false) })
	bus.Subscribe(event.AppReset, func(any) { c.releaseLot(true) })

	return c
}

// LoadLots fetches the catalog and renders the listing. Run once at startup
// and again on demand.
func (c *Catalog) LoadLots() {
	c.bus.Emit(event.CatalogLoading, nil)
	go func() {
		lots, err := c.api.ListLots(c.ctx)
		c.loop.Post(func() {
			if err != nil {
				c.lg.Error("catalog load failed", zap.Error(err))
				c.bus.Emit(event.CatalogError, errors.Wrap(err, "list lots"))
				return
			}
			c.list.RenderCatalog(lots)
			c.bus.Emit(event.CatalogLoaded, lots)
		})
	}()
}

// onBuy adds a lot snapshot to the basket.
func (c *Catalog) onBuy(item basket.Item) {
	c.basket.AddItem(item)
}

// onDetails fetches the full lot detail and opens the lot modal.
func (c *Catalog) onDetails(req lot.DetailsRequest) {
	go func() {
		fetched, err := c.api.GetLot(c.ctx, req.ID)
		c.loop.Post(func() {
			if err != nil {
				c.lg.Error("lot detail fetch failed",
					zap.String("lot_id", req.ID),
					zap.Error(err),
				)
				c.bus.Emit(event.LotError, errors.Wrap(err, "get lot"))
				return
			}
			c.openLot(fetched)
		})
	}()
}

// openLot replaces the modal contents with the given lot and arms its
// countdown.
func (c *Catalog) openLot(l lot.Lot) {
	c.releaseLot(false)

	c.open = lot.NewModel(l, c.bus)
	c.modal.RenderLot(c.open.Snapshot(), l.Remaining(c.now()))

	if c.open.Status() == lot.StatusClosed || l.Datetime.IsZero() {
		return
	}
	id := l.ID
	c.timer = startCountdown(c.loop, c.tick, l.Datetime,
		func(remaining time.Duration) {
			if c.showing(id) {
				c.modal.RenderCountdown(id, remaining)
			}
		},
		func() {
			// The auction clock: the deadline passed while the modal was
			// open, so drive the terminal transition. The lot:status
			// handler takes care of rendering and cleanup.
			if c.showing(id) {
				c.open.UpdateStatus(lot.StatusClosed)
			}
		},
	)
}

// onBid runs the bidding protocol: apply the bid locally, then submit it and
// re-fetch the authoritative lot state.
func (c *Catalog) onBid(req lot.BidRequest) {
	if !c.showing(req.LotID) {
		// Bid against a lot that is no longer presented: operation-fatal,
		// session-safe.
		c.lg.Warn("bid against a lot that is not open", zap.String("lot_id", req.LotID))
		c.modal.RenderBidError("lot is no longer open")
		return
	}

	if err := c.open.PlaceBid(req.Amount); err != nil {
		var bidErr *lot.InvalidBidError
		switch {
		case errors.As(err, &bidErr):
			c.modal.RenderBidError(bidErr.Error())
		case errors.Is(err, lot.ErrLotClosed):
			c.modal.RenderBidError("auction is closed")
		default:
			c.modal.RenderBidError(err.Error())
		}
		return
	}

	id, amount := req.LotID, req.Amount
	go func() {
		_, err := c.api.PlaceBid(c.ctx, id, amount)
		if err == nil {
			// The response already carries a lot, but a fresh fetch picks
			// up concurrent bidders as well.
			var fetched lot.Lot
			fetched, err = c.api.GetLot(c.ctx, id)
			if err == nil {
				c.loop.Post(func() { c.applyServerLot(fetched) })
				return
			}
		}
		c.loop.Post(func() {
			// The local bid stays applied; the next successful fetch
			// reconciles.
			c.lg.Error("bid submission failed",
				zap.String("lot_id", id),
				zap.Error(err),
			)
			c.bus.Emit(event.LotError, errors.Wrap(err, "place bid"))
		})
	}()
}

// applyServerLot reconciles a server snapshot into the open modal.
// Policy: last writer wins by fetch time, with a monotonic display guard —
// a stale snapshot whose price is below the locally accepted bid is dropped
// rather than rendered as a price downgrade.
func (c *Catalog) applyServerLot(l lot.Lot) {
	if !c.showing(l.ID) {
		return
	}
	serverPrice := l.MinPrice
	if n := len(l.History); n > 0 {
		serverPrice = l.History[n-1]
	}
	if serverPrice.LessThan(c.open.Price()) {
		c.lg.Warn("stale lot snapshot dropped",
			zap.String("lot_id", l.ID),
			zap.String("server_price", serverPrice.String()),
			zap.String("local_price", c.open.Price().String()),
		)
		return
	}

	c.open = lot.NewModel(l, c.bus)
	c.modal.RenderLot(c.open.Snapshot(), l.Remaining(c.now()))
	if c.open.Status() == lot.StatusClosed {
		c.stopTimer()
	}
}

// onStatus reacts to auction state transitions of the open lot.
func (c *Catalog) onStatus(s lot.StatusChange) {
	if s.Status != lot.StatusClosed || !c.showing(s.ID) {
		return
	}
	c.stopTimer()
	c.modal.RenderLot(c.open.Snapshot(), 0)
}

// releaseLot tears down the open modal state: the countdown is always
// released; the surface is closed only when this mediator still owns it.
func (c *Catalog) releaseLot(closeSurface bool) {
	c.stopTimer()
	if c.open == nil {
		return
	}
	c.open = nil
	if closeSurface {
		c.modal.Close()
	}
}

func (c *Catalog) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// showing reports whether the modal currently presents the given lot. Async
// completions and countdown callbacks use it as the staleness guard before
// touching the rendering surface.
func (c *Catalog) showing(id string) bool {
	return c.open != nil && c.open.ID() == id
}
