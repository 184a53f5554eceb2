package mediator

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/domain/lot"
	"github.com/akarpov/auction-desk/internal/domain/order"
	"github.com/akarpov/auction-desk/internal/event"
	"github.com/akarpov/auction-desk/internal/view"
)

// OrderSubmitter is the slice of the network contract the basket mediator
// needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o order.Order) (order.Confirmation, error)
}

// Basket mediates between the basket state machine, the basket rendering
// surfaces, and order submission.
type Basket struct {
	ctx   context.Context
	bus   *event.Bus
	loop  *event.Loop
	model *basket.Model
	view  view.Basket
	modal view.BasketModal
	api   OrderSubmitter
	lg    *zap.Logger
}

// NewBasket creates the mediator and registers its event handlers. ctx
// bounds the async order submission it may start.
func NewBasket(
	ctx context.Context,
	bus *event.Bus,
	loop *event.Loop,
	model *basket.Model,
	basketView view.Basket,
	modal view.BasketModal,
	api OrderSubmitter,
	lg *zap.Logger,
) *Basket {
	b := &Basket{
		ctx:   ctx,
		bus:   bus,
		loop:  loop,
		model: model,
		view:  basketView,
		modal: modal,
		api:   api,
		lg:    lg.Named("basket"),
	}

	event.On(bus, event.BasketChanged, b.onChanged)
	bus.Subscribe(event.BasketClick, func(any) { b.openModal() })
	event.On(bus, event.BasketSwitchTab, b.onSwitchTab)
	bus.Subscribe(event.BasketCheckout, func(any) { b.openOrderForm() })
	event.On(bus, event.OrderSubmit, b.submit)
	bus.Subscribe(event.BasketClose, func(any) { b.modal.Close() })
	bus.Subscribe(event.AppReset, func(any) { b.modal.Close() })
	event.On(bus, event.LotStatus, b.onLotStatus)

	return b
}

func (b *Basket) onChanged(s basket.Snapshot) {
	b.view.RenderBasket(s)
}

func (b *Basket) openModal() {
	b.modal.RenderBasketModal(b.model.Snapshot())
}

func (b *Basket) onSwitchTab(t basket.TabChange) {
	b.model.SetCurrentTab(t.Tab)
	b.modal.RenderBasketModal(b.model.Snapshot())
}

func (b *Basket) openOrderForm() {
	b.modal.RenderOrderForm(b.model.Snapshot())
}

// onLotStatus keeps basket items in step with the auction clock: once a
// lot's auction closes, its basket snapshot moves to the closed tab.
func (b *Basket) onLotStatus(s lot.StatusChange) {
	if s.Status != lot.StatusClosed {
		return
	}
	if b.model.MarkLotClosed(s.ID) {
		b.lg.Debug("basket item closed", zap.String("lot_id", s.ID))
	}
}

// submit runs the checkout protocol. Validation failures surface inline on
// the order form and never reach the bus. Submission failures surface
// inline, are re-broadcast as order:error, and leave the basket unchanged;
// there is no automatic retry. On success the basket is cleared and the
// success indicator is rendered.
func (b *Basket) submit(form order.Form) {
	if err := form.Validate(); err != nil {
		b.modal.RenderOrderError(err.Error())
		return
	}
	items := b.model.ItemIDs()
	if len(items) == 0 {
		b.modal.RenderOrderError("basket is empty")
		return
	}

	o := order.Order{Email: form.Email, Phone: form.Phone, Items: items}
	go func() {
		conf, err := b.api.SubmitOrder(b.ctx, o)
		b.loop.Post(func() {
			if err != nil {
				b.lg.Error("order submission failed", zap.Error(err))
				b.modal.RenderOrderError("could not place the order")
				b.bus.Emit(event.OrderError, errors.Wrap(err, "submit order"))
				return
			}
			b.model.Clear()
			b.modal.RenderOrderSuccess(conf.ID)
			b.bus.Emit(event.OrderSuccess, conf)
		})
	}()
}
