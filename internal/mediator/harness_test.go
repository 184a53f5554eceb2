package mediator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/domain/lot"
	"github.com/akarpov/auction-desk/internal/domain/order"
	"github.com/akarpov/auction-desk/internal/event"
)

// --- Fake rendering surface ---

// fakeViews implements every view interface and records render commands
// under a mutex so tests can poll from outside the loop goroutine.
type fakeViews struct {
	mu sync.Mutex

	catalogRenders [][]lot.Lot
	basketRenders  []basket.Snapshot
	modalRenders   []basket.Snapshot
	orderForms     []basket.Snapshot
	orderErrors    []string
	orderSuccess   []string
	lotRenders     []lot.Lot
	countdowns     []time.Duration
	bidErrors      []string
	closes         int
}

func (v *fakeViews) RenderCatalog(lots []lot.Lot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.catalogRenders = append(v.catalogRenders, lots)
}

func (v *fakeViews) RenderBasket(s basket.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.basketRenders = append(v.basketRenders, s)
}

func (v *fakeViews) RenderBasketModal(s basket.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modalRenders = append(v.modalRenders, s)
}

func (v *fakeViews) RenderOrderForm(s basket.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orderForms = append(v.orderForms, s)
}

func (v *fakeViews) RenderOrderError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orderErrors = append(v.orderErrors, message)
}

func (v *fakeViews) RenderOrderSuccess(orderID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orderSuccess = append(v.orderSuccess, orderID)
}

func (v *fakeViews) RenderLot(l lot.Lot, _ time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lotRenders = append(v.lotRenders, l)
}

func (v *fakeViews) RenderCountdown(_ string, remaining time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.countdowns = append(v.countdowns, remaining)
}

func (v *fakeViews) RenderBidError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bidErrors = append(v.bidErrors, message)
}

func (v *fakeViews) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closes++
}

// snapshot-style accessors

func (v *fakeViews) lotRenderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.lotRenders)
}

func (v *fakeViews) lastLotRender() lot.Lot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lotRenders[len(v.lotRenders)-1]
}

func (v *fakeViews) countdownCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.countdowns)
}

func (v *fakeViews) closeCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closes
}

func (v *fakeViews) lastOrderError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.orderErrors) == 0 {
		return ""
	}
	return v.orderErrors[len(v.orderErrors)-1]
}

func (v *fakeViews) orderSuccessCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.orderSuccess)
}

func (v *fakeViews) lastBidError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.bidErrors) == 0 {
		return ""
	}
	return v.bidErrors[len(v.bidErrors)-1]
}

// --- Fake network client ---

type fakeAPI struct {
	mu sync.Mutex

	lots    []lot.Lot
	listErr error

	lotByID map[string]lot.Lot
	getErr  error
	// getLotGate, when set, blocks GetLot until the channel is closed.
	getLotGate chan struct{}
	getCalls   int

	bidErr   error
	bidCalls int

	submitErr error
	conf      order.Confirmation
	submitted []order.Order
}

func (a *fakeAPI) ListLots(context.Context) ([]lot.Lot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lots, a.listErr
}

func (a *fakeAPI) GetLot(_ context.Context, id string) (lot.Lot, error) {
	a.mu.Lock()
	gate := a.getLotGate
	a.getCalls++
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.getErr != nil {
		return lot.Lot{}, a.getErr
	}
	return a.lotByID[id], nil
}

func (a *fakeAPI) PlaceBid(_ context.Context, id string, price decimal.Decimal) (lot.Lot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bidCalls++
	if a.bidErr != nil {
		return lot.Lot{}, a.bidErr
	}
	l := a.lotByID[id]
	l.Price = price
	l.History = append(append([]decimal.Decimal(nil), l.History...), price)
	a.lotByID[id] = l
	return l, nil
}

func (a *fakeAPI) SubmitOrder(_ context.Context, o order.Order) (order.Confirmation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitErr != nil {
		return order.Confirmation{}, a.submitErr
	}
	a.submitted = append(a.submitted, o)
	return a.conf, nil
}

func (a *fakeAPI) setLot(l lot.Lot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lotByID == nil {
		a.lotByID = make(map[string]lot.Lot)
	}
	a.lotByID[l.ID] = l
}

func (a *fakeAPI) bidCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bidCalls
}

func (a *fakeAPI) submittedOrders() []order.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]order.Order(nil), a.submitted...)
}

// --- Harness ---

type harness struct {
	t      *testing.T
	bus    *event.Bus
	loop   *event.Loop
	model  *basket.Model
	views  *fakeViews
	api    *fakeAPI
	basket *Basket
	cat    *Catalog

	eventsMu sync.Mutex
	events   []event.Message
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		bus:   event.NewBus(zap.NewNop()),
		loop:  event.NewLoop(),
		views: &fakeViews{},
		api:   &fakeAPI{conf: order.Confirmation{ID: "order-1"}},
	}
	h.model = basket.NewModel(h.bus)
	h.bus.SubscribeAll(func(m event.Message) {
		h.eventsMu.Lock()
		h.events = append(h.events, m)
		h.eventsMu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h.basket = NewBasket(ctx, h.bus, h.loop, h.model, h.views, h.views, h.api, zap.NewNop())
	h.cat = NewCatalog(ctx, h.bus, h.loop, h.api, h.model, h.views, h.views, zap.NewNop(), CatalogConfig{
		Tick: 10 * time.Millisecond,
	})

	go h.loop.Run(ctx)
	return h
}

// emit dispatches an event on the loop and waits for the dispatch (and any
// synchronous handler work) to finish.
func (h *harness) emit(name string, payload any) {
	h.t.Helper()
	done := make(chan struct{})
	h.loop.Post(func() {
		h.bus.Emit(name, payload)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatalf("loop did not dispatch %s", name)
	}
}

// drain waits for every task already posted to the loop to complete, giving
// the test a consistent view of loop-owned state.
func (h *harness) drain() {
	h.emit("test:drain", nil)
}

// eventNames returns the names of all events observed so far.
func (h *harness) eventNames() []string {
	h.eventsMu.Lock()
	defer h.eventsMu.Unlock()
	names := make([]string, len(h.events))
	for i, m := range h.events {
		names[i] = m.Name
	}
	return names
}

func (h *harness) sawEvent(name string) bool {
	for _, n := range h.eventNames() {
		if n == name {
			return true
		}
	}
	return false
}

// --- Shared fixtures ---

func activeLot(id string, price int64, deadline time.Time) lot.Lot {
	return lot.Lot{
		ID:       id,
		Title:    "Lot " + id,
		Image:    id + ".jpg",
		Status:   lot.StatusActive,
		Datetime: deadline,
		Price:    decimal.NewFromInt(price),
		MinPrice: decimal.NewFromInt(price),
	}
}

func basketItem(id string, price int64) basket.Item {
	return basket.Item{
		ID:    id,
		Title: "Lot " + id,
		Image: id + ".jpg",
		Price: decimal.NewFromInt(price),
	}
}
