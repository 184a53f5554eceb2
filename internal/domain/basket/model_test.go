package basket

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/event"
)

func newTestModel(t *testing.T) (*Model, *event.Bus) {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	return NewModel(bus), bus
}

func item(id string, price int64) Item {
	return Item{
		ID:    id,
		Title: "Lot " + id,
		Image: id + ".jpg",
		Price: decimal.NewFromInt(price),
	}
}

func TestAddItem_TotalIsSumOfAllPrices(t *testing.T) {
	m, _ := newTestModel(t)

	m.AddItem(item("a", 500))
	m.AddItem(item("b", 300))

	assert.True(t, decimal.NewFromInt(800).Equal(m.Total()))
	assert.Len(t, m.Items(), 2)
}

func TestAddItem_InsertionOrderPreserved(t *testing.T) {
	m, _ := newTestModel(t)

	m.AddItem(item("a", 1))
	m.AddItem(item("b", 2))
	m.AddItem(item("c", 3))

	assert.Equal(t, []string{"a", "b", "c"}, m.ItemIDs())
}

func TestAddItem_EmitsFullSnapshot(t *testing.T) {
	m, bus := newTestModel(t)

	var got []Snapshot
	event.On(bus, event.BasketChanged, func(s Snapshot) { got = append(got, s) })

	m.AddItem(item("a", 500))

	require.Len(t, got, 1)
	assert.Len(t, got[0].Items, 1)
	assert.True(t, decimal.NewFromInt(500).Equal(got[0].Total))
}

func TestClear_ResetsStateAndEmits(t *testing.T) {
	m, bus := newTestModel(t)
	m.AddItem(item("a", 500))
	m.AddItem(item("b", 300))

	var got []Snapshot
	event.On(bus, event.BasketChanged, func(s Snapshot) { got = append(got, s) })

	m.Clear()

	assert.Empty(t, m.Items())
	assert.True(t, decimal.Zero.Equal(m.Total()))
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Items)
	assert.True(t, decimal.Zero.Equal(got[0].Total))
}

func TestSetCurrentTab_DoesNotMutateItemsOrTotal(t *testing.T) {
	m, bus := newTestModel(t)
	m.AddItem(item("a", 500))
	m.AddItem(item("b", 300))

	emitted := 0
	bus.SubscribeAll(func(event.Message) { emitted++ })

	m.SetCurrentTab(TabClosed)

	assert.Equal(t, TabClosed, m.CurrentTab())
	assert.Len(t, m.Items(), 2)
	assert.True(t, decimal.NewFromInt(800).Equal(m.Total()))
	assert.Zero(t, emitted, "tab selection must not emit")
}

func TestTabItems_FiltersWithoutChangingTotal(t *testing.T) {
	m, _ := newTestModel(t)
	m.AddItem(item("a", 500))
	closedItem := item("b", 300)
	closedItem.Closed = true
	m.AddItem(closedItem)

	m.SetCurrentTab(TabActive)
	active := m.Snapshot()
	require.Len(t, active.TabItems(), 1)
	assert.Equal(t, "a", active.TabItems()[0].ID)

	m.SetCurrentTab(TabClosed)
	closed := m.Snapshot()
	require.Len(t, closed.TabItems(), 1)
	assert.Equal(t, "b", closed.TabItems()[0].ID)

	// Total is a basket-wide aggregate, identical in both tab views.
	assert.True(t, active.Total.Equal(closed.Total))
	assert.True(t, decimal.NewFromInt(800).Equal(closed.Total))
}

func TestMarkLotClosed_FlagsMatchingItems(t *testing.T) {
	m, bus := newTestModel(t)
	m.AddItem(item("a", 500))
	m.AddItem(item("b", 300))

	changed := 0
	event.On(bus, event.BasketChanged, func(Snapshot) { changed++ })

	require.True(t, m.MarkLotClosed("b"))

	items := m.Items()
	assert.False(t, items[0].Closed)
	assert.True(t, items[1].Closed)
	assert.Equal(t, 1, changed)
	// Closing never changes the total.
	assert.True(t, decimal.NewFromInt(800).Equal(m.Total()))
}

func TestMarkLotClosed_NoMatchEmitsNothing(t *testing.T) {
	m, bus := newTestModel(t)
	m.AddItem(item("a", 500))

	emitted := 0
	bus.SubscribeAll(func(event.Message) { emitted++ })

	assert.False(t, m.MarkLotClosed("missing"))
	assert.Zero(t, emitted)
}

func TestMarkLotClosed_AlreadyClosedIsNoop(t *testing.T) {
	m, bus := newTestModel(t)
	it := item("a", 500)
	it.Closed = true
	m.AddItem(it)

	emitted := 0
	bus.SubscribeAll(func(event.Message) { emitted++ })

	assert.False(t, m.MarkLotClosed("a"))
	assert.Zero(t, emitted)
}

func TestSnapshot_ItemsAreACopy(t *testing.T) {
	m, _ := newTestModel(t)
	m.AddItem(item("a", 500))

	snap := m.Snapshot()
	snap.Items[0].Price = decimal.NewFromInt(1)

	assert.True(t, decimal.NewFromInt(500).Equal(m.Items()[0].Price))
}
