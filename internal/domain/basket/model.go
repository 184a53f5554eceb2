package basket

import (
	"github.com/shopspring/decimal"

	"github.com/akarpov/auction-desk/internal/event"
)

// Model is the state machine owning the basket: its items, the derived
// total, and the active/closed tab selection. Every content mutation emits
// event.BasketChanged with a full snapshot; tab selection is pure state and
// emits nothing (tab-switch announcements are the mediator's job).
//
// Item content is trusted as supplied: the lot-selection flow upstream is
// the validation boundary.
type Model struct {
	event.Observable
	items      []Item
	total      decimal.Decimal
	currentTab Tab
}

// NewModel creates an empty basket bound to its owning bus.
func NewModel(bus *event.Bus) *Model {
	return &Model{
		Observable: event.NewObservable(bus),
		currentTab: TabActive,
	}
}

// AddItem appends an item, recomputes the total, and announces the change.
func (m *Model) AddItem(item Item) {
	m.items = append(m.items, item)
	m.recalculateTotal()
	m.EmitChanges(event.BasketChanged, m.Snapshot())
}

// Clear resets the basket to empty and announces the change.
func (m *Model) Clear() {
	m.items = nil
	m.total = decimal.Zero
	m.EmitChanges(event.BasketChanged, m.Snapshot())
}

// MarkLotClosed flags every item referencing the given lot as closed and
// announces the change. It reports whether any item matched. This is the
// synchronization path from lot status transitions into the basket.
func (m *Model) MarkLotClosed(lotID string) bool {
	changed := false
	for i := range m.items {
		if m.items[i].ID == lotID && !m.items[i].Closed {
			m.items[i].Closed = true
			changed = true
		}
	}
	if changed {
		m.EmitChanges(event.BasketChanged, m.Snapshot())
	}
	return changed
}

// SetCurrentTab selects the presented tab.
func (m *Model) SetCurrentTab(tab Tab) {
	m.currentTab = tab
}

// CurrentTab returns the selected tab.
func (m *Model) CurrentTab() Tab {
	return m.currentTab
}

// Items returns a copy of the items in insertion order.
func (m *Model) Items() []Item {
	return append([]Item(nil), m.items...)
}

// ItemIDs returns the lot identities of all items in insertion order.
func (m *Model) ItemIDs() []string {
	ids := make([]string, len(m.items))
	for i, it := range m.items {
		ids[i] = it.ID
	}
	return ids
}

// Total returns the basket-wide total: the sum of all item prices,
// regardless of the tab filter.
func (m *Model) Total() decimal.Decimal {
	return m.total
}

// Snapshot returns an immutable point-in-time copy of the basket.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Items:      m.Items(),
		Total:      m.total,
		CurrentTab: m.currentTab,
	}
}

func (m *Model) recalculateTotal() {
	total := decimal.Zero
	for _, it := range m.items {
		total = total.Add(it.Price)
	}
	m.total = total
}
