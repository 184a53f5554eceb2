package view

import (
	"time"

	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/domain/lot"
)

// Log is a headless rendering surface that writes every render command to a
// structured log. The runner uses it so the state layer can be exercised
// end to end without a UI toolkit.
type Log struct {
	lg *zap.Logger
}

// NewLog creates a Log renderer.
func NewLog(lg *zap.Logger) *Log {
	return &Log{lg: lg.Named("view")}
}

func (v *Log) RenderCatalog(lots []lot.Lot) {
	v.lg.Info("catalog", zap.Int("lots", len(lots)))
}

func (v *Log) RenderBasket(s basket.Snapshot) {
	v.lg.Info("basket",
		zap.Int("items", len(s.Items)),
		zap.String("total", s.Total.String()),
	)
}

func (v *Log) RenderBasketModal(s basket.Snapshot) {
	v.lg.Info("basket modal",
		zap.String("tab", string(s.CurrentTab)),
		zap.Int("tab_items", len(s.TabItems())),
		zap.String("total", s.Total.String()),
	)
}

func (v *Log) RenderOrderForm(s basket.Snapshot) {
	v.lg.Info("order form", zap.Strings("items", itemIDs(s.Items)))
}

func (v *Log) RenderOrderError(message string) {
	v.lg.Info("order form error", zap.String("message", message))
}

func (v *Log) RenderOrderSuccess(orderID string) {
	v.lg.Info("order placed", zap.String("order_id", orderID))
}

func (v *Log) RenderLot(l lot.Lot, remaining time.Duration) {
	v.lg.Info("lot modal",
		zap.String("lot_id", l.ID),
		zap.String("status", string(l.Status)),
		zap.String("price", l.Price.String()),
		zap.Duration("remaining", remaining),
	)
}

func (v *Log) RenderCountdown(lotID string, remaining time.Duration) {
	v.lg.Debug("countdown",
		zap.String("lot_id", lotID),
		zap.Duration("remaining", remaining),
	)
}

func (v *Log) RenderBidError(message string) {
	v.lg.Info("bid error", zap.String("message", message))
}

func (v *Log) Close() {
	v.lg.Info("modal closed")
}

func itemIDs(items []basket.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
