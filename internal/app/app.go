package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/akarpov/auction-desk/internal/auctionapi"
	"github.com/akarpov/auction-desk/internal/domain/basket"
	"github.com/akarpov/auction-desk/internal/event"
	"github.com/akarpov/auction-desk/internal/mediator"
	"github.com/akarpov/auction-desk/internal/view"
)

// Run creates all dependencies, wires the mediators onto the bus, and drives
// the dispatch loop until ctx is cancelled. It is the single wiring point
// for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("api_url", cfg.APIBaseURL))

	loop := event.NewLoop()
	bus := event.NewBus(lg)

	// Cross-cutting observation: every event is audit-logged and counted.
	meter := m.MeterProvider().Meter("auction-desk")
	eventsTotal, err := meter.Int64Counter("events_emitted_total",
		metric.WithDescription("Events dispatched on the bus, by name."),
	)
	if err != nil {
		return errors.Wrap(err, "create events counter")
	}
	bus.SubscribeAll(func(msg event.Message) {
		lg.Debug("event", zap.String("name", msg.Name))
		eventsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event", msg.Name),
		))
	})

	api := auctionapi.NewClient(auctionapi.Config{
		BaseURL:    cfg.APIBaseURL,
		CDNBaseURL: cfg.CDNBaseURL,
		Timeout:    cfg.HTTPTimeout,
	})
	defer func() {
		if err := api.Close(); err != nil {
			lg.Warn("closing api client", zap.Error(err))
		}
	}()

	// State machines, rendering surface, mediators.
	basketModel := basket.NewModel(bus)
	views := view.NewLog(lg)
	mediator.NewBasket(ctx, bus, loop, basketModel, views, views, api, lg)
	catalog := mediator.NewCatalog(ctx, bus, loop, api, basketModel, views, views, lg, mediator.CatalogConfig{
		Tick: cfg.CountdownTick,
	})

	loop.Post(catalog.LoadLots)

	lg.Info("Dispatch loop running")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "dispatch loop")
	}
	return nil
}
