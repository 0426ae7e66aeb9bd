package components

import (
	"context"
	"log/slog"

	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/pkg/clock"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseServicesModule,
	fx.Invoke(
		StartSessionSweeper,
	),
)

var usecaseBaseOption = fx.Provide(
	NewPricingClock,
	promotion.NewEngine,
	usecase.NewPricingService,
	usecase.NewTokenValidator,
	usecase.NewSessionRegistry,
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		usecase.NewCartService,
		usecase.NewSessionService,
	),
)

// NewPricingClock decides "today" for promotion windows in the pricing zone.
func NewPricingClock(cfg config.Config) (clock.Clock, error) {
	loc, err := cfg.Pricing.Location()
	if err != nil {
		return nil, err
	}
	return clock.NewRealClock(loc), nil
}

func StartSessionSweeper(lc fx.Lifecycle, registry *usecase.SessionRegistry, cfg config.Config, logger *slog.Logger) {
	if cfg.Session.SweepInterval <= 0 || cfg.Session.IdleTimeout <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				registry.Sweep(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout, func(n int) {
					logger.Debug("evicted idle sessions", "count", n, "remaining", registry.Len())
				})
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
