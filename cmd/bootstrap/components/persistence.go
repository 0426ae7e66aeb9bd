package components

import (
	"log/slog"

	"cart-engine/internal/infra/catalog"
	"cart-engine/internal/infra/kv"
	"cart-engine/internal/infra/persistence"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			NewCartPersistence,
			fx.As(new(usecase.CartPersistence)),
		),
		fx.Annotate(
			catalog.NewClient,
			fx.As(new(usecase.Catalog)),
		),
	),
)

func NewCartPersistence(store kv.Store, cfg config.Config, logger *slog.Logger) *persistence.Adapter {
	return persistence.NewAdapter(store, cfg.Storage.KeyPrefix, logger)
}
