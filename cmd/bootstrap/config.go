package bootstrap

import (
	"cart-engine/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigModule supplies an already loaded config, since the drivers it names
// decide which other modules get assembled.
func ConfigModule(cfg config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(
			func(cfg config.Config) config.CatalogConfig { return cfg.Catalog },
			func(cfg config.Config) config.RemoteCartConfig { return cfg.RemoteCart },
		),
	)
}
