package bootstrap

import (
	"cart-engine/internal/infra/remotecart"
	"cart-engine/internal/infra/uow"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"go.uber.org/fx"
)

const (
	RemoteCartHTTP     = "http"
	RemoteCartPostgres = "postgres"
)

// RemoteCartModule picks where the account cart lives. The database pool is
// only opened for the postgres driver.
func RemoteCartModule(cfg config.RemoteCartConfig) fx.Option {
	if cfg.Driver == RemoteCartPostgres {
		return fx.Module("remotecart",
			DBModule,
			fx.Provide(
				uow.NewPostgresUoW,
				fx.Annotate(
					remotecart.NewPostgresStore,
					fx.As(new(usecase.RemoteCart)),
				),
			),
		)
	}

	return fx.Module("remotecart",
		fx.Provide(
			fx.Annotate(
				remotecart.NewHTTPClient,
				fx.As(new(usecase.RemoteCart)),
			),
		),
	)
}
