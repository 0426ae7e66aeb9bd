package bootstrap

import (
	"cart-engine/cmd/bootstrap/components"
	"cart-engine/internal/pkg/config"

	"go.uber.org/fx"
)

func Module(cfg config.Config) fx.Option {
	return fx.Options(
		ConfigModule(cfg),
		LoggerModule,
		JWTModule,
		StorageModule,
		RemoteCartModule(cfg.RemoteCart),
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
	)
}
