package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cart-engine/internal/infra/kv"
	"cart-engine/internal/pkg/clock"
	"cart-engine/internal/pkg/config"

	"go.uber.org/fx"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewKVStore,
	),
)

func NewKVStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (kv.Store, error) {
	var store kv.Store
	switch cfg.Storage.Driver {
	case StorageMemory, "":
		store = kv.NewMemoryStore(cfg.Storage.TTL, clock.NewRealClock(nil))
	case StorageRedis:
		store = kv.NewRedisStore(kv.NewRedisClientFromConfig(cfg.Storage), cfg.Storage.TTL)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("cart storage unreachable: %w", err)
			}
			logger.Info("cart storage ready", "driver", cfg.Storage.Driver, "prefix", cfg.Storage.KeyPrefix)
			return nil
		},
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}
