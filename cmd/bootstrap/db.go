package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cart-engine/internal/infra/db"
	"cart-engine/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// DBModule is only assembled when the account cart lives in Postgres.
var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// accountCartTable is created by migrations/001_account_cart.sql.
const accountCartTable = "account_cart_items"

func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var found *string
			if err := pool.QueryRow(ctx, "SELECT to_regclass($1)::text", accountCartTable).Scan(&found); err != nil {
				return fmt.Errorf("check account cart schema: %w", err)
			}
			if found == nil {
				return fmt.Errorf("table %s is missing, apply migrations first", accountCartTable)
			}
			logger.Info("account cart database ready", "host", cfg.DB.Host, "db", cfg.DB.DBName)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
