package remotecart

import (
	"context"
	"log/slog"

	"cart-engine/internal/infra"
	"cart-engine/internal/infra/uow"
	"cart-engine/internal/usecase"
)

const (
	selectItemsSQL = `
SELECT product_id, variant_key, quantity
FROM account_cart_items
WHERE user_id = $1
ORDER BY created_at, product_id, variant_key`

	// One statement so the batch lands atomically: zero or negative
	// quantities delete, everything else is written as an absolute value.
	upsertItemsSQL = `
WITH input AS (
    SELECT product_id, variant_key, quantity
    FROM unnest($2::text[], $3::text[], $4::int4[]) AS t(product_id, variant_key, quantity)
), removed AS (
    DELETE FROM account_cart_items a
    USING input i
    WHERE a.user_id = $1
      AND a.product_id = i.product_id
      AND a.variant_key = i.variant_key
      AND i.quantity <= 0
)
INSERT INTO account_cart_items (user_id, product_id, variant_key, quantity)
SELECT $1, product_id, variant_key, quantity FROM input WHERE quantity > 0
ON CONFLICT (user_id, product_id, variant_key)
DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
)

// PostgresStore keeps account carts in the account_cart_items table. Prices
// are not stored, so fetched lines carry a nil UnitPrice.
type PostgresStore struct {
	uow    uow.UnitOfWork
	logger *slog.Logger
}

func NewPostgresStore(unit uow.UnitOfWork, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{uow: unit, logger: logger}
}

var _ usecase.RemoteCart = (*PostgresStore)(nil)

func (s *PostgresStore) Fetch(ctx context.Context, principal usecase.Principal) ([]usecase.RemoteLine, error) {
	var lines []usecase.RemoteLine
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, db uow.DBTX) error {
		rows, err := db.Query(ctx, selectItemsSQL, principal.UserID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				line     usecase.RemoteLine
				quantity int32
			)
			if err := rows.Scan(&line.ProductID, &line.VariantKey, &quantity); err != nil {
				return err
			}
			line.Quantity = int(quantity)
			lines = append(lines, line)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "fetch account cart", err)
	}
	return lines, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, principal usecase.Principal, items []usecase.RemoteItem) error {
	if len(items) == 0 {
		return nil
	}

	productIDs := make([]string, len(items))
	variantKeys := make([]string, len(items))
	quantities := make([]int32, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
		variantKeys[i] = item.VariantKey
		quantities[i] = int32(item.Quantity) // #nosec G115 -- cart quantities are small
	}

	err := s.uow.Within(ctx, func(ctx context.Context, db uow.DBTX) error {
		_, err := db.Exec(ctx, upsertItemsSQL, principal.UserID, productIDs, variantKeys, quantities)
		return err
	})
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "upsert account cart", err)
	}
	return nil
}
