//go:build unit || e2e

package builder

import (
	"cart-engine/internal/domain/promotion"

	"github.com/shopspring/decimal"
)

// PromotionBuilder defaults to a 10% product promotion running through 2026.
type PromotionBuilder struct {
	raw promotion.Raw
}

func NewPromotionBuilder() *PromotionBuilder {
	return &PromotionBuilder{raw: promotion.Raw{
		ID:        "promo-1",
		Scope:     "product",
		Target:    "P-100",
		Method:    "percent",
		Magnitude: decimal.NewFromInt(10),
		StartDate: "2026-01-01",
		EndDate:   "2026-12-31",
	}}
}

func (b *PromotionBuilder) With(mutate func(*promotion.Raw)) *PromotionBuilder {
	mutate(&b.raw)
	return b
}

func (b *PromotionBuilder) ByValue(amount int64) *PromotionBuilder {
	b.raw.Method = "value"
	b.raw.Magnitude = decimal.NewFromInt(amount)
	return b
}

func (b *PromotionBuilder) ForBrand(brandID string) *PromotionBuilder {
	b.raw.Scope = "brand"
	b.raw.Target = brandID
	return b
}

func (b *PromotionBuilder) Build() promotion.Raw {
	return b.raw
}
