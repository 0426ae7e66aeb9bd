//go:build unit || e2e

package builder

import (
	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/usecase"

	"github.com/shopspring/decimal"
)

type ProductBuilder struct {
	ID         string
	BrandID    string
	Name       string
	Price      decimal.Decimal
	Promotions []promotion.Raw
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:      "P-100",
		BrandID: "B-10",
		Name:    "Linen Shirt",
		Price:   decimal.NewFromInt(1000),
	}
}

func (p *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(p)
	return p
}

func (p *ProductBuilder) WithPromotion(raw promotion.Raw) *ProductBuilder {
	p.Promotions = append(p.Promotions, raw)
	return p
}

func (p *ProductBuilder) BuildProduct() usecase.Product {
	return usecase.Product{
		ID:         p.ID,
		BrandID:    p.BrandID,
		Name:       p.Name,
		Price:      p.Price,
		Promotions: append([]promotion.Raw(nil), p.Promotions...),
	}
}

func (p *ProductBuilder) BuildLine(variantKey string, quantity int) cart.Line {
	return cart.Line{
		ProductID:  p.ID,
		VariantKey: variantKey,
		Quantity:   quantity,
		UnitPrice:  p.Price,
	}
}
