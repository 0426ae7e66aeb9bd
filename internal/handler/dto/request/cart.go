package request

import (
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID  string `json:"productId" binding:"required"`
	VariantKey string `json:"variantKey"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest leaves range checks to the cart so that 0 and negative
// values get the same error as any other invalid quantity.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type IncrementRequest struct {
	AvailableQuantity int `json:"availableQuantity" binding:"min=0"`
}

type ApplyRewardRequest struct {
	Value decimal.Decimal `json:"value"`
}
