package cart

import (
	"errors"

	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductID  = errors.New("product id is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("unit price cannot be negative")
)

// Key identifies a line. An empty VariantKey means the product has no variant axis.
type Key struct {
	ProductID  string
	VariantKey string
}

func NewKey(productID, variantKey string) Key {
	return Key{ProductID: productID, VariantKey: variantKey}
}

// Line is one purchasable unit of the cart. The JSON shape is the persisted
// local-storage schema.
type Line struct {
	ProductID    string          `json:"productId"`
	VariantKey   string          `json:"variantKey"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	UnitDiscount decimal.Decimal `json:"unitDiscount"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, VariantKey: l.VariantKey}
}

func (l Line) Validate() error {
	if l.ProductID == "" {
		return ErrEmptyProductID
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (l Line) Subtotal() decimal.Decimal {
	return money.Times(l.UnitPrice, l.Quantity)
}

func (l Line) DiscountTotal() decimal.Decimal {
	return money.Times(l.UnitDiscount, l.Quantity)
}

// Change reports the absolute quantity of a key after a mutation; 0 means the
// line is gone.
type Change struct {
	Key      Key
	Quantity int
}

// Merge appends incoming onto base, summing quantities of lines that share a
// key. Base lines keep their price snapshot; order is base order followed by
// new keys in incoming order. Neither input is modified.
func Merge(base, incoming []Line) []Line {
	out := make([]Line, len(base), len(base)+len(incoming))
	copy(out, base)
	pos := make(map[Key]int, len(out))
	for i, l := range out {
		pos[l.Key()] = i
	}
	for _, l := range incoming {
		if i, ok := pos[l.Key()]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.Key()] = len(out)
		out = append(out, l)
	}
	return out
}

// Normalize drops lines that fail validation and sums duplicates, so the
// result always satisfies the uniqueness invariant.
func Normalize(lines []Line) []Line {
	valid := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Validate() != nil {
			continue
		}
		if l.UnitDiscount.IsNegative() {
			l.UnitDiscount = decimal.Zero
		}
		valid = append(valid, l)
	}
	return Merge(nil, valid)
}
