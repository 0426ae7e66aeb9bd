package response

import (
	"cart-engine/internal/domain/cart"
	"cart-engine/internal/usecase"

	"github.com/shopspring/decimal"
)

type LineResponse struct {
	ProductID       string          `json:"productId"`
	VariantKey      string          `json:"variantKey"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	UnitDiscount    decimal.Decimal `json:"unitDiscount"`
	FinalUnitPrice  decimal.Decimal `json:"finalUnitPrice"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
	DiscountPercent int             `json:"discountPercent"`
	IsByValue       bool            `json:"isByValue"`
	PromotionID     string          `json:"promotionId,omitempty"`
}

type RewardResponse struct {
	Applied bool            `json:"applied"`
	Value   decimal.Decimal `json:"value"`
}

type CartResponse struct {
	Lines         []LineResponse  `json:"lines"`
	TotalQuantity int             `json:"totalQuantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	Payable       decimal.Decimal `json:"payable"`
	CheckoutTotal decimal.Decimal `json:"checkoutTotal"`
	Reward        RewardResponse  `json:"reward"`
	Fetched       bool            `json:"fetched"`
	SyncState     string          `json:"syncState"`
	SyncPending   bool            `json:"syncPending"`
}

type IncrementResponse struct {
	CartResponse
	Changed bool `json:"changed"`
}

type CheckoutLineResponse struct {
	ProductID    string          `json:"productId"`
	VariantKey   string          `json:"variantKey"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	UnitDiscount decimal.Decimal `json:"unitDiscount"`
}

type CheckoutResponse struct {
	Lines         []CheckoutLineResponse `json:"lines"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	DiscountTotal decimal.Decimal        `json:"discountTotal"`
	RewardValue   decimal.Decimal        `json:"rewardValue"`
	Total         decimal.Decimal        `json:"total"`
}

func FromCartView(v usecase.CartView) CartResponse {
	lines := make([]LineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, LineResponse{
			ProductID:       l.Line.ProductID,
			VariantKey:      l.Line.VariantKey,
			Quantity:        l.Line.Quantity,
			UnitPrice:       l.Line.UnitPrice,
			UnitDiscount:    l.Line.UnitDiscount,
			FinalUnitPrice:  l.FinalUnitPrice,
			LineTotal:       l.LineTotal,
			DiscountPercent: l.DiscountPercent,
			IsByValue:       l.IsByValue,
			PromotionID:     l.PromotionID,
		})
	}

	return CartResponse{
		Lines:         lines,
		TotalQuantity: v.TotalQuantity,
		Subtotal:      v.Subtotal,
		DiscountTotal: v.DiscountTotal,
		Payable:       v.Payable,
		CheckoutTotal: v.CheckoutTotal,
		Reward: RewardResponse{
			Applied: v.Reward.Applied,
			Value:   v.Reward.Value,
		},
		Fetched:     v.Fetched,
		SyncState:   v.SyncState.String(),
		SyncPending: v.SyncPending,
	}
}

func FromCheckout(co usecase.Checkout) CheckoutResponse {
	return CheckoutResponse{
		Lines:         fromLines(co.Lines),
		Subtotal:      co.Subtotal,
		DiscountTotal: co.DiscountTotal,
		RewardValue:   co.RewardValue,
		Total:         co.Total,
	}
}

func fromLines(lines []cart.Line) []CheckoutLineResponse {
	out := make([]CheckoutLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, CheckoutLineResponse{
			ProductID:    l.ProductID,
			VariantKey:   l.VariantKey,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			UnitDiscount: l.UnitDiscount,
		})
	}
	return out
}
