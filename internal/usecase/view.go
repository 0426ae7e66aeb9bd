package usecase

import (
	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/reward"
	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

type LineView struct {
	Line            cart.Line
	FinalUnitPrice  decimal.Decimal
	LineTotal       decimal.Decimal
	DiscountPercent int
	IsByValue       bool
	PromotionID     string
}

type CartView struct {
	Lines         []LineView
	TotalQuantity int
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Payable       decimal.Decimal
	CheckoutTotal decimal.Decimal
	Reward        reward.State
	Fetched       bool
	SyncState     SyncState
	SyncPending   bool
}

// Checkout is the read-only hand-off to the order flow.
type Checkout struct {
	Lines         []cart.Line
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	RewardValue   decimal.Decimal
	Total         decimal.Decimal
}

func (s *CartStore) view() CartView {
	lines := s.cart.Lines()
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, s.lineView(line))
	}

	return CartView{
		Lines:         views,
		TotalQuantity: s.cart.TotalQuantity(),
		Subtotal:      s.cart.Subtotal(),
		DiscountTotal: s.cart.DiscountTotal(),
		Payable:       s.cart.Payable(),
		CheckoutTotal: s.cart.CheckoutTotal(),
		Reward:        s.cart.Reward(),
	}
}

// lineView prefers the last quote for the line. Without one, for instance
// right after hydration, the figures are derived from the stored discount.
func (s *CartStore) lineView(line cart.Line) LineView {
	final := money.Floor0(line.UnitPrice.Sub(line.UnitDiscount))
	v := LineView{
		Line:            line,
		FinalUnitPrice:  final,
		LineTotal:       money.Times(final, line.Quantity),
		DiscountPercent: money.WholePercent(line.UnitDiscount, line.UnitPrice),
	}

	if q, ok := s.quotes[line.Key()]; ok && q.Discount.Equal(line.UnitDiscount) {
		v.DiscountPercent = q.DiscountPercent
		v.IsByValue = q.IsByValue
		v.PromotionID = q.PromotionID
	}
	return v
}

func (s *CartStore) checkout() Checkout {
	snapshot := s.cart.Snapshot()
	rewardValue := decimal.Zero
	if snapshot.Reward.Applied {
		rewardValue = snapshot.Reward.Value
	}
	return Checkout{
		Lines:         snapshot.Lines,
		Subtotal:      s.cart.Subtotal(),
		DiscountTotal: s.cart.DiscountTotal(),
		RewardValue:   rewardValue,
		Total:         s.cart.CheckoutTotal(),
	}
}
