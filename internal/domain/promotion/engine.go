package promotion

import (
	"time"

	"cart-engine/internal/pkg/clock"
	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// Quote is the priced outcome for one unit.
type Quote struct {
	FinalPrice      decimal.Decimal
	Discount        decimal.Decimal
	DiscountPercent int
	IsByValue       bool
	PromotionID     string
}

func noDiscount(base decimal.Decimal) Quote {
	return Quote{FinalPrice: base, Discount: decimal.Zero}
}

// PriceAt selects the single promotion with the largest discount on base among
// those eligible on day. Promotions never stack. Ties prefer ByValue, then the
// earliest start date, then the smallest id.
func PriceAt(day time.Time, base decimal.Decimal, promotions []Promotion) Quote {
	if base.IsNegative() {
		return noDiscount(base)
	}

	var (
		best      Promotion
		bestFound bool
		bestOff   decimal.Decimal
	)
	for _, p := range promotions {
		if !p.EligibleOn(day) {
			continue
		}
		off := p.DiscountOn(base)
		if !bestFound || beats(p, off, best, bestOff) {
			best, bestOff, bestFound = p, off, true
		}
	}
	if !bestFound {
		return noDiscount(base)
	}

	return Quote{
		FinalPrice:      money.Floor0(base.Sub(bestOff)),
		Discount:        bestOff,
		DiscountPercent: money.WholePercent(bestOff, base),
		IsByValue:       best.method == ByValue,
		PromotionID:     best.id,
	}
}

func beats(p Promotion, off decimal.Decimal, best Promotion, bestOff decimal.Decimal) bool {
	if c := off.Cmp(bestOff); c != 0 {
		return c > 0
	}
	if p.method != best.method {
		return p.method == ByValue
	}
	if !p.start.Equal(best.start) {
		return p.start.Before(best.start)
	}
	return p.id < best.id
}

// Applicable keeps the promotions whose scope matches subject.
func Applicable(subject Subject, promotions []Promotion) []Promotion {
	out := make([]Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.AppliesTo(subject) {
			out = append(out, p)
		}
	}
	return out
}

// Engine prices against the calendar day reported by its clock.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

func (e *Engine) Price(base decimal.Decimal, promotions []Promotion) Quote {
	return PriceAt(e.clock.Now(), base, promotions)
}

// PriceFor filters promotions by scope before pricing.
func (e *Engine) PriceFor(subject Subject, base decimal.Decimal, promotions []Promotion) Quote {
	return e.Price(base, Applicable(subject, promotions))
}
