//go:build unit

package promotion_test

import (
	"testing"
	"time"

	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func raw(id, method string, magnitude int64) promotion.Raw {
	return promotion.Raw{
		ID:        id,
		Scope:     "product",
		Target:    "P1",
		Method:    method,
		Magnitude: decimal.NewFromInt(magnitude),
		StartDate: "2026-10-01",
		EndDate:   "2026-10-31",
	}
}

func decode(raws ...promotion.Raw) []promotion.Promotion {
	return promotion.DecodeAll(raws)
}

func intPtr(v int) *int { return &v }

func TestPriceAt(t *testing.T) {
	base := decimal.NewFromInt(1000)

	t.Run("no promotions returns base", func(t *testing.T) {
		q := promotion.PriceAt(today, base, nil)
		assert.True(t, q.FinalPrice.Equal(base))
		assert.Equal(t, 0, q.DiscountPercent)
		assert.False(t, q.IsByValue)
		assert.Empty(t, q.PromotionID)
	})

	t.Run("largest absolute discount wins", func(t *testing.T) {
		q := promotion.PriceAt(today, base, decode(raw("pct", "percent", 10), raw("val", "value", 150)))

		assert.True(t, q.FinalPrice.Equal(decimal.NewFromInt(850)), q.FinalPrice.String())
		assert.True(t, q.IsByValue)
		assert.Equal(t, 15, q.DiscountPercent)
		assert.Equal(t, "val", q.PromotionID)
	})

	t.Run("percent wins when larger", func(t *testing.T) {
		q := promotion.PriceAt(today, base, decode(raw("pct", "percent", 25), raw("val", "value", 150)))

		assert.True(t, q.FinalPrice.Equal(decimal.NewFromInt(750)))
		assert.False(t, q.IsByValue)
		assert.Equal(t, 25, q.DiscountPercent)
	})

	t.Run("expired promotion is never selected", func(t *testing.T) {
		expired := raw("old", "value", 900)
		expired.StartDate, expired.EndDate = "2026-09-01", "2026-10-14"

		q := promotion.PriceAt(today, base, decode(expired, raw("pct", "percent", 10)))

		assert.Equal(t, "pct", q.PromotionID)
		assert.True(t, q.FinalPrice.Equal(decimal.NewFromInt(900)))
	})

	t.Run("future promotion is not eligible", func(t *testing.T) {
		future := raw("future", "value", 900)
		future.StartDate, future.EndDate = "2026-10-16", "2026-12-31"

		q := promotion.PriceAt(today, base, decode(future))
		assert.True(t, q.FinalPrice.Equal(base))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		edge := raw("edge", "value", 100)
		edge.StartDate, edge.EndDate = "2026-10-15", "2026-10-15"

		q := promotion.PriceAt(today, base, decode(edge))
		assert.Equal(t, "edge", q.PromotionID)
	})

	t.Run("malformed dates are ineligible", func(t *testing.T) {
		broken := raw("broken", "value", 500)
		broken.EndDate = "31/10/2026"

		q := promotion.PriceAt(today, base, decode(broken, raw("pct", "percent", 10)))
		assert.Equal(t, "pct", q.PromotionID)
	})

	t.Run("usage limit exhausted", func(t *testing.T) {
		used := raw("used", "value", 500)
		used.UsageLimit, used.UsageUsed = intPtr(3), 3
		remaining := raw("remaining", "value", 200)
		remaining.UsageLimit, remaining.UsageUsed = intPtr(3), 2

		q := promotion.PriceAt(today, base, decode(used, remaining))
		assert.Equal(t, "remaining", q.PromotionID)
	})

	t.Run("value larger than base clamps to zero", func(t *testing.T) {
		q := promotion.PriceAt(today, decimal.NewFromInt(80), decode(raw("big", "value", 200)))

		assert.True(t, q.FinalPrice.IsZero())
		assert.True(t, q.Discount.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, 100, q.DiscountPercent)
	})

	t.Run("zero base", func(t *testing.T) {
		q := promotion.PriceAt(today, decimal.Zero, decode(raw("pct", "percent", 50)))
		assert.True(t, q.FinalPrice.IsZero())
		assert.Equal(t, 0, q.DiscountPercent)
	})

	t.Run("discount percent is rounded", func(t *testing.T) {
		q := promotion.PriceAt(today, decimal.NewFromInt(999), decode(raw("val", "value", 125)))
		// 125 / 999 = 12.51%
		assert.Equal(t, 13, q.DiscountPercent)
	})
}

func TestTieBreaks(t *testing.T) {
	base := decimal.NewFromInt(1000)

	t.Run("value beats percent on equal discount", func(t *testing.T) {
		q := promotion.PriceAt(today, base, decode(raw("pct", "percent", 10), raw("val", "value", 100)))
		assert.Equal(t, "val", q.PromotionID)
		assert.True(t, q.IsByValue)
	})

	t.Run("earliest start date next", func(t *testing.T) {
		later := raw("later", "value", 100)
		later.StartDate = "2026-10-10"
		earlier := raw("earlier", "value", 100)
		earlier.StartDate = "2026-10-02"

		q := promotion.PriceAt(today, base, decode(later, earlier))
		assert.Equal(t, "earlier", q.PromotionID)
	})

	t.Run("id decides full ties regardless of order", func(t *testing.T) {
		a, b := raw("a", "value", 100), raw("b", "value", 100)

		q1 := promotion.PriceAt(today, base, decode(a, b))
		q2 := promotion.PriceAt(today, base, decode(b, a))
		assert.Equal(t, "a", q1.PromotionID)
		assert.Equal(t, q1, q2)
	})
}

func TestEngineIsDeterministic(t *testing.T) {
	engine := promotion.NewEngine(clock.NewMockClock(today))
	promos := decode(raw("pct", "percent", 10), raw("val", "value", 150))
	base := decimal.NewFromInt(1000)

	first := engine.Price(base, promos)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Price(base, promos))
	}
	assert.True(t, base.Equal(decimal.NewFromInt(1000)))
}

func TestPriceForFiltersScope(t *testing.T) {
	engine := promotion.NewEngine(clock.NewMockClock(today))

	brand := raw("brand", "percent", 20)
	brand.Scope, brand.Target = "brand", "ACME"
	other := raw("other", "value", 500)
	other.Target = "P2"

	promos := decode(brand, other, raw("own", "value", 50))

	q := engine.PriceFor(promotion.Subject{ProductID: "P1", BrandID: "ACME"}, decimal.NewFromInt(1000), promos)
	assert.Equal(t, "brand", q.PromotionID)

	q = engine.PriceFor(promotion.Subject{ProductID: "P1"}, decimal.NewFromInt(1000), promos)
	assert.Equal(t, "own", q.PromotionID)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*promotion.Raw)
		errIs  error
	}{
		{name: "valid", mutate: func(*promotion.Raw) {}},
		{name: "rfc3339 dates", mutate: func(r *promotion.Raw) { r.StartDate = "2026-10-01T00:00:00Z" }},
		{name: "brand alias", mutate: func(r *promotion.Raw) { r.Scope = "BRAND" }},
		{name: "unknown scope", mutate: func(r *promotion.Raw) { r.Scope = "category" }, errIs: promotion.ErrUnknownScope},
		{name: "unknown method", mutate: func(r *promotion.Raw) { r.Method = "bogo" }, errIs: promotion.ErrUnknownMethod},
		{name: "empty target", mutate: func(r *promotion.Raw) { r.Target = "" }, errIs: promotion.ErrEmptyTarget},
		{name: "bad start date", mutate: func(r *promotion.Raw) { r.StartDate = "soon" }, errIs: promotion.ErrInvalidDate},
		{name: "missing end date", mutate: func(r *promotion.Raw) { r.EndDate = "" }, errIs: promotion.ErrInvalidDate},
		{name: "inverted window", mutate: func(r *promotion.Raw) { r.StartDate, r.EndDate = "2026-11-01", "2026-10-01" }, errIs: promotion.ErrInvalidWindow},
		{name: "percent over 100", mutate: func(r *promotion.Raw) { r.Method, r.Magnitude = "percent", decimal.NewFromInt(101) }, errIs: promotion.ErrInvalidMagnitude},
		{name: "negative value", mutate: func(r *promotion.Raw) { r.Magnitude = decimal.NewFromInt(-1) }, errIs: promotion.ErrInvalidMagnitude},
		{name: "negative usage", mutate: func(r *promotion.Raw) { r.UsageUsed = -1 }, errIs: promotion.ErrInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := raw("id", "value", 10)
			tt.mutate(&r)
			p := promotion.Decode(r)

			if tt.errIs == nil {
				require.NoError(t, p.Err())
				assert.True(t, p.EligibleOn(today))
				return
			}
			require.ErrorIs(t, p.Err(), tt.errIs)
			assert.False(t, p.EligibleOn(today))
			assert.False(t, p.AppliesTo(promotion.Subject{ProductID: r.Target}))
		})
	}
}

func TestNew(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	p, err := promotion.New("x", promotion.ScopeBrand, "ACME", promotion.ByPercent, decimal.NewFromInt(10), start, end, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "brand", p.Scope().String())
	assert.Equal(t, "percent", p.Method().String())

	_, err = promotion.New("x", promotion.Scope(9), "ACME", promotion.ByPercent, decimal.NewFromInt(10), start, end, nil, 0)
	assert.ErrorIs(t, err, promotion.ErrUnknownScope)
}
