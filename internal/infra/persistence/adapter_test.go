//go:build unit

package persistence_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/reward"
	"cart-engine/internal/infra"
	"cart-engine/internal/infra/kv"
	"cart-engine/internal/infra/persistence"
	"cart-engine/internal/pkg/clock"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prefix  = "cart:v1"
	session = "sess-1"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newAdapter(t *testing.T) (*persistence.Adapter, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore(0, clock.NewMockClock(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
	return persistence.NewAdapter(store, prefix, discard), store
}

func seed(t *testing.T, store kv.Store, suffix, value string) {
	t.Helper()
	require.NoError(t, store.Apply(context.Background(), kv.Set(prefix+":"+session+":"+suffix, value)))
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newAdapter(t)

	want := cart.Snapshot{
		Lines: []cart.Line{
			{ProductID: "A", VariantKey: "", Quantity: 2, UnitPrice: dec(1000), UnitDiscount: dec(150)},
			{ProductID: "B", VariantKey: "XL", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99"), UnitDiscount: decimal.Zero},
		},
		Reward: reward.State{Applied: true, Value: dec(300)},
	}

	require.NoError(t, adapter.Save(ctx, session, want))

	got, ok := adapter.Load(ctx, session)
	require.True(t, ok)
	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	restored := cart.Restore(got)
	original := cart.Restore(want)
	assert.True(t, original.Subtotal().Equal(restored.Subtotal()))
	assert.True(t, original.DiscountTotal().Equal(restored.DiscountTotal()))
	assert.True(t, original.CheckoutTotal().Equal(restored.CheckoutTotal()))
}

func TestAdapter_LoadTreatsBadDataAsEmpty(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name  string
		lines string
	}{
		{name: "not json", lines: "{{{"},
		{name: "object instead of array", lines: `{"productId":"A","quantity":1}`},
		{name: "wrong field type", lines: `[{"productId":"A","quantity":"two","unitPrice":"10"}]`},
		{name: "only invalid entries", lines: `[{"productId":"","quantity":1,"unitPrice":"1"},{"productId":"A","quantity":0,"unitPrice":"1"}]`},
		{name: "empty array", lines: `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			adapter, store := newAdapter(t)
			seed(t, store, "lines", tc.lines)

			snapshot, ok := adapter.Load(ctx, session)
			assert.False(t, ok)
			assert.Empty(t, snapshot.Lines)
		})
	}
}

func TestAdapter_LoadRepairsLines(t *testing.T) {
	adapter, store := newAdapter(t)
	seed(t, store, "lines", `[
		{"productId":"A","variantKey":"","quantity":1,"unitPrice":"100","unitDiscount":"10"},
		{"productId":"","variantKey":"","quantity":3,"unitPrice":"5"},
		{"productId":"A","variantKey":"","quantity":2,"unitPrice":"100","unitDiscount":"10"},
		{"productId":"B","variantKey":"S","quantity":-1,"unitPrice":"5"},
		{"productId":"C","quantity":1,"unitPrice":7,"unitDiscount":"-3"}
	]`)

	snapshot, ok := adapter.Load(context.Background(), session)
	require.True(t, ok)
	require.Len(t, snapshot.Lines, 2)

	assert.Equal(t, "A", snapshot.Lines[0].ProductID)
	assert.Equal(t, 3, snapshot.Lines[0].Quantity, "duplicates are summed")
	assert.Equal(t, "C", snapshot.Lines[1].ProductID)
	assert.True(t, snapshot.Lines[1].UnitPrice.Equal(dec(7)), "numeric prices are accepted")
	assert.True(t, snapshot.Lines[1].UnitDiscount.IsZero())
}

func TestAdapter_Reward(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable reward is dropped but lines survive", func(t *testing.T) {
		adapter, store := newAdapter(t)
		seed(t, store, "lines", `[{"productId":"A","quantity":1,"unitPrice":"10"}]`)
		seed(t, store, "reward", `nonsense`)

		snapshot, ok := adapter.Load(ctx, session)
		require.True(t, ok)
		assert.Len(t, snapshot.Lines, 1)
		assert.False(t, snapshot.Reward.Applied)
	})

	t.Run("negative reward is dropped", func(t *testing.T) {
		adapter, store := newAdapter(t)
		seed(t, store, "reward", `{"applied":true,"value":"-1"}`)

		_, ok := adapter.Load(ctx, session)
		assert.False(t, ok)
	})

	t.Run("reward alone is loaded", func(t *testing.T) {
		adapter, store := newAdapter(t)
		seed(t, store, "reward", `{"applied":true,"value":"25"}`)

		snapshot, ok := adapter.Load(ctx, session)
		require.True(t, ok)
		assert.True(t, snapshot.Reward.Value.Equal(dec(25)))
	})
}

func TestAdapter_OtherSchemaVersionIsInvisible(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore(0, clock.NewRealClock(nil))
	v0 := persistence.NewAdapter(store, "cart:v0", discard)
	v1 := persistence.NewAdapter(store, "cart:v1", discard)

	require.NoError(t, v0.Save(ctx, session, cart.Snapshot{Lines: []cart.Line{{ProductID: "A", Quantity: 1, UnitPrice: dec(1)}}}))

	_, ok := v1.Load(ctx, session)
	assert.False(t, ok)
}

func TestAdapter_ClearAndFetchedMarker(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newAdapter(t)

	require.NoError(t, adapter.Save(ctx, session, cart.Snapshot{Lines: []cart.Line{{ProductID: "A", Quantity: 1, UnitPrice: dec(1)}}}))
	assert.False(t, adapter.Fetched(ctx, session))
	require.NoError(t, adapter.MarkFetched(ctx, session))
	assert.True(t, adapter.Fetched(ctx, session))

	require.NoError(t, adapter.Clear(ctx, session))

	_, ok := adapter.Load(ctx, session)
	assert.False(t, ok)
	assert.False(t, adapter.Fetched(ctx, session), "clear erases the marker too")
}

func TestAdapter_SessionsDoNotLeak(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newAdapter(t)

	require.NoError(t, adapter.Save(ctx, "one", cart.Snapshot{Lines: []cart.Line{{ProductID: "A", Quantity: 1, UnitPrice: dec(1)}}}))

	_, ok := adapter.Load(ctx, "two")
	assert.False(t, ok)
}

type brokenStore struct{ err error }

func (b brokenStore) MGet(context.Context, ...string) (map[string]string, error) { return nil, b.err }
func (b brokenStore) Apply(context.Context, ...kv.Op) error                      { return b.err }
func (b brokenStore) Ping(context.Context) error                                 { return b.err }
func (b brokenStore) Close() error                                               { return nil }

func TestAdapter_BackendFailure(t *testing.T) {
	ctx := context.Background()
	adapter := persistence.NewAdapter(brokenStore{err: errors.New("READONLY")}, prefix, discard)

	_, ok := adapter.Load(ctx, session)
	assert.False(t, ok, "read failures degrade to an empty cart")
	assert.False(t, adapter.Fetched(ctx, session))

	err := adapter.Save(ctx, session, cart.Snapshot{})
	assert.True(t, infra.IsKind(err, infra.KindStorageFailure))
	assert.True(t, infra.IsKind(adapter.Clear(ctx, session), infra.KindStorageFailure))
	assert.True(t, infra.IsKind(adapter.MarkFetched(ctx, session), infra.KindStorageFailure))
}
