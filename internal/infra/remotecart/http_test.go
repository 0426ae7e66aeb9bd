//go:build unit

package remotecart_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cart-engine/internal/infra"
	"cart-engine/internal/infra/remotecart"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var principal = usecase.Principal{UserID: uuid.MustParse("7b4f0b8e-3c1d-4c55-9a57-0f1b2f6f4a10"), Token: "tok-123"}

func newHTTPClient(t *testing.T, handler http.HandlerFunc) *remotecart.HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return remotecart.NewHTTPClient(config.RemoteCartConfig{BaseURL: server.URL, Timeout: time.Second}, discard)
}

func TestHTTPClient_Fetch(t *testing.T) {
	client := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"items":[
			{"productId":"A","variantKey":"","quantity":1,"unitPrice":"500"},
			{"productId":"B","variantKey":"M","quantity":3}
		]}`)
	})

	lines, err := client.Fetch(context.Background(), principal)
	require.NoError(t, err)

	price := decimal.NewFromInt(500)
	want := []usecase.RemoteLine{
		{ProductID: "A", Quantity: 1, UnitPrice: &price},
		{ProductID: "B", VariantKey: "M", Quantity: 3},
	}
	if diff := cmp.Diff(want, lines, decimalComparer); diff != "" {
		t.Errorf("fetched lines mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_Upsert(t *testing.T) {
	var got struct {
		Items []map[string]any `json:"items"`
	}
	calls := 0
	client := newHTTPClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Upsert(context.Background(), principal, []usecase.RemoteItem{
		{ProductID: "A", Quantity: 3},
		{ProductID: "B", VariantKey: "M", Quantity: 0},
	})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0]["productId"])
	assert.EqualValues(t, 3, got.Items[0]["quantity"])
	assert.EqualValues(t, 0, got.Items[1]["quantity"], "zero quantity is sent as a delete")
	assert.NotContains(t, got.Items[0], "unitPrice")

	require.NoError(t, client.Upsert(context.Background(), principal, nil))
	assert.Equal(t, 1, calls, "empty batches are not sent")
}

func TestHTTPClient_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		kind   infra.RepositoryErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, kind: infra.KindUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, kind: infra.KindUnauthorized},
		{name: "unavailable", status: http.StatusServiceUnavailable, kind: infra.KindUpstreamFailure},
		{name: "malformed", status: http.StatusOK, body: `[1,2`, kind: infra.KindMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newHTTPClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := client.Fetch(context.Background(), principal)
			assert.True(t, infra.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := remotecart.NewHTTPClient(config.RemoteCartConfig{BaseURL: server.URL, Timeout: time.Second}, discard)

	err := client.Upsert(context.Background(), principal, []usecase.RemoteItem{{ProductID: "A", Quantity: 1}})
	assert.True(t, infra.IsKind(err, infra.KindUpstreamFailure))
}
