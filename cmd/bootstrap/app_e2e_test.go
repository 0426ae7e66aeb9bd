//go:build e2e

package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	stdhttptest "net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cart-engine/cmd/bootstrap"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/pkg/cookie"
	"cart-engine/internal/pkg/jwt"
	"cart-engine/internal/testutil/containers"
	"cart-engine/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

type cartBody struct {
	Lines []struct {
		ProductID      string `json:"productId"`
		Quantity       int    `json:"quantity"`
		UnitPrice      string `json:"unitPrice"`
		FinalUnitPrice string `json:"finalUnitPrice"`
	} `json:"lines"`
	TotalQuantity int    `json:"totalQuantity"`
	Subtotal      string `json:"subtotal"`
	DiscountTotal string `json:"discountTotal"`
	SyncState     string `json:"syncState"`
	SyncPending   bool   `json:"syncPending"`
	Fetched       bool   `json:"fetched"`
}

func decodeCart(t *testing.T, body []byte) cartBody {
	t.Helper()
	var out cartBody
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// catalogServer serves two products; P-100 carries a 10% promotion with a
// window wide enough to be open whenever the test runs.
func catalogServer(t *testing.T) *stdhttptest.Server {
	t.Helper()
	products := map[string]map[string]any{
		"P-100": {
			"id": "P-100", "brandId": "B-1", "name": "Shirt", "price": "1000",
			"promotions": []map[string]any{{
				"id": "promo-1", "scope": "product", "target": "P-100", "method": "percent",
				"magnitude": "10", "startDate": "2000-01-01", "endDate": "2999-12-31",
			}},
		},
		"P-200": {"id": "P-200", "brandId": "B-2", "name": "Socks", "price": "500"},
	}

	srv := stdhttptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		found := []map[string]any{}
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if p, ok := products[id]; ok {
				found = append(found, p)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"products": found}))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type accountItem struct {
	ProductID  string `json:"productId"`
	VariantKey string `json:"variantKey"`
	Quantity   int    `json:"quantity"`
}

// accountCart is an in-memory account cart behind the remote cart protocol.
type accountCart struct {
	mu    sync.Mutex
	token string
	order []string
	items map[string]int
}

func (a *accountCart) snapshot() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.items))
	for k, v := range a.items {
		out[k] = v
	}
	return out
}

func (a *accountCart) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+a.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/cart":
		items := []accountItem{}
		for _, id := range a.order {
			if q, ok := a.items[id]; ok {
				items = append(items, accountItem{ProductID: id, Quantity: q})
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	case r.Method == http.MethodPut && r.URL.Path == "/cart/items":
		var body struct {
			Items []accountItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, it := range body.Items {
			if it.Quantity <= 0 {
				delete(a.items, it.ProductID)
				continue
			}
			if _, ok := a.items[it.ProductID]; !ok {
				a.order = append(a.order, it.ProductID)
			}
			a.items[it.ProductID] = it.Quantity
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func startApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var router *gin.Engine
	app := fx.New(
		bootstrap.Module(cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		assert.NoError(t, app.Stop(stopCtx))
	})
	return router
}

type AppTestSuite struct {
	suite.Suite
	account *accountCart
	token   string
	router  *gin.Engine
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	cfg := config.NewTestConfig()

	token, err := jwt.NewService(cfg.JWT.Secret).GenerateToken(uuid.New(), time.Hour)
	s.Require().NoError(err)
	s.token = token

	s.account = &accountCart{
		token: token,
		order: []string{"P-200", "P-100"},
		items: map[string]int{"P-200": 1, "P-100": 1},
	}
	remote := stdhttptest.NewServer(s.account)
	s.T().Cleanup(remote.Close)

	cfg.Catalog.BaseURL = catalogServer(s.T()).URL
	cfg.RemoteCart.BaseURL = remote.URL
	s.router = startApp(s.T(), cfg)
}

func (s *AppTestSuite) TestHealth() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *AppTestSuite) TestAnonymousCartThenLoginMerge() {
	t := s.T()

	w := httptest.PerformRequest(t, s.router, http.MethodGet, "/api/cart", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	session := httptest.ExtractCookie(w, cookie.SessionCookieName)
	s.Require().NotNil(session, "first visit issues a session cookie")
	s.Empty(decodeCart(t, w.Body.Bytes()).Lines)

	w = httptest.PerformRequest(t, s.router, http.MethodPost, "/api/cart/items",
		map[string]any{"productId": "P-100", "quantity": 2}, session)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	view := decodeCart(t, w.Body.Bytes())
	s.Equal(2, view.TotalQuantity)
	s.Equal("2000", view.Subtotal)
	s.Equal("200", view.DiscountTotal)
	s.Equal("anonymous", view.SyncState)

	w = httptest.PerformRequest(t, s.router, http.MethodPost, "/api/session/login", nil, session)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("authenticating", decodeCart(t, w.Body.Bytes()).SyncState)

	w = httptest.PerformRequestWithHeaders(t, s.router, http.MethodPost, "/api/session/login/complete", nil,
		map[string]string{"Authorization": "Bearer " + s.token}, session)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	view = decodeCart(t, w.Body.Bytes())
	s.Equal("authenticated", view.SyncState)
	s.True(view.Fetched)
	s.False(view.SyncPending)
	s.Require().Len(view.Lines, 2)
	s.Equal("P-200", view.Lines[0].ProductID, "account lines come first")
	s.Equal("P-100", view.Lines[1].ProductID)
	s.Equal(3, view.Lines[1].Quantity)
	s.Equal("1000", view.Lines[1].UnitPrice, "remote lines are priced from the catalog")
	s.Equal("3500", view.Subtotal)
	s.Equal(map[string]int{"P-100": 3, "P-200": 1}, s.account.snapshot())

	w = httptest.PerformRequest(t, s.router, http.MethodPut, "/api/cart/items/P-200",
		map[string]any{"quantity": 4}, session)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = httptest.PerformRequest(t, s.router, http.MethodDelete, "/api/cart/items/P-100", nil, session)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(map[string]int{"P-200": 4}, s.account.snapshot())

	w = httptest.PerformRequest(t, s.router, http.MethodPost, "/api/session/logout", nil, session)
	s.Require().Equal(http.StatusOK, w.Code)
	view = decodeCart(t, w.Body.Bytes())
	s.Equal("anonymous", view.SyncState)
	s.Equal(4, view.TotalQuantity, "logout keeps the local cart")
}

func (s *AppTestSuite) TestInvalidTokenFallsBackToAnonymous() {
	t := s.T()
	session := httptest.SessionCookie(uuid.NewString())

	w := httptest.PerformRequest(t, s.router, http.MethodPost, "/api/session/login", nil, session)
	s.Require().Equal(http.StatusOK, w.Code)

	w = httptest.PerformRequest(t, s.router, http.MethodPost, "/api/session/login/complete",
		map[string]any{"token": "not-a-jwt"}, session)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = httptest.PerformRequest(t, s.router, http.MethodGet, "/api/cart", nil, session)
	s.Equal("anonymous", decodeCart(t, w.Body.Bytes()).SyncState)
	s.Equal(map[string]int{"P-100": 1, "P-200": 1}, s.account.snapshot(), "account cart untouched")
}

func (s *AppTestSuite) TestCheckoutAppliesReward() {
	t := s.T()
	session := httptest.SessionCookie(uuid.NewString())

	httptest.PerformRequest(t, s.router, http.MethodPost, "/api/cart/items",
		map[string]any{"productId": "P-200", "quantity": 2}, session)
	w := httptest.PerformRequest(t, s.router, http.MethodPost, "/api/cart/reward",
		map[string]any{"value": "150"}, session)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = httptest.PerformRequest(t, s.router, http.MethodGet, "/api/cart/checkout", nil, session)
	s.Require().Equal(http.StatusOK, w.Code)
	var checkout struct {
		RewardValue string `json:"rewardValue"`
		Total       string `json:"total"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &checkout))
	s.Equal("150", checkout.RewardValue)
	s.Equal("850", checkout.Total)
}

// Carts written through the redis driver survive a restart of the app.
func TestApp_RedisStorageSurvivesRestart(t *testing.T) {
	redisInfo := containers.Redis(t)

	cfg := config.NewTestConfig()
	cfg.Catalog.BaseURL = catalogServer(t).URL
	cfg.Storage.Driver = bootstrap.StorageRedis
	cfg.Storage.RedisAddr = redisInfo.Addr()
	cfg.Storage.KeyPrefix = "cart:v1:" + uuid.NewString()

	session := httptest.SessionCookie(uuid.NewString())

	first := startApp(t, cfg)
	w := httptest.PerformRequest(t, first, http.MethodPost, "/api/cart/items",
		map[string]any{"productId": "P-200", "quantity": 3}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	second := startApp(t, cfg)
	w = httptest.PerformRequest(t, second, http.MethodGet, "/api/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeCart(t, w.Body.Bytes()).TotalQuantity)
}
