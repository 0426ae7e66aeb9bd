//go:build unit

package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"cart-engine/internal/handler/httperr"
	"cart-engine/internal/handler/middleware"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/pkg/cookie"
	"cart-engine/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.CustomRecovery(discard))
	engine.Use(middleware.LoggingMiddleware(discard))
	engine.Use(middleware.ErrorHandler(discard))
	return engine
}

func TestSessionMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(middleware.SessionMiddleware(config.NewTestConfig().Cookie))
	engine.GET("/whoami", func(c *gin.Context) {
		id, ok := middleware.GetSessionID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id)
	})

	t.Run("issues a new session", func(t *testing.T) {
		rec := httptest.PerformRequest(t, engine, http.MethodGet, "/whoami", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		issued := httptest.AssertSessionCookie(t, rec)
		assert.Equal(t, rec.Body.String(), issued.Value)
		assert.Equal(t, 3600, issued.MaxAge)
	})

	t.Run("keeps an existing session", func(t *testing.T) {
		const existing = "0a8d3f4e-6c2b-4e7a-9d1f-5b3c2a1e0f99"
		rec := httptest.PerformSessionRequest(t, engine, http.MethodGet, "/whoami", nil, existing)

		assert.Equal(t, existing, rec.Body.String())
		assert.Equal(t, existing, httptest.ExtractCookie(rec, cookie.SessionCookieName).Value)
	})

	t.Run("replaces a malformed session", func(t *testing.T) {
		rec := httptest.PerformSessionRequest(t, engine, http.MethodGet, "/whoami", nil, "not-a-uuid")

		assert.NotEqual(t, "not-a-uuid", rec.Body.String())
	})
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	engine := newEngine()
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	rec := httptest.PerformRequestWithHeaders(t, engine, http.MethodGet, "/ping", nil, map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	rec = httptest.PerformRequest(t, engine, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.NewCORSMiddleware(config.NewTestConfig().CORS, discard))
	engine.GET("/api/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin with credentials", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, engine, http.MethodGet, "/api/cart", nil,
			map[string]string{"Origin": "http://localhost:3000"})

		assert.Equal(t, http.StatusOK, rec.Code)
		httptest.AssertHeaders(t, rec, map[string]string{
			"Access-Control-Allow-Origin":      "http://localhost:3000",
			"Access-Control-Allow-Credentials": "true",
		})
	})

	t.Run("unknown origin is refused", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, engine, http.MethodGet, "/api/cart", nil,
			map[string]string{"Origin": "http://evil.example"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		httptest.AssertHeaders(t, rec, map[string]string{"Access-Control-Allow-Origin": ""})
	})
}

func TestRecoveryAndErrorHandler(t *testing.T) {
	engine := newEngine()
	engine.GET("/panic", func(*gin.Context) { panic("boom") })
	engine.GET("/abort", func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusTeapot, nil, "No coffee", map[string]string{"pot": "tea"})
	})
	engine.GET("/silent", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	rec := httptest.PerformRequest(t, engine, http.MethodGet, "/panic", nil)
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	assert.Contains(t, rec.Body.String(), `"requestId":"`+rec.Header().Get("X-Request-ID")+`"`)

	rec = httptest.PerformRequestWithHeaders(t, engine, http.MethodGet, "/abort", nil, map[string]string{"X-Request-ID": "req-7"})
	httptest.AssertErrorResponse(t, rec, http.StatusTeapot, "No coffee")
	assert.Contains(t, rec.Body.String(), `"detail":{"pot":"tea"}`)
	assert.Contains(t, rec.Body.String(), `"requestId":"req-7"`)

	rec = httptest.PerformRequest(t, engine, http.MethodGet, "/silent", nil)
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}
