//go:build unit || e2e

package httptest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cart-engine/internal/pkg/cookie"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertHeaders checks each expected header; an empty value asserts absence.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertSessionCookie requires an HttpOnly session cookie carrying a uuid and
// returns it for follow-up requests.
func AssertSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	c := ExtractCookie(w, cookie.SessionCookieName)
	require.NotNil(t, c, "session cookie not set")
	assert.True(t, c.HttpOnly, "session cookie must be HttpOnly")
	_, err := uuid.Parse(c.Value)
	assert.NoError(t, err, "session id %q is not a uuid", c.Value)
	return c
}
