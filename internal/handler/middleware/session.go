package middleware

import (
	"strings"

	"cart-engine/internal/pkg/config"
	"cart-engine/internal/pkg/cookie"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxSessionIDKey = "session_id"

// SessionMiddleware binds every request to a cart session. A missing or
// malformed cart_session cookie gets a fresh uuid, which is written back.
func SessionMiddleware(cfg config.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := cookie.GetSessionID(c)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}
		// refresh on every request so MaxAge counts from last use
		cookie.SetSessionCookie(c, cfg, sessionID)

		c.Set(ctxSessionIDKey, sessionID)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// BearerToken returns the token of an "Authorization: Bearer ..." header.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
