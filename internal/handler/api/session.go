package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	reqdto "cart-engine/internal/handler/dto/request"
	"cart-engine/internal/handler/httperr"
	"cart-engine/internal/handler/middleware"
	"cart-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions usecase.SessionService
}

func NewSessionHandler(sessions usecase.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// @Summary Begin login
// @Description Marks the session as authenticating after credentials were accepted upstream
// @Tags session
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Failure 409 {object} httperr.Response
// @Router /session/login [post]
func (h *SessionHandler) BeginLogin(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.BeginLogin(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Complete login
// @Description Validates the session token and merges the local cart into the account cart
// @Tags session
// @Accept json
// @Produce json
// @Param request body reqdto.CompleteLoginRequest false "Token, unless sent as a bearer header"
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /session/login/complete [post]
func (h *SessionHandler) CompleteLogin(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req reqdto.CompleteLoginRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Access token required", nil)
		return
	}

	view, err := h.sessions.CompleteLogin(c.Request.Context(), sid, token)
	respondView(c, view, err)
}

// @Summary Abandon login
// @Tags session
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Failure 409 {object} httperr.Response
// @Router /session/login [delete]
func (h *SessionHandler) AbandonLogin(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.AbandonLogin(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Logout
// @Description Stops syncing; the local cart is kept
// @Tags session
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Logout(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Flush pending sync
// @Description Retries a pending merge or re-sends pending lines
// @Tags session
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /session/flush [post]
func (h *SessionHandler) Flush(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.Flush(c.Request.Context(), sid)
	respondView(c, view, err)
}
