package api

import (
	"log/slog"
	"net/http"

	resdto "cart-engine/internal/handler/dto/response"
	"cart-engine/internal/handler/httperr"
	"cart-engine/internal/handler/middleware"
	"cart-engine/internal/pkg/errs"
	"cart-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errs.IsAny(err, errs.ErrInvalidLine, errs.ErrInvalidQuantity, errs.ErrInvalidReward):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, errs.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errs.Is(err, errs.ErrCatalogFailed):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Catalog unavailable", nil)
	case errs.Is(err, errs.ErrInvalidToken):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
	case errs.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Invalid login state", nil)
	case errs.Is(err, errs.ErrLoginAbandoned):
		httperr.AbortWithError(c, http.StatusRequestTimeout, err, "Login abandoned", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

// respondView writes the cart view. A failed remote sync still answers 200:
// the local change was kept and the body reports syncPending.
func respondView(c *gin.Context, view usecase.CartView, err error) {
	if err != nil && !errs.Is(err, errs.ErrRemoteSync) {
		abortWithUsecaseError(c, err)
		return
	}
	if err != nil {
		slog.Warn("account cart sync pending",
			"request_id", middleware.GetRequestID(c),
			"error", err.Error())
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Session unavailable", nil)
	}
	return id, ok
}
