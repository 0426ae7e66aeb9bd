package api

import (
	"net/http"

	"cart-engine/internal/domain/cart"
	reqdto "cart-engine/internal/handler/dto/request"
	resdto "cart-engine/internal/handler/dto/response"
	"cart-engine/internal/handler/httperr"
	"cart-engine/internal/pkg/errs"
	"cart-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts usecase.CartService
}

func NewCartHandler(carts usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// lineKey reads the product id path parameter and the optional variant query.
func lineKey(c *gin.Context) cart.Key {
	return cart.NewKey(c.Param("productId"), c.Query("variant"))
}

// @Summary Get cart
// @Description Priced view of the session's cart
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.carts.Get(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Add item
// @Description Add a product at its current catalog price
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.AddItemRequest true "Item"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), sid, req.ProductID, req.VariantKey, req.Quantity)
	respondView(c, view, err)
}

// @Summary Set quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param variant query string false "Variant key"
// @Param request body reqdto.SetQuantityRequest true "Quantity"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Router /cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.carts.SetQuantity(c.Request.Context(), sid, lineKey(c), *req.Quantity)
	respondView(c, view, err)
}

// @Summary Remove item
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Param variant query string false "Variant key"
// @Success 200 {object} resdto.CartResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.carts.RemoveItem(c.Request.Context(), sid, lineKey(c))
	respondView(c, view, err)
}

// @Summary Increment quantity
// @Description Adds one unit unless the line already holds availableQuantity
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param variant query string false "Variant key"
// @Param request body reqdto.IncrementRequest true "Stock ceiling"
// @Success 200 {object} resdto.IncrementResponse
// @Router /cart/items/{productId}/increment [post]
func (h *CartHandler) Increment(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.IncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, changed, err := h.carts.Increment(c.Request.Context(), sid, lineKey(c), req.AvailableQuantity)
	if err != nil && !errs.Is(err, errs.ErrRemoteSync) {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.IncrementResponse{
		CartResponse: resdto.FromCartView(view),
		Changed:      changed,
	})
}

// @Summary Decrement quantity
// @Description Removes one unit; the line is removed at quantity one
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Param variant query string false "Variant key"
// @Success 200 {object} resdto.CartResponse
// @Router /cart/items/{productId}/decrement [post]
func (h *CartHandler) Decrement(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.carts.Decrement(c.Request.Context(), sid, lineKey(c))
	respondView(c, view, err)
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.carts.Clear(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Apply reward
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.ApplyRewardRequest true "Reward value"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Router /cart/reward [post]
func (h *CartHandler) ApplyReward(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req reqdto.ApplyRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.carts.ApplyReward(c.Request.Context(), sid, req.Value)
	respondView(c, view, err)
}

// @Summary Clear reward
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /cart/reward [delete]
func (h *CartHandler) ClearReward(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.carts.ClearReward(c.Request.Context(), sid)
	respondView(c, view, err)
}

// @Summary Checkout snapshot
// @Description Read-only hand-off of lines and totals to the order flow
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Router /cart/checkout [get]
func (h *CartHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	checkout, err := h.carts.Checkout(c.Request.Context(), sid)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckout(checkout))
}
