//go:build unit

package api_test

import (
	"io"
	"log/slog"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/reward"
	"cart-engine/internal/handler"
	"cart-engine/internal/handler/api"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"
	"cart-engine/internal/usecase/mocks"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const sessionID = "4f6b7c1e-2f0a-4f43-a8c9-2b1d3e5f7a90"

func newRouter(carts *mocks.MockCartService, sessions *mocks.MockSessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler.NewRouter(engine, config.NewTestConfig(), logger, api.NewCartHandler(carts), api.NewSessionHandler(sessions))
	return engine
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sampleView is a two-unit cart of one discounted product.
func sampleView() usecase.CartView {
	line := cart.Line{ProductID: "P-100", VariantKey: "M", Quantity: 2, UnitPrice: dec("1000"), UnitDiscount: dec("150")}
	return usecase.CartView{
		Lines: []usecase.LineView{{
			Line:            line,
			FinalUnitPrice:  dec("850"),
			LineTotal:       dec("1700"),
			DiscountPercent: 15,
			IsByValue:       true,
			PromotionID:     "promo-1",
		}},
		TotalQuantity: 2,
		Subtotal:      dec("2000"),
		DiscountTotal: dec("300"),
		Payable:       dec("1700"),
		CheckoutTotal: dec("1500"),
		Reward:        reward.State{Applied: true, Value: dec("200")},
		SyncState:     usecase.Anonymous,
	}
}

type cartBody struct {
	Lines []struct {
		ProductID       string `json:"productId"`
		VariantKey      string `json:"variantKey"`
		Quantity        int    `json:"quantity"`
		UnitPrice       string `json:"unitPrice"`
		FinalUnitPrice  string `json:"finalUnitPrice"`
		LineTotal       string `json:"lineTotal"`
		DiscountPercent int    `json:"discountPercent"`
		IsByValue       bool   `json:"isByValue"`
		PromotionID     string `json:"promotionId"`
	} `json:"lines"`
	TotalQuantity int    `json:"totalQuantity"`
	Subtotal      string `json:"subtotal"`
	DiscountTotal string `json:"discountTotal"`
	CheckoutTotal string `json:"checkoutTotal"`
	Reward        struct {
		Applied bool   `json:"applied"`
		Value   string `json:"value"`
	} `json:"reward"`
	SyncState   string `json:"syncState"`
	SyncPending bool   `json:"syncPending"`
	Changed     *bool  `json:"changed"`
}
