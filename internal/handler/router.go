package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cart-engine/internal/handler/api"
	"cart-engine/internal/handler/middleware"
	"cart-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, cartHandler *api.CartHandler, sessionHandler *api.SessionHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, cfg, cartHandler, sessionHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler(logger))
}

func setupRoutes(engine *gin.Engine, cfg config.Config, cartHandler *api.CartHandler, sessionHandler *api.SessionHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.SessionMiddleware(cfg.Cookie))
	{
		addRoutes(apiGroup.Group("/cart"), []route{
			{Method: http.MethodGet, Path: "", Handler: cartHandler.Get},
			{Method: http.MethodDelete, Path: "", Handler: cartHandler.Clear},
			{Method: http.MethodPost, Path: "/items", Handler: cartHandler.AddItem},
			{Method: http.MethodPut, Path: "/items/:productId", Handler: cartHandler.SetQuantity},
			{Method: http.MethodDelete, Path: "/items/:productId", Handler: cartHandler.RemoveItem},
			{Method: http.MethodPost, Path: "/items/:productId/increment", Handler: cartHandler.Increment},
			{Method: http.MethodPost, Path: "/items/:productId/decrement", Handler: cartHandler.Decrement},
			{Method: http.MethodPost, Path: "/reward", Handler: cartHandler.ApplyReward},
			{Method: http.MethodDelete, Path: "/reward", Handler: cartHandler.ClearReward},
			{Method: http.MethodGet, Path: "/checkout", Handler: cartHandler.Checkout},
		})

		addRoutes(apiGroup.Group("/session"), []route{
			{Method: http.MethodPost, Path: "/login", Handler: sessionHandler.BeginLogin},
			{Method: http.MethodDelete, Path: "/login", Handler: sessionHandler.AbandonLogin},
			{Method: http.MethodPost, Path: "/login/complete", Handler: sessionHandler.CompleteLogin},
			{Method: http.MethodPost, Path: "/logout", Handler: sessionHandler.Logout},
			{Method: http.MethodPost, Path: "/flush", Handler: sessionHandler.Flush},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
