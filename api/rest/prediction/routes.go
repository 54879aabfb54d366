package prediction

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/ratelimit"
)

// registers generation routes
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies, authService *auth.Service, limiter *ratelimit.Limiter) {
	cfg := deps.Config.RateLimit

	router.POST("/prediction",
		ratelimit.Middleware(limiter, cfg.Prediction, cfg),
		authService.OptionalMiddleware(),
		GenerateHandler(deps),
	)

	router.POST("/prediction/save",
		authService.Middleware(),
		SaveHandler(deps),
	)
}
