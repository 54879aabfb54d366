package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/cosmicquirks/users"
	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/ratelimit"
)

// registers all authentication routes behind the auth rate limit class
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository, authService *auth.Service, limiter *ratelimit.Limiter, cfg config.RateLimitConfig) {
	authGroup := router.Group("/auth")
	authGroup.Use(ratelimit.Middleware(limiter, cfg.Auth, cfg))
	{
		authGroup.GET("/:provider", BeginAuthHandler())
		authGroup.GET("/:provider/callback", CallbackHandler(userRepo, authService))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", authService.Middleware(), GetCurrentUserHandler(userRepo))
	}
}
