package history

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/internal/auth"
)

// registers reading history routes
func RegisterRoutes(router *gin.RouterGroup, repo PredictionLister, authService *auth.Service) {
	group := router.Group("/predictions")
	group.Use(authService.Middleware())
	{
		group.GET("", ListHandler(repo))
		group.DELETE("/:id", DeleteHandler(repo))
	}
}
