package admin

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/internal/auth"
)

func RegisterRoutes(router *gin.RouterGroup, pool AssetAdmin, tracker UsageAdmin, authService *auth.Service) {
	group := router.Group("/admin")
	group.Use(authService.AdminMiddleware())

	group.GET("/assets/stats", AssetStats(pool))
	group.POST("/assets/cleanup", AssetCleanup(pool))
	group.POST("/usage/reset", UsageReset(tracker))
}
