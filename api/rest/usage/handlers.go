package usage

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/cosmicquirks/usage"
	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/errors"
)

// reports quota standing for the dashboard
type StatsProvider interface {
	Stats(ctx context.Context, userID string) (*usage.Stats, error)
}

// MeHandler returns the authenticated user's daily usage standing
func MeHandler(tracker StatsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		stats, err := tracker.Stats(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to load usage stats", err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// registers usage routes
func RegisterRoutes(router *gin.RouterGroup, tracker StatsProvider, authService *auth.Service) {
	router.GET("/usage/me", authService.Middleware(), MeHandler(tracker))
}
