package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
	"codeberg.org/cosmicquirks/server/internal/errors"
	"codeberg.org/cosmicquirks/server/internal/logger"
)

// AssetStats godoc
// @Summary Asset pool statistics
// @Description Admin-only view of pool size and its theme/form breakdown
// @Tags admin
// @Produce json
// @Success 200 {object} assets.PoolStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/assets/stats [get]
func AssetStats(pool AssetAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := pool.Stats(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to load asset stats", err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// AssetCleanup godoc
// @Summary Run an asset pool cleanup pass
// @Description Admin-only trigger for pruning stale and overflow assets
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} assets.CleanupResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/assets/cleanup [post]
func AssetCleanup(pool AssetAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		// overrides are optional, an empty body runs with defaults
		var req CleanupRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			errors.ValidationError(c, err)
			return
		}

		opts := assets.CleanupOptions{
			RemoveUnusedAfterDays: req.RemoveUnusedAfterDays,
			MaxPoolSize:           req.MaxPoolSize,
		}
		if opts.RemoveUnusedAfterDays <= 0 {
			opts.RemoveUnusedAfterDays = 90
		}
		if opts.MaxPoolSize <= 0 {
			opts.MaxPoolSize = 1000
		}

		result, err := pool.Cleanup(c.Request.Context(), opts)
		if err != nil {
			errors.InternalError(c, "asset cleanup failed", err)
			return
		}

		logger.Info("manual asset cleanup",
			"removed", result.Removed,
			"deactivated", result.Deactivated,
		)

		c.JSON(http.StatusOK, result)
	}
}

// UsageReset godoc
// @Summary Reset daily usage counters
// @Description Admin-only manual reset of per-user daily generation counters
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/usage/reset [post]
func UsageReset(tracker UsageAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tracker.ResetDailyUsage(c.Request.Context()); err != nil {
			errors.InternalError(c, "failed to reset daily usage", err)
			return
		}

		logger.Info("manual daily usage reset")

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
