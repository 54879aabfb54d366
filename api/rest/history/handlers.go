package history

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/cosmicquirks/server/internal/auth"
	"codeberg.org/cosmicquirks/server/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListHandler returns the authenticated user's saved readings, newest first
func ListHandler(repo PredictionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		limit := queryInt(c, "limit", defaultPageSize)
		if limit < 1 || limit > maxPageSize {
			limit = defaultPageSize
		}
		offset := queryInt(c, "offset", 0)
		if offset < 0 {
			offset = 0
		}

		results, total, err := repo.ListByUser(c.Request.Context(), userID, limit, offset)
		if err != nil {
			errors.InternalError(c, "failed to list predictions", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Predictions: results,
			Total:       total,
			Limit:       limit,
			Offset:      offset,
		})
	}
}

// DeleteHandler soft-deletes one of the user's saved readings
func DeleteHandler(repo PredictionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		removed, err := repo.Deactivate(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			errors.InternalError(c, "failed to delete prediction", err)
			return
		}
		if !removed {
			errors.NotFound(c, "prediction")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
