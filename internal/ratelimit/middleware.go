package ratelimit

import (
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/errors"
)

// returns middleware enforcing one rate limit class on an endpoint group
// using the sliding-window log limiter
func Middleware(l *Limiter, class config.RateLimitClass, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Skip {
			c.Next()
			return
		}

		identifier := c.ClientIP()

		if !l.Allow(identifier, class.Window, class.Max) {
			errors.RateLimited(c, identifier)
			c.Abort()
			return
		}

		c.Next()
	}
}

// returns the coarse per-IP throttle applied to all generic API traffic,
// backed by ulule/limiter's in-memory store
func APIMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.Skip {
		return func(c *gin.Context) { c.Next() }
	}

	store := memory.NewStore()
	instance := limiter.New(store, limiter.Rate{
		Period: cfg.API.Window,
		Limit:  int64(cfg.API.Max),
	})

	return mgin.NewMiddleware(instance)
}
