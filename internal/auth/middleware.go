package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// context keys set by the middleware
const (
	ContextUserID   = "user_id"
	ContextEmail    = "user_email"
	ContextPlanType = "plan_type"
	ContextIsAdmin  = "is_admin"
)

// validates JWT tokens and adds user info to context
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.claimsFromHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// validates JWT if present but doesn't require it; anonymous requests pass
// through with no identity in context
func (s *Service) OptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.claimsFromHeader(c)
		if err == nil {
			setClaims(c, claims)
		}

		c.Next()
	}
}

// requires an authenticated admin
func (s *Service) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.claimsFromHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			c.Abort()
			return
		}

		if !claims.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "admin access required"})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func (s *Service) claimsFromHeader(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingAuth
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadAuthFormat
	}

	claims, err := s.ValidateJWT(parts[1])
	if err != nil {
		return nil, errInvalidToken
	}

	return claims, nil
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextPlanType, claims.PlanType)
	c.Set(ContextIsAdmin, claims.IsAdmin)
}

// extracts user_id from context after the middleware has run
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}

	return userID.(string), true
}

// extracts the plan type for an authenticated request; empty when anonymous
func GetPlanType(c *gin.Context) string {
	return c.GetString(ContextPlanType)
}
