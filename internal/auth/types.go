package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"codeberg.org/cosmicquirks/server/internal/config"
)

// JWT claims carried by session tokens. PlanType is the tier oracle the
// generation pipeline consults; "registered" or "premium".
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	PlanType string `json:"plan_type"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// issues and validates session tokens
type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}
