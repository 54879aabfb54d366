package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents a registered account
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Provider             string     `json:"provider"`
	ProviderID           string     `json:"-"`
	Name                 string     `json:"name"`
	AvatarURL            string     `json:"avatar_url"`
	PlanType             string     `json:"plan_type"` // "registered" or "premium"
	IsAdmin              bool       `json:"-"`
	GenerationsUsedToday int        `json:"-"`
	LastGenerationDate   *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
