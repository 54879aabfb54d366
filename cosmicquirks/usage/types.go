package usage

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/internal/config"
)

// tracks per-day generation counters for registered and anonymous identities
type Tracker struct {
	db     *pgxpool.Pool
	limits config.TierLimits

	// injectable clock for deterministic tests
	now func() time.Time
}

// the outcome of a daily quota check
type Status struct {
	CanGenerate bool
	Used        int
	Limit       int
	Message     string
}

// dashboard-facing usage summary for a registered user
type Stats struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	ResetTime time.Time `json:"resetTime"`
	PlanType  string    `json:"planType"`
}
