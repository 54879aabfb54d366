package assets

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/internal/config"
)

// a previously generated character illustration stored for reuse
type Asset struct {
	ID                   string     `json:"id"`
	ImageData            string     `json:"image_data"` // raster data URI
	CharacterName        string     `json:"character_name"`
	CharacterDescription string     `json:"character_description"`
	QuestionTheme        string     `json:"question_theme"`
	FormType             string     `json:"form_type"`
	UsageCount           int        `json:"usage_count"`
	LastUsedAt           *time.Time `json:"last_used_at"` // nil until first reuse
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
}

// how a pool lookup is filtered
type Criteria struct {
	Theme    string
	FormType string

	// skip assets served anywhere within the cooldown window. The cooldown
	// is global per asset, not per requesting client; see DESIGN.md.
	ExcludeRecentlyUsed bool
	ClientIdentifier    string
}

// pool health for out-of-band replenishment decisions
type PoolStats struct {
	Total           int            `json:"total"`
	ActiveAssets    int            `json:"activeAssets"`
	ByTheme         map[string]int `json:"byTheme"`
	ByFormType      map[string]int `json:"byFormType"`
	NeedsMoreAssets bool           `json:"needsMoreAssets"`
}

// retention and sizing knobs for Cleanup
type CleanupOptions struct {
	RemoveUnusedAfterDays int
	MaxPoolSize           int
}

// what a cleanup pass did
type CleanupResult struct {
	Removed     int `json:"removed"`
	Deactivated int `json:"deactivated"`
}

// persisted store of reusable character images
type Pool struct {
	db  *pgxpool.Pool
	cfg config.AssetPoolConfig

	// injectable candidate picker for deterministic tests
	pickIndex func(n int) int
}
