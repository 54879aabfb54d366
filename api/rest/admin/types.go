package admin

import (
	"context"

	"codeberg.org/cosmicquirks/server/cosmicquirks/assets"
)

// pool inspection and pruning operations exposed to admins
type AssetAdmin interface {
	Stats(ctx context.Context) (*assets.PoolStats, error)
	Cleanup(ctx context.Context, opts assets.CleanupOptions) (*assets.CleanupResult, error)
}

// manual daily usage bookkeeping reset
type UsageAdmin interface {
	ResetDailyUsage(ctx context.Context) error
}

// CleanupRequest overrides the default retention settings for one pass.
type CleanupRequest struct {
	RemoveUnusedAfterDays int `json:"removeUnusedAfterDays"`
	MaxPoolSize           int `json:"maxPoolSize"`
}
