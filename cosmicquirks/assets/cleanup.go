package assets

import (
	"context"
	"time"

	"codeberg.org/cosmicquirks/server/internal/logger"
)

const (
	defaultRemoveUnusedAfterDays = 90
	defaultMaxPoolSize           = 1000
)

// handles periodic pruning of the asset pool
type CleanupService struct {
	pool          *Pool
	checkInterval time.Duration
	opts          CleanupOptions
}

// creates a new cleanup service with default retention settings
func NewCleanupService(pool *Pool, checkInterval time.Duration) *CleanupService {
	return &CleanupService{
		pool:          pool,
		checkInterval: checkInterval,
		opts: CleanupOptions{
			RemoveUnusedAfterDays: defaultRemoveUnusedAfterDays,
			MaxPoolSize:           defaultMaxPoolSize,
		},
	}
}

// begins the cleanup service background loop
func (s *CleanupService) Start(ctx context.Context) {
	logger.Info("starting asset pool cleanup service",
		"check_interval", s.checkInterval,
		"remove_unused_after_days", s.opts.RemoveUnusedAfterDays,
		"max_pool_size", s.opts.MaxPoolSize,
	)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("asset pool cleanup service stopped")
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	result, err := s.pool.Cleanup(ctx, s.opts)
	if err != nil {
		logger.ErrorErr(err, "asset pool cleanup failed")
		return
	}

	if result.Removed > 0 || result.Deactivated > 0 {
		logger.Info("asset pool cleanup completed",
			"removed", result.Removed,
			"deactivated", result.Deactivated,
		)
	}
}
