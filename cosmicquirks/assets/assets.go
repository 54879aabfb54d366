package assets

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/logger"
	"codeberg.org/cosmicquirks/server/internal/themes"
)

func NewPool(db *pgxpool.Pool, cfg config.AssetPoolConfig) *Pool {
	return &Pool{
		db:        db,
		cfg:       cfg,
		pickIndex: rand.IntN,
	}
}

// Acquire returns a reusable asset matching the criteria, or nil when the
// pool has nothing suitable. Candidates are the least-used, oldest active
// assets; a random pick among them spreads reuse so repeat visitors do not
// keep seeing the same character. A general request means no theme filter,
// and a themed miss falls back to the same unfiltered lookup for the form.
func (p *Pool) Acquire(ctx context.Context, criteria Criteria) (*Asset, error) {
	cutoff := p.reuseCutoff(criteria)

	var candidates []*Asset
	var err error

	if themeFiltered(criteria.Theme) {
		candidates, err = p.candidates(ctx, queryCandidatesByTheme, criteria.FormType, criteria.Theme, cutoff)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		candidates, err = p.anyThemeCandidates(ctx, criteria.FormType, cutoff)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	asset := candidates[p.pickIndex(len(candidates))]

	if err := p.MarkUsed(ctx, asset.ID); err != nil {
		// reuse bookkeeping is best effort, the asset is still served
		logger.Warn("failed to mark asset as used", "asset_id", asset.ID, "error", err)
	}

	return asset, nil
}

// MarkUsed bumps the usage counter and reuse timestamp in one statement.
func (p *Pool) MarkUsed(ctx context.Context, id string) error {
	_, err := p.db.Exec(ctx, queryMarkUsed, id)
	if err != nil {
		return fmt.Errorf("failed to mark asset used: %w", err)
	}
	return nil
}

// Add stores a freshly generated character image for future reuse.
func (p *Pool) Add(ctx context.Context, imageData, characterName, characterDescription, theme, formType string) (*Asset, error) {
	asset := &Asset{
		ImageData:            imageData,
		CharacterName:        characterName,
		CharacterDescription: characterDescription,
		QuestionTheme:        theme,
		FormType:             formType,
		IsActive:             true,
	}

	err := p.db.QueryRow(ctx, queryInsertAsset,
		imageData, characterName, characterDescription, theme, formType,
	).Scan(&asset.ID, &asset.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add asset to pool: %w", err)
	}

	return asset, nil
}

// Stats reports pool size and its active breakdown by theme and form type.
func (p *Pool) Stats(ctx context.Context) (*PoolStats, error) {
	stats := &PoolStats{
		ByTheme:    make(map[string]int),
		ByFormType: make(map[string]int),
	}

	if err := p.db.QueryRow(ctx, queryCountAll).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	rows, err := p.db.Query(ctx, queryActiveBreakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var theme, formType string
		var count int
		if err := rows.Scan(&theme, &formType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan asset breakdown: %w", err)
		}
		stats.ByTheme[theme] += count
		stats.ByFormType[formType] += count
		stats.ActiveAssets += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read asset breakdown: %w", err)
	}

	stats.NeedsMoreAssets = stats.ActiveAssets < p.cfg.MinPoolSize

	return stats, nil
}

// Cleanup deletes never-used assets older than the retention window and
// soft-deactivates the least valuable assets when the active pool exceeds
// its size cap. Used assets are never hard-deleted.
func (p *Pool) Cleanup(ctx context.Context, opts CleanupOptions) (*CleanupResult, error) {
	result := &CleanupResult{}

	cutoff := time.Now().UTC().AddDate(0, 0, -opts.RemoveUnusedAfterDays)
	tag, err := p.db.Exec(ctx, queryDeleteStaleUnused, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stale assets: %w", err)
	}
	result.Removed = int(tag.RowsAffected())

	var active int
	if err := p.db.QueryRow(ctx, queryCountActive).Scan(&active); err != nil {
		return nil, fmt.Errorf("failed to count active assets: %w", err)
	}

	if overflow := active - opts.MaxPoolSize; overflow > 0 {
		tag, err := p.db.Exec(ctx, queryDeactivateOverflow, overflow)
		if err != nil {
			return nil, fmt.Errorf("failed to deactivate overflow assets: %w", err)
		}
		result.Deactivated = int(tag.RowsAffected())
	}

	return result, nil
}

// themeFiltered reports whether a theme narrows the candidate lookup.
// The general theme matches everything, so it gets no filter at all.
func themeFiltered(theme string) bool {
	return theme != themes.General
}

func (p *Pool) reuseCutoff(criteria Criteria) *time.Time {
	if !criteria.ExcludeRecentlyUsed || p.cfg.ReuseCooldownDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -p.cfg.ReuseCooldownDays)
	return &cutoff
}

func (p *Pool) candidates(ctx context.Context, query, formType, theme string, cutoff *time.Time) ([]*Asset, error) {
	rows, err := p.db.Query(ctx, query, formType, theme, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset candidates: %w", err)
	}
	defer rows.Close()
	return scanAssets(rows)
}

func (p *Pool) anyThemeCandidates(ctx context.Context, formType string, cutoff *time.Time) ([]*Asset, error) {
	rows, err := p.db.Query(ctx, queryCandidatesAnyTheme, formType, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset candidates: %w", err)
	}
	defer rows.Close()
	return scanAssets(rows)
}

func scanAssets(rows pgx.Rows) ([]*Asset, error) {
	var assets []*Asset
	for rows.Next() {
		asset := &Asset{}
		err := rows.Scan(
			&asset.ID, &asset.ImageData, &asset.CharacterName,
			&asset.CharacterDescription, &asset.QuestionTheme, &asset.FormType,
			&asset.UsageCount, &asset.LastUsedAt, &asset.IsActive, &asset.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assets: %w", err)
	}
	return assets, nil
}
