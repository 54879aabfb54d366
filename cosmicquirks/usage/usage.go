// Package usage enforces per-tier daily generation quotas. Registered users
// are counted on their users row; anonymous users on a per-IP, per-day
// usage_tracking row. Day rollover is lazy: the read path compares the
// stored day with today and reports zero on mismatch without writing.
package usage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/cosmicquirks/server/internal/config"
	"codeberg.org/cosmicquirks/server/internal/logger"
)

const (
	registeredLimitMessage = "Your cosmic energy is recharging... Try again tomorrow when the stars align!"
	anonymousLimitMessage  = "The mystical forces are overwhelming! Sign up to unlock more cosmic wisdom, or return tomorrow."
)

// creates a usage tracker
func NewTracker(db *pgxpool.Pool, limits config.TierLimits) *Tracker {
	return &Tracker{
		db:     db,
		limits: limits,
		now:    time.Now,
	}
}

// reports whether the identity may generate today. On a store error this
// deliberately fails open: blocking all traffic on a database hiccup is a
// worse outcome than briefly over-serving, so the caller gets
// CanGenerate=true with conservative numbers and a warning is logged for
// reconciliation.
func (t *Tracker) CheckLimit(ctx context.Context, identifier string, registered bool) (*Status, error) {
	if registered {
		return t.checkRegistered(ctx, identifier), nil
	}

	return t.checkAnonymous(ctx, identifier), nil
}

func (t *Tracker) checkRegistered(ctx context.Context, userID string) *Status {
	var (
		usedToday int
		lastDate  *time.Time
		planType  string
	)

	err := t.db.QueryRow(ctx, queryUserDailyUsage, userID).Scan(&usedToday, &lastDate, &planType)
	if err != nil {
		logger.Warn("usage check failed open",
			"user_id", userID,
			"error", err,
		)

		return &Status{CanGenerate: true, Used: 0, Limit: t.limits.Registered}
	}

	limit := t.limits.For(planType)
	used := usedOnDay(usedToday, lastDate, t.today())

	status := &Status{
		CanGenerate: used < limit,
		Used:        used,
		Limit:       limit,
	}

	if !status.CanGenerate {
		status.Message = registeredLimitMessage
	}

	return status
}

func (t *Tracker) checkAnonymous(ctx context.Context, clientIP string) *Status {
	var used int

	err := t.db.QueryRow(ctx, queryIPDailyUsage, clientIP, t.today()).Scan(&used)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		used = 0 // first generation of the day
	case err != nil:
		logger.Warn("usage check failed open",
			"client_ip", clientIP,
			"error", err,
		)

		return &Status{CanGenerate: true, Used: 0, Limit: t.limits.Unregistered}
	}

	status := &Status{
		CanGenerate: used < t.limits.Unregistered,
		Used:        used,
		Limit:       t.limits.Unregistered,
	}

	if !status.CanGenerate {
		status.Message = anonymousLimitMessage
	}

	return status
}

// bumps the identity's daily counter via an atomic SQL function. Called only
// after a successful generation, never before.
func (t *Tracker) Increment(ctx context.Context, identifier string, registered bool) bool {
	query := queryIncrementIPUsage
	if registered {
		query = queryIncrementUserUsage
	}

	if _, err := t.db.Exec(ctx, query, identifier, t.today()); err != nil {
		logger.ErrorErr(err, "failed to increment usage",
			"identifier", identifier,
			"registered", registered,
		)

		return false
	}

	return true
}

// bulk-resets stored counters. Bookkeeping only: correctness never depends
// on this because the read path recomputes from last_generation_date.
func (t *Tracker) ResetDailyUsage(ctx context.Context) error {
	_, err := t.db.Exec(ctx, queryResetDailyUsage)
	return err
}

// returns the dashboard usage summary for a registered user
func (t *Tracker) Stats(ctx context.Context, userID string) (*Stats, error) {
	var (
		usedToday int
		lastDate  *time.Time
		planType  string
	)

	err := t.db.QueryRow(ctx, queryUserDailyUsage, userID).Scan(&usedToday, &lastDate, &planType)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Used:      usedOnDay(usedToday, lastDate, t.today()),
		Limit:     t.limits.For(planType),
		ResetTime: nextMidnightUTC(t.now()),
		PlanType:  planType,
	}, nil
}

// the UTC calendar day key, "YYYY-MM-DD"
func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

// applies lazy rollover: a counter only counts when its stored day is today
func usedOnDay(storedCount int, storedDate *time.Time, today string) int {
	if storedDate == nil {
		return 0
	}

	if storedDate.UTC().Format("2006-01-02") != today {
		return 0
	}

	return storedCount
}

// the next UTC midnight after now, when quotas effectively reset
func nextMidnightUTC(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
