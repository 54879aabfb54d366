// Package ratelimit implements an in-process sliding-window request
// throttle keyed by client identity. State is deliberately not persisted:
// a restart resets all windows, which is an accepted availability/abuse
// trade-off rather than a correctness requirement.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"codeberg.org/cosmicquirks/server/internal/logger"
)

const (
	// how often idle identities are purged
	SweepInterval = 10 * time.Minute

	// identities with no request newer than this are forgotten
	IdleRetention = time.Hour
)

// sliding-window log limiter; construct once at startup and inject
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time

	// injectable clock for deterministic tests
	now func() time.Time
}

// creates a limiter with an empty window log
func NewLimiter() *Limiter {
	return &Limiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// records a request for the identifier if it fits within the window.
// Returns false when maxRequests timestamps already fall inside the window.
func (l *Limiter) Allow(identifier string, window time.Duration, maxRequests int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-window)

	// discard timestamps outside the window
	valid := make([]time.Time, 0, maxRequests)

	for _, ts := range l.requests[identifier] {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= maxRequests {
		l.requests[identifier] = valid
		return false
	}

	l.requests[identifier] = append(valid, now)
	return true
}

// removes identities with no activity in the retention period to bound memory
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-IdleRetention)

	for identifier, timestamps := range l.requests {
		recent := timestamps[:0]

		for _, ts := range timestamps {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}

		if len(recent) == 0 {
			delete(l.requests, identifier)
		} else {
			l.requests[identifier] = recent
		}
	}
}

// runs the periodic sweep until the context is cancelled
func (l *Limiter) Start(ctx context.Context) {
	logger.Info("starting rate limiter sweep loop",
		"sweep_interval", SweepInterval,
		"idle_retention", IdleRetention,
	)

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("rate limiter sweep loop stopped")
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// reports how many identities currently hold window state
func (l *Limiter) TrackedIdentities() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.requests)
}
