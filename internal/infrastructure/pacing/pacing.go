package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"ReleaseTimeline/internal/ports"
)

// Source categories with distinct rate-limit budgets. Search endpoints are
// paced more conservatively than plain feeds.
const (
	CategoryFeed   = "feed"
	CategoryReddit = "reddit"
	CategoryX      = "x"
)

// Limiter spaces requests per source category. This is deliberate
// backpressure against third-party rate limits, not performance tuning.
type Limiter struct {
	limiters map[string]*rate.Limiter
}

var _ ports.Pacer = (*Limiter)(nil)

// New builds a limiter from minimum inter-request intervals per category.
// Categories with a non-positive interval are unpaced.
func New(intervals map[string]time.Duration) *Limiter {
	limiters := make(map[string]*rate.Limiter, len(intervals))
	for category, interval := range intervals {
		if interval <= 0 {
			continue
		}
		limiters[category] = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Limiter{limiters: limiters}
}

// Wait blocks until the category's next request slot, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context, category string) error {
	limiter, ok := l.limiters[category]
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
