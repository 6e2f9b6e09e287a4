// Package ratelimit enforces the per-source politeness delay between
// network requests. One limiter is created per source so a future
// parallel crawl would still pace each site independently.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces calls at least interval apart.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// New builds a limiter; a non-positive interval disables waiting.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the next request slot or until ctx is cancelled.
// The first call never waits.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if !l.last.IsZero() {
		if elapsed := now.Sub(l.last); elapsed < l.interval {
			sleep = l.interval - elapsed
		}
	}
	l.last = now.Add(sleep)
	l.mu.Unlock()

	if sleep <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
