// Package ratelimit implements fixed-window request limiting over a pluggable counter store.
package ratelimit

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . CounterStore

// CounterStore increments per-key counters living for a fixed window
type CounterStore interface {
	// Incr increments key and returns new count and time the current window ends.
	// First hit of a key starts a new window.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Limiter allows up to Max requests per key in each Window
type Limiter struct {
	Store  CounterStore
	Max    int
	Window time.Duration

	now func() time.Time
}

// Result of a single Allow check
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Allow registers a request for key and reports whether it fits the limit.
// Store failures never block requests: the error is logged and returned
// together with an allowing result.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.Store.Incr(ctx, key, l.Window)
	if err != nil {
		lgr.Printf("[WARN] rate limit store failed for %s, allowing: %v", key, err)
		return Result{Allowed: true, Remaining: l.Max - 1, ResetIn: l.Window}, err
	}

	resetIn := max(resetAt.Sub(l.timeNow()), 0)
	if count > l.Max {
		return Result{Allowed: false, Remaining: 0, ResetIn: resetIn}, nil
	}
	return Result{Allowed: true, Remaining: l.Max - count, ResetIn: resetIn}, nil
}

// RetryAfter returns whole seconds to wait, rounded up, at least 1
func (r Result) RetryAfter() int {
	secs := int((r.ResetIn + time.Second - 1) / time.Second)
	return max(secs, 1)
}

func (l *Limiter) timeNow() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}
