// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ratelimit implements fixed-window request counters behind a
// pluggable store, so limits hold across instances when Redis is used.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts hits per key within a window.
type Store interface {
	// Incr adds one hit to key and returns the count in the current window
	// together with the time the window ends. The window starts on the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	Close() error
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before retrying.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if d := r.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Limiter allows at most Limit hits per key within Window.
type Limiter struct {
	name   string
	store  Store
	limit  int
	window time.Duration
}

// New creates a limiter. name namespaces its keys within the store.
func New(name string, st Store, limit int, window time.Duration) *Limiter {
	return &Limiter{name: name, store: st, limit: limit, window: window}
}

// Name returns the limiter's namespace.
func (l *Limiter) Name() string { return l.name }

// Allow records a hit for key and reports whether it is within the limit.
// A limit of zero or less disables the limiter.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l.limit <= 0 {
		return Result{Allowed: true}, nil
	}

	count, resetAt, err := l.store.Incr(ctx, l.name+":"+key, l.window)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", l.name, err)
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
