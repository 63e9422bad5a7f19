// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Typed wraps a Cache with JSON encoding for values of type T under a fixed
// key namespace. A nil *Typed is valid and caches nothing.
type Typed[T any] struct {
	cache     Cache
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewTyped creates a typed view of c. Keys are stored as "<namespace>:<name>".
func NewTyped[T any](c Cache, namespace string, ttl time.Duration, logger *slog.Logger) *Typed[T] {
	if c == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Typed[T]{cache: c, namespace: namespace, ttl: ttl, logger: logger}
}

// Get returns the cached value for name, if present and decodable.
func (t *Typed[T]) Get(ctx context.Context, name string) (T, bool) {
	var value T
	if t == nil {
		return value, false
	}

	data, err := t.cache.Get(ctx, Key(t.namespace, name))
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		t.logger.Warn("discarding undecodable cache entry", "key", Key(t.namespace, name), "error", err)
		_ = t.cache.Delete(ctx, Key(t.namespace, name))
		return value, false
	}
	return value, true
}

// Set stores value under name. Failures are logged, not returned: the cache
// is never the source of truth.
func (t *Typed[T]) Set(ctx context.Context, name string, value T) {
	if t == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		t.logger.Warn("encoding cache entry", "key", Key(t.namespace, name), "error", err)
		return
	}
	if err := t.cache.Set(ctx, Key(t.namespace, name), data, t.ttl); err != nil {
		t.logger.Warn("writing cache entry", "key", Key(t.namespace, name), "error", err)
	}
}

// Invalidate removes name from the cache.
func (t *Typed[T]) Invalidate(ctx context.Context, name string) {
	if t == nil {
		return
	}
	if err := t.cache.Delete(ctx, Key(t.namespace, name)); err != nil {
		t.logger.Warn("invalidating cache entry", "key", Key(t.namespace, name), "error", err)
	}
}

// InvalidateAll removes every entry in the namespace.
func (t *Typed[T]) InvalidateAll(ctx context.Context) {
	if t == nil {
		return
	}
	if err := t.cache.DeleteByPrefix(ctx, t.namespace+":"); err != nil {
		t.logger.Warn("invalidating cache namespace", "namespace", t.namespace, "error", err)
	}
}

// GetOrLoad returns the cached value for name, or calls load and caches its
// result on a miss. Load errors are returned and nothing is cached.
func (t *Typed[T]) GetOrLoad(ctx context.Context, name string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := t.Get(ctx, name); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	t.Set(ctx, name, v)
	return v, nil
}
