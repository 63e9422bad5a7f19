// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test unless SITECMS_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SITECMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SITECMS_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := skipIfNoRedis(t)

	c, err := NewRedisCacheFromURL(url, "sitecms-test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	_ = c.Clear(context.Background())
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if has, _ := c.Has(ctx, "k"); !has {
		t.Error("Has = false, want true")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after delete: %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "content:home", []byte("1"), 0)
	_ = c.Set(ctx, "content:about", []byte("1"), 0)
	_ = c.Set(ctx, "settings:site", []byte("1"), 0)

	if err := c.DeleteByPrefix(ctx, "content:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if has, _ := c.Has(ctx, "content:home"); has {
		t.Error("content:home should be deleted")
	}
	if has, _ := c.Has(ctx, "settings:site"); !has {
		t.Error("settings:site should be kept")
	}
	if s := c.Stats(); s.Items != 1 {
		t.Errorf("Items = %d, want 1", s.Items)
	}
}

func TestRedisCache_Close(t *testing.T) {
	c := newTestRedisCache(t)
	_ = c.Close()

	if err := c.Ping(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after close: %v", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("not-a-url", "p:", time.Minute); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := NewRedisCacheFromURL("", "p:", time.Minute); err == nil {
		t.Error("expected error for empty URL")
	}
}
