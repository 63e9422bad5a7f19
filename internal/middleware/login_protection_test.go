// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestGuard(clock *time.Time) *LoginGuard {
	g := NewLoginGuard(LoginGuardConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	})
	g.now = func() time.Time { return *clock }
	return g
}

func TestLoginGuard_LocksAfterMaxFailures(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)

	assert.Equal(t, 3, g.RemainingAttempts("a@example.com"))

	locked, _ := g.RecordFailure("a@example.com")
	assert.False(t, locked)
	locked, _ = g.RecordFailure("A@Example.com")
	assert.False(t, locked)
	assert.Equal(t, 1, g.RemainingAttempts("a@example.com"))

	locked, d := g.RecordFailure("a@example.com")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, d)

	isLocked, remaining := g.IsLocked("a@example.com")
	assert.True(t, isLocked)
	assert.Equal(t, time.Minute, remaining)

	other, _ := g.IsLocked("b@example.com")
	assert.False(t, other)

	clock = clock.Add(time.Minute + time.Second)
	isLocked, _ = g.IsLocked("a@example.com")
	assert.False(t, isLocked)
}

func TestLoginGuard_ExponentialBackoff(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)

	lockFor := func() time.Duration {
		var d time.Duration
		for range 3 {
			_, d = g.RecordFailure("a@example.com")
		}
		clock = clock.Add(d + time.Second)
		return d
	}

	assert.Equal(t, time.Minute, lockFor())
	assert.Equal(t, 2*time.Minute, lockFor())
	assert.Equal(t, 4*time.Minute, lockFor())
}

func TestLoginGuard_BackoffCapped(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)
	g.failedAttempts["a@example.com"] = &loginAttempt{lockouts: 40}

	var d time.Duration
	for range 3 {
		_, d = g.RecordFailure("a@example.com")
	}
	assert.Equal(t, maxLockout, d)
}

func TestLoginGuard_WindowResets(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)

	g.RecordFailure("a@example.com")
	g.RecordFailure("a@example.com")
	clock = clock.Add(11 * time.Minute)

	locked, _ := g.RecordFailure("a@example.com")
	assert.False(t, locked, "failures outside the window do not count")
	assert.Equal(t, 2, g.RemainingAttempts("a@example.com"))
}

func TestLoginGuard_SuccessClears(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)

	g.RecordFailure("a@example.com")
	g.RecordFailure("a@example.com")
	g.RecordSuccess("A@example.com")

	assert.Equal(t, 3, g.RemainingAttempts("a@example.com"))
}

func TestLoginGuard_RemoveStale(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGuard(&clock)

	g.RecordFailure("old@example.com")
	clock = clock.Add(20 * time.Minute)
	g.RecordFailure("new@example.com")

	g.removeStale()

	assert.NotContains(t, g.failedAttempts, "old@example.com")
	assert.Contains(t, g.failedAttempts, "new@example.com")
}

func TestLoginGuard_CloseIsIdempotent(t *testing.T) {
	g := NewLoginGuard(DefaultLoginGuardConfig())
	g.Close()
	g.Close()
}
