// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// maxLockout caps the exponential lockout backoff.
const maxLockout = 24 * time.Hour

// LoginGuard locks accounts after repeated failed logins. Lockouts double on
// each repeat up to 24 hours. It complements the per-IP+email login limiter:
// the limiter slows a single client, the guard protects an account attacked
// from many addresses.
type LoginGuard struct {
	failedAttempts map[string]*loginAttempt
	mu             sync.RWMutex

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// loginAttempt tracks failed login attempts for an account.
type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginGuardConfig holds configuration for account lockout.
type LoginGuardConfig struct {
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is the base lockout time (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
	// CleanupInterval for stale entries; 0 disables the background sweep.
	CleanupInterval time.Duration
}

// DefaultLoginGuardConfig returns sensible defaults.
func DefaultLoginGuardConfig() LoginGuardConfig {
	return LoginGuardConfig{
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}
}

// NewLoginGuard creates a login guard.
func NewLoginGuard(cfg LoginGuardConfig) *LoginGuard {
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	g := &LoginGuard{
		failedAttempts:    make(map[string]*loginAttempt),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
		now:               time.Now,
		stop:              make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go g.cleanupLoop(cfg.CleanupInterval)
	}
	return g
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLocked reports whether the account is locked and for how much longer.
func (g *LoginGuard) IsLocked(email string) (bool, time.Duration) {
	g.mu.RLock()
	attempt, exists := g.failedAttempts[accountKey(email)]
	var lockedUntil time.Time
	if exists {
		lockedUntil = attempt.lockedUntil
	}
	g.mu.RUnlock()

	if remaining := lockedUntil.Sub(g.now()); exists && remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailure records a failed login and reports whether the account is
// now locked, with the lock duration.
func (g *LoginGuard) RecordFailure(email string) (bool, time.Duration) {
	key := accountKey(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	attempt, exists := g.failedAttempts[key]
	if !exists {
		attempt = &loginAttempt{}
		g.failedAttempts[key] = attempt
	}

	if attempt.count == 0 || now.Sub(attempt.firstFailed) > g.attemptWindow {
		attempt.count = 0
		attempt.firstFailed = now
	}
	attempt.count++

	if attempt.count < g.maxFailedAttempts {
		return false, 0
	}

	lockDuration := g.lockoutDuration
	for i := 0; i < attempt.lockouts && lockDuration < maxLockout; i++ {
		lockDuration *= 2
	}
	lockDuration = min(lockDuration, maxLockout)

	attempt.lockedUntil = now.Add(lockDuration)
	attempt.lockouts++
	attempt.count = 0

	slog.Warn("account locked due to failed attempts",
		"category", "security",
		"email", key,
		"lockouts", attempt.lockouts,
		"duration", lockDuration.String(),
	)
	return true, lockDuration
}

// RecordSuccess clears failed attempt tracking for an account.
func (g *LoginGuard) RecordSuccess(email string) {
	g.mu.Lock()
	delete(g.failedAttempts, accountKey(email))
	g.mu.Unlock()
}

// RemainingAttempts returns the number of failures left before lockout.
func (g *LoginGuard) RemainingAttempts(email string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	attempt, exists := g.failedAttempts[accountKey(email)]
	if !exists || g.now().Sub(attempt.firstFailed) > g.attemptWindow {
		return g.maxFailedAttempts
	}
	return max(g.maxFailedAttempts-attempt.count, 0)
}

// Close stops the background cleanup.
func (g *LoginGuard) Close() {
	g.once.Do(func() { close(g.stop) })
}

func (g *LoginGuard) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.removeStale()
		case <-g.stop:
			return
		}
	}
}

func (g *LoginGuard) removeStale() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	for key, attempt := range g.failedAttempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > g.attemptWindow {
			delete(g.failedAttempts, key)
		}
	}
}
