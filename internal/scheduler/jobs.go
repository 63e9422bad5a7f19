// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job names.
const (
	JobRefreshTokens  = "refresh-token-sweep"
	JobResetTokens    = "reset-token-cleanup"
	JobEventRetention = "event-retention"
	JobGeoIPReload    = "geoip-reload"
)

// TokenSweeper deletes expired refresh tokens. *session.Manager implements it.
type TokenSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// MaintenanceStore is the subset of *store.Queries the maintenance jobs use.
type MaintenanceStore interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error)
}

// Reloader reloads an on-disk database. *geoip.Lookup implements it.
type Reloader interface {
	Reload() error
}

// Maintenance wires the built-in housekeeping jobs.
type Maintenance struct {
	Sessions TokenSweeper
	Store    MaintenanceStore
	GeoIP    Reloader // optional

	// EventRetention is how long audit events are kept; zero keeps them forever.
	EventRetention time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Register adds the maintenance jobs to s.
func (m Maintenance) Register(s *Scheduler) error {
	now := m.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	jobs := []Job{
		{
			Name:        JobRefreshTokens,
			Description: "Delete expired refresh tokens",
			Schedule:    "@hourly",
			Run: func(ctx context.Context) error {
				n, err := m.Sessions.SweepExpired(ctx)
				if n > 0 {
					m.Logger.Info("expired refresh tokens removed", "count", n)
				}
				return err
			},
		},
		{
			Name:        JobResetTokens,
			Description: "Clear expired password reset tokens",
			Schedule:    "15 * * * *",
			Run: func(ctx context.Context) error {
				n, err := m.Store.ClearExpiredResetTokens(ctx, now())
				if n > 0 {
					m.Logger.Info("expired password reset tokens cleared", "count", n)
				}
				return err
			},
		},
	}

	if m.EventRetention > 0 {
		jobs = append(jobs, Job{
			Name:        JobEventRetention,
			Description: "Delete audit events past the retention period",
			Schedule:    "30 3 * * *",
			Run: func(ctx context.Context) error {
				n, err := m.Store.DeleteEventsBefore(ctx, now().Add(-m.EventRetention))
				if n > 0 {
					m.Logger.Info("old events removed", "count", n)
				}
				return err
			},
		})
	}

	if m.GeoIP != nil {
		jobs = append(jobs, Job{
			Name:        JobGeoIPReload,
			Description: "Reload the GeoIP database if the file changed",
			Schedule:    "0 4 * * *",
			Run:         func(context.Context) error { return m.GeoIP.Reload() },
		})
	}

	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return err
		}
	}
	return nil
}
