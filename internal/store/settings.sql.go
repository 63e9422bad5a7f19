// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const settingsColumns = `id, site_name, tagline, contact_email, contact_phone, address, social,
    analytics_id, maintenance_mode, updated_by, created_at, updated_at`

func scanSetting(s scanner) (Setting, error) {
	var i Setting
	err := s.Scan(
		&i.ID,
		&i.SiteName,
		&i.Tagline,
		&i.ContactEmail,
		&i.ContactPhone,
		&i.Address,
		&i.Social,
		&i.AnalyticsID,
		&i.MaintenanceMode,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const ensureSettings = `-- name: EnsureSettings :exec
INSERT INTO settings (id, site_name, created_at, updated_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

const getSettings = `-- name: GetSettings :one
SELECT ` + settingsColumns + ` FROM settings WHERE id = 1`

// GetOrCreateSettings returns the singleton settings row, creating it on first use.
func (q *Queries) GetOrCreateSettings(ctx context.Context, defaultSiteName string, at time.Time) (Setting, error) {
	if _, err := q.db.ExecContext(ctx, ensureSettings, defaultSiteName, at, at); err != nil {
		return Setting{}, err
	}
	return scanSetting(q.db.QueryRowContext(ctx, getSettings))
}

const updateSettings = `-- name: UpdateSettings :one
UPDATE settings SET
    site_name = ?, tagline = ?, contact_email = ?, contact_phone = ?, address = ?, social = ?,
    analytics_id = ?, maintenance_mode = ?, updated_by = ?, updated_at = ?
WHERE id = 1
RETURNING ` + settingsColumns

type UpdateSettingsParams struct {
	SiteName        string
	Tagline         string
	ContactEmail    string
	ContactPhone    string
	Address         string
	Social          RawJSON
	AnalyticsID     string
	MaintenanceMode bool
	UpdatedBy       *int64
	UpdatedAt       time.Time
}

func (q *Queries) UpdateSettings(ctx context.Context, arg UpdateSettingsParams) (Setting, error) {
	row := q.db.QueryRowContext(ctx, updateSettings,
		arg.SiteName,
		arg.Tagline,
		arg.ContactEmail,
		arg.ContactPhone,
		arg.Address,
		JSONOr(arg.Social, "{}"),
		arg.AnalyticsID,
		arg.MaintenanceMode,
		arg.UpdatedBy,
		arg.UpdatedAt,
	)
	return scanSetting(row)
}
