// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const adminColumns = `id, email, password_hash, name, role, is_active, last_login_at,
    reset_token_hash, reset_token_expires_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAdmin(s scanner) (Admin, error) {
	var i Admin
	err := s.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.Name,
		&i.Role,
		&i.IsActive,
		&i.LastLoginAt,
		&i.ResetTokenHash,
		&i.ResetTokenExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createAdmin = `-- name: CreateAdmin :one
INSERT INTO admins (email, password_hash, name, role, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + adminColumns

type CreateAdminParams struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	row := q.db.QueryRowContext(ctx, createAdmin,
		arg.Email,
		arg.PasswordHash,
		arg.Name,
		arg.Role,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanAdmin(row)
}

const getAdminByID = `-- name: GetAdminByID :one
SELECT ` + adminColumns + ` FROM admins WHERE id = ?`

func (q *Queries) GetAdminByID(ctx context.Context, id int64) (Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx, getAdminByID, id))
}

const getAdminByEmail = `-- name: GetAdminByEmail :one
SELECT ` + adminColumns + ` FROM admins WHERE email = ?`

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx, getAdminByEmail, email))
}

const getAdminByResetToken = `-- name: GetAdminByResetToken :one
SELECT ` + adminColumns + ` FROM admins
WHERE reset_token_hash = ? AND reset_token_expires_at > ? AND is_active = 1`

// GetAdminByResetToken finds an active admin holding an unexpired reset token hash.
func (q *Queries) GetAdminByResetToken(ctx context.Context, tokenHash string, now time.Time) (Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx, getAdminByResetToken, tokenHash, now))
}

const listAdmins = `-- name: ListAdmins :many
SELECT ` + adminColumns + ` FROM admins ORDER BY created_at`

func (q *Queries) ListAdmins(ctx context.Context) ([]Admin, error) {
	rows, err := q.db.QueryContext(ctx, listAdmins)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Admin{}
	for rows.Next() {
		i, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateAdminLastLogin = `-- name: UpdateAdminLastLogin :exec
UPDATE admins SET last_login_at = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdateAdminLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, updateAdminLastLogin, at, at, id)
	return err
}

const updateAdminPassword = `-- name: UpdateAdminPassword :exec
UPDATE admins
SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = ?
WHERE id = ?`

// UpdateAdminPassword stores a new hash and clears any pending reset token.
func (q *Queries) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, updateAdminPassword, passwordHash, at, id)
	return err
}

const setAdminResetToken = `-- name: SetAdminResetToken :exec
UPDATE admins SET reset_token_hash = ?, reset_token_expires_at = ?, updated_at = ? WHERE id = ?`

type SetAdminResetTokenParams struct {
	ID        int64
	TokenHash string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) SetAdminResetToken(ctx context.Context, arg SetAdminResetTokenParams) error {
	_, err := q.db.ExecContext(ctx, setAdminResetToken, arg.TokenHash, arg.ExpiresAt, arg.UpdatedAt, arg.ID)
	return err
}

const clearExpiredResetTokens = `-- name: ClearExpiredResetTokens :execrows
UPDATE admins SET reset_token_hash = NULL, reset_token_expires_at = NULL
WHERE reset_token_expires_at IS NOT NULL AND reset_token_expires_at <= ?`

func (q *Queries) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, clearExpiredResetTokens, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setAdminActive = `-- name: SetAdminActive :exec
UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?`

func (q *Queries) SetAdminActive(ctx context.Context, id int64, active bool, at time.Time) error {
	_, err := q.db.ExecContext(ctx, setAdminActive, active, at, id)
	return err
}

const countAdmins = `-- name: CountAdmins :one
SELECT COUNT(*) FROM admins`

func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countAdmins).Scan(&count)
	return count, err
}
