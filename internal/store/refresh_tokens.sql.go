// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createRefreshToken = `-- name: CreateRefreshToken :one
INSERT INTO refresh_tokens (token_hash, admin_id, user_agent, ip, expires_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, token_hash, admin_id, user_agent, ip, expires_at, created_at`

type CreateRefreshTokenParams struct {
	TokenHash string
	AdminID   int64
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (q *Queries) CreateRefreshToken(ctx context.Context, arg CreateRefreshTokenParams) (RefreshToken, error) {
	row := q.db.QueryRowContext(ctx, createRefreshToken,
		arg.TokenHash,
		arg.AdminID,
		arg.UserAgent,
		arg.IP,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	var i RefreshToken
	err := row.Scan(
		&i.ID,
		&i.TokenHash,
		&i.AdminID,
		&i.UserAgent,
		&i.IP,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const getRefreshToken = `-- name: GetRefreshToken :one
SELECT id, token_hash, admin_id, user_agent, ip, expires_at, created_at
FROM refresh_tokens WHERE token_hash = ?`

func (q *Queries) GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error) {
	row := q.db.QueryRowContext(ctx, getRefreshToken, tokenHash)
	var i RefreshToken
	err := row.Scan(
		&i.ID,
		&i.TokenHash,
		&i.AdminID,
		&i.UserAgent,
		&i.IP,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const deleteRefreshToken = `-- name: DeleteRefreshToken :execrows
DELETE FROM refresh_tokens WHERE token_hash = ?`

// DeleteRefreshToken removes a token by hash and reports how many rows went away.
func (q *Queries) DeleteRefreshToken(ctx context.Context, tokenHash string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRefreshToken, tokenHash)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAdminRefreshTokens = `-- name: DeleteAdminRefreshTokens :execrows
DELETE FROM refresh_tokens WHERE admin_id = ?`

func (q *Queries) DeleteAdminRefreshTokens(ctx context.Context, adminID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAdminRefreshTokens, adminID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpiredRefreshTokens = `-- name: DeleteExpiredRefreshTokens :execrows
DELETE FROM refresh_tokens WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredRefreshTokens, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countAdminRefreshTokens = `-- name: CountAdminRefreshTokens :one
SELECT COUNT(*) FROM refresh_tokens WHERE admin_id = ?`

func (q *Queries) CountAdminRefreshTokens(ctx context.Context, adminID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countAdminRefreshTokens, adminID).Scan(&count)
	return count, err
}
