// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session issues, verifies, rotates and revokes admin sessions: a
// stateless signed access token paired with a persisted, single-use refresh token.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/sitecms-go/internal/store"
)

var (
	// ErrInvalidRefreshToken is returned for unknown, expired, reused or orphaned refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrTokenInvalid is returned for access tokens with a bad signature or shape.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for correctly signed access tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Store is the credential storage the manager depends on. *store.Queries implements it.
type Store interface {
	CreateRefreshToken(ctx context.Context, arg store.CreateRefreshTokenParams) (store.RefreshToken, error)
	GetRefreshToken(ctx context.Context, tokenHash string) (store.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) (int64, error)
	DeleteAdminRefreshTokens(ctx context.Context, adminID int64) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
	GetAdminByID(ctx context.Context, id int64) (store.Admin, error)
}

// Config holds token signing settings and lifetimes.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Pair is what a successful login or refresh hands back to the client.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

// ClientInfo identifies the device a refresh token was issued to.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// Manager implements the session lifecycle.
type Manager struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// NewManager creates a session manager backed by st.
func NewManager(st Store, cfg Config) *Manager {
	return &Manager{
		store: st,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Issue mints a new access token and a new refresh token for admin. Only the
// refresh token's hash is persisted.
func (m *Manager) Issue(ctx context.Context, admin store.Admin, client ClientInfo) (Pair, error) {
	now := m.now()

	access, err := m.signAccessToken(admin.ID, admin.Role, now)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return Pair{}, err
	}

	if _, err := m.store.CreateRefreshToken(ctx, store.CreateRefreshTokenParams{
		TokenHash: hashRefreshToken(refresh),
		AdminID:   admin.ID,
		UserAgent: client.UserAgent,
		IP:        client.IP,
		ExpiresAt: now.Add(m.cfg.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		return Pair{}, fmt.Errorf("storing refresh token: %w", err)
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.cfg.AccessTTL / time.Second),
	}, nil
}

// Verify returns the owner of a refresh token. Tokens that are expired or whose
// owner is gone or deactivated are deleted before being rejected.
func (m *Manager) Verify(ctx context.Context, raw string) (store.Admin, error) {
	if raw == "" {
		return store.Admin{}, ErrInvalidRefreshToken
	}

	tok, err := m.store.GetRefreshToken(ctx, hashRefreshToken(raw))
	if errors.Is(err, sql.ErrNoRows) {
		return store.Admin{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return store.Admin{}, fmt.Errorf("loading refresh token: %w", err)
	}

	if !tok.ExpiresAt.After(m.now()) {
		return store.Admin{}, m.discard(ctx, raw)
	}

	admin, err := m.store.GetAdminByID(ctx, tok.AdminID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !admin.IsActive) {
		return store.Admin{}, m.discard(ctx, raw)
	}
	if err != nil {
		return store.Admin{}, fmt.Errorf("loading token owner: %w", err)
	}

	return admin, nil
}

// discard deletes a token that failed verification and reports the rejection.
func (m *Manager) discard(ctx context.Context, raw string) error {
	if _, err := m.store.DeleteRefreshToken(ctx, hashRefreshToken(raw)); err != nil {
		return fmt.Errorf("deleting rejected refresh token: %w", err)
	}
	return ErrInvalidRefreshToken
}

// Rotate exchanges a refresh token for a new pair. The old token is always
// deleted, and only the caller whose delete actually removed it receives a new
// pair, so a token can be redeemed at most once even by concurrent requests.
func (m *Manager) Rotate(ctx context.Context, raw string, client ClientInfo) (Pair, store.Admin, error) {
	admin, verifyErr := m.Verify(ctx, raw)

	removed, err := m.store.DeleteRefreshToken(ctx, hashRefreshToken(raw))
	if err != nil {
		return Pair{}, store.Admin{}, fmt.Errorf("deleting used refresh token: %w", err)
	}
	if verifyErr != nil {
		return Pair{}, store.Admin{}, verifyErr
	}
	if removed == 0 {
		return Pair{}, store.Admin{}, ErrInvalidRefreshToken
	}

	pair, err := m.Issue(ctx, admin, client)
	if err != nil {
		return Pair{}, store.Admin{}, err
	}
	return pair, admin, nil
}

// Revoke deletes a single refresh token. Unknown tokens are not an error.
func (m *Manager) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := m.store.DeleteRefreshToken(ctx, hashRefreshToken(raw)); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return nil
}

// RevokeAll deletes every refresh token owned by adminID.
func (m *Manager) RevokeAll(ctx context.Context, adminID int64) error {
	if _, err := m.store.DeleteAdminRefreshTokens(ctx, adminID); err != nil {
		return fmt.Errorf("revoking refresh tokens: %w", err)
	}
	return nil
}

// SweepExpired deletes every expired refresh token and returns how many were removed.
func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpiredRefreshTokens(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("sweeping expired refresh tokens: %w", err)
	}
	return n, nil
}
