// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/sitecms-go/internal/auth"
)

// SeedConfig describes the initial administrator.
type SeedConfig struct {
	Email    string
	Password string // generated and logged once when empty
	Name     string
}

// Seed creates the initial admin account when no admin with that email exists yet.
func Seed(ctx context.Context, db *sql.DB, cfg SeedConfig) error {
	queries := New(db)
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	_, err := queries.GetAdminByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	password := cfg.Password
	generated := password == ""
	if generated {
		b := make([]byte, 12)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generating admin password: %w", err)
		}
		password = base64.RawURLEncoding.EncodeToString(b)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         cfg.Name,
		Role:         "admin",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		// Info level keeps the password out of the persisted event log.
		slog.Info("created initial admin with a generated password; change it after first login",
			"id", admin.ID,
			"email", admin.Email,
			"password", password,
		)
	} else {
		slog.Info("created initial admin", "id", admin.ID, "email", admin.Email)
	}

	return nil
}
