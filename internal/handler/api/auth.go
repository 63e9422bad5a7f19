// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/sitecms-go/internal/auth"
	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/session"
	"github.com/olegiv/sitecms-go/internal/store"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgForgotPassword     = "If an account with that email exists, a password reset link has been sent"
	msgResetTokenInvalid  = "Invalid or expired reset token"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Admin        store.Admin `json:"admin"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the body of PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,role"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *ForgotPasswordRequest) normalize() { r.Email = normalizeEmail(r.Email) }

func (r *RegisterRequest) normalize() { r.Email = normalizeEmail(r.Email) }

func (h *Handler) clientInfo(r *http.Request) session.ClientInfo {
	return session.ClientInfo{
		UserAgent: r.UserAgent(),
		IP:        middleware.ClientIP(r, h.trustProxy),
	}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "Please provide email and password")
		return
	}

	ctx := r.Context()
	email := normalizeEmail(req.Email)
	log := h.logger.With("category", model.EventCategoryAuth, "email", email, "ip", middleware.ClientIP(r, h.trustProxy))

	if h.loginGuard != nil {
		if locked, remaining := h.loginGuard.IsLocked(email); locked {
			log.Warn("login attempt on locked account")
			WriteError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Account temporarily locked. Try again in %s", formatDuration(remaining)), nil)
			return
		}
	}

	admin, err := h.queries.GetAdminByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.WriteServiceError(w, r, err)
			return
		}
		// Unknown emails cost the same as known ones.
		auth.BurnPasswordCheck(req.Password)
		log.Warn("login failed: unknown email")
		h.loginFailed(w, email)
		return
	}

	valid, err := auth.CheckPassword(req.Password, admin.PasswordHash)
	if err != nil {
		log.Error("password check error", "error", err, "admin_id", admin.ID)
	}
	if !valid {
		log.Warn("login failed: invalid password", "admin_id", admin.ID)
		h.loginFailed(w, email)
		return
	}

	if !admin.IsActive {
		log.Warn("login failed: account deactivated", "admin_id", admin.ID)
		WriteUnauthorized(w, "Account is deactivated")
		return
	}

	if h.loginGuard != nil {
		h.loginGuard.RecordSuccess(email)
	}

	now := h.now()
	if auth.NeedsRehash(admin.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateAdminPassword(ctx, admin.ID, newHash, now); err != nil {
				log.Error("failed to re-hash password", "error", err, "admin_id", admin.ID)
			} else {
				log.Info("password re-hashed with updated parameters", "admin_id", admin.ID)
			}
		}
	}

	if err := h.queries.UpdateAdminLastLogin(ctx, admin.ID, now); err != nil {
		log.Error("failed to update last login time", "error", err, "admin_id", admin.ID)
	} else {
		admin.LastLoginAt = &now
	}

	pair, err := h.sessions.Issue(ctx, admin, h.clientInfo(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	log.Info("admin logged in", "admin_id", admin.ID, "audit", true)
	WriteSuccess(w, LoginResponse{
		Admin:        admin,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// loginFailed records a failed attempt and writes the matching response.
func (h *Handler) loginFailed(w http.ResponseWriter, email string) {
	if h.loginGuard != nil {
		if locked, lockFor := h.loginGuard.RecordFailure(email); locked {
			WriteError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Too many failed attempts. Try again in %s", formatDuration(lockFor)), nil)
			return
		}
	}
	WriteUnauthorized(w, msgInvalidCredentials)
}

// RefreshToken handles POST /api/auth/refresh-token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.bind(w, r, &req) {
		return
	}

	pair, admin, err := h.sessions.Rotate(r.Context(), req.RefreshToken, h.clientInfo(r))
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			h.logger.Warn("refresh token rejected",
				"category", model.EventCategorySecurity, "ip", middleware.ClientIP(r, h.trustProxy))
		}
		h.WriteServiceError(w, r, err)
		return
	}

	h.logger.Debug("session rotated", "admin_id", admin.ID)
	WriteSuccess(w, pair)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken != "" {
		if err := h.sessions.Revoke(r.Context(), req.RefreshToken); err != nil {
			h.WriteServiceError(w, r, err)
			return
		}
	}

	if admin := middleware.GetPrincipal(r); admin != nil {
		h.auditLog(r, model.EventCategoryAuth).Info("admin logged out")
	}
	WriteMessage(w, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetPrincipal(r)
	if admin == nil {
		WriteUnauthorized(w, middleware.MsgNotAuthorized)
		return
	}
	WriteSuccess(w, admin)
}

// ChangePassword handles PUT /api/auth/password. Every session of the admin
// is revoked and a fresh pair is returned for the caller.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetPrincipal(r)
	if admin == nil {
		WriteUnauthorized(w, middleware.MsgNotAuthorized)
		return
	}

	var req ChangePasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	valid, _ := auth.CheckPassword(req.CurrentPassword, admin.PasswordHash)
	if !valid {
		WriteValidationError(w, fieldError("currentPassword", "Current password is incorrect"))
		return
	}

	if err := h.setPassword(r.Context(), admin.ID, req.NewPassword); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	pair, err := h.sessions.Issue(r.Context(), *admin, h.clientInfo(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryAuth).Info("password changed")
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: pair, Message: "Password updated successfully"})
}

// setPassword stores a new hash and revokes every refresh token of the admin.
func (h *Handler) setPassword(ctx context.Context, adminID int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := h.queries.UpdateAdminPassword(ctx, adminID, hash, h.now()); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := h.sessions.RevokeAll(ctx, adminID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	return nil
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is the
// same whether or not the email belongs to an account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	if err := h.startPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("password reset request failed", "error", err, "category", model.EventCategoryAuth)
	}
	WriteMessage(w, msgForgotPassword)
}

func (h *Handler) startPasswordReset(ctx context.Context, email string) error {
	admin, err := h.queries.GetAdminByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		h.logger.Info("password reset requested for unknown email", "category", model.EventCategoryAuth)
		return nil
	}
	if err != nil {
		return err
	}
	if !admin.IsActive {
		return nil
	}

	now := h.now()
	tok, err := auth.NewResetToken(now)
	if err != nil {
		return err
	}
	if err := h.queries.SetAdminResetToken(ctx, store.SetAdminResetTokenParams{
		ID:        admin.ID,
		TokenHash: tok.Hash,
		ExpiresAt: tok.ExpiresAt,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("storing reset token: %w", err)
	}

	h.logger.Info("password reset requested", "category", model.EventCategoryAuth, "admin_id", admin.ID, "audit", true)
	// Delivery happens after the reply so known and unknown emails answer alike.
	if h.mailer.Enabled() {
		go h.sendPasswordReset(context.WithoutCancel(ctx), admin, tok.Plain)
	}
	return nil
}

func (h *Handler) sendPasswordReset(ctx context.Context, admin store.Admin, token string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := h.mailer.SendPasswordReset(ctx, admin.Email, admin.Name, token, formatDuration(auth.ResetTokenTTL)); err != nil {
		h.logger.Warn("password reset email failed",
			"category", model.EventCategoryAuth, "admin_id", admin.ID, "error", err)
	}
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	ctx := r.Context()
	admin, err := h.queries.GetAdminByResetToken(ctx, auth.HashResetToken(req.Token), h.now())
	if errors.Is(err, sql.ErrNoRows) {
		WriteBadRequest(w, msgResetTokenInvalid)
		return
	}
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	if err := h.setPassword(ctx, admin.ID, req.Password); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.logger.Info("password reset completed", "category", model.EventCategoryAuth, "admin_id", admin.ID, "audit", true)
	WriteMessage(w, "Password reset successfully")
}

// Register handles POST /api/auth/register. Only admins reach it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}

	ctx := r.Context()
	email := normalizeEmail(req.Email)
	if _, err := h.queries.GetAdminByEmail(ctx, email); err == nil {
		WriteValidationError(w, fieldError("email", "Email already registered"))
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.WriteServiceError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleEditor
	}

	now := h.now()
	admin, err := h.queries.CreateAdmin(ctx, store.CreateAdminParams{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryAuth).Info("admin registered", "new_admin_id", admin.ID, "role", role)
	WriteCreated(w, admin, "Admin created")
}

// formatDuration renders a lockout or validity period for messages.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
