// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/olegiv/sitecms-go/internal/session"
	"github.com/olegiv/sitecms-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyPrincipal holds the authenticated *store.Admin.
const ContextKeyPrincipal ContextKey = "principal"

// Messages returned by the authorization gate.
const (
	MsgNoToken         = "Not authorized, no token"
	MsgInvalidToken    = "Invalid token"
	MsgTokenExpired    = "Token expired"
	MsgPrincipalGone   = "Not authorized, account not found or inactive"
	MsgNotAuthorized   = "Not authorized"
	MsgForbiddenRole   = "Forbidden: insufficient permissions"
	msgInternalFailure = "Internal server error"
)

// TokenParser verifies access tokens. *session.Manager implements it.
type TokenParser interface {
	ParseAccessToken(raw string) (*session.Claims, error)
}

// PrincipalLoader loads admins by id. *store.Queries implements it.
type PrincipalLoader interface {
	GetAdminByID(ctx context.Context, id int64) (store.Admin, error)
}

// errAuth carries the status and message of a rejected authentication.
type errAuth struct {
	status  int
	message string
	cause   error
}

func (e *errAuth) Error() string { return e.message }

func (e *errAuth) Unwrap() error { return e.cause }

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func authenticate(r *http.Request, tokens TokenParser, principals PrincipalLoader) (*store.Admin, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, &errAuth{status: http.StatusUnauthorized, message: MsgNoToken}
	}

	claims, err := tokens.ParseAccessToken(raw)
	switch {
	case errors.Is(err, session.ErrTokenExpired):
		return nil, &errAuth{status: http.StatusUnauthorized, message: MsgTokenExpired, cause: err}
	case err != nil:
		return nil, &errAuth{status: http.StatusUnauthorized, message: MsgInvalidToken, cause: err}
	}

	admin, err := principals.GetAdminByID(r.Context(), claims.AdminID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !admin.IsActive) {
		return nil, &errAuth{status: http.StatusUnauthorized, message: MsgPrincipalGone}
	}
	if err != nil {
		return nil, &errAuth{status: http.StatusInternalServerError, message: msgInternalFailure, cause: err}
	}
	return &admin, nil
}

// Authenticate creates middleware that requires a valid bearer access token
// and attaches the token's admin to the request context.
func Authenticate(tokens TokenParser, principals PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := authenticate(r, tokens, principals)
			if err != nil {
				var ae *errAuth
				errors.As(err, &ae)
				if ae.status == http.StatusInternalServerError {
					slog.Error("loading principal failed", "error", ae.cause, "path", r.URL.Path)
				}
				writeError(w, ae.status, ae.message)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), admin)))
		})
	}
}

// OptionalAuth attaches the admin when the request carries a valid token and
// otherwise continues anonymously. It never rejects a request.
func OptionalAuth(tokens TokenParser, principals PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if admin, err := authenticate(r, tokens, principals); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), admin))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that admits only principals whose role is
// one of roles. It must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := GetPrincipal(r)
			if admin == nil {
				writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
				return
			}

			if !slices.Contains(roles, admin.Role) {
				// Warn level lands in the persisted event log.
				slog.Warn("access denied",
					"category", "security",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"admin_id", admin.ID,
					"admin_role", admin.Role,
					"required_roles", strings.Join(roles, ","),
				)
				writeError(w, http.StatusForbidden, MsgForbiddenRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying admin.
func WithPrincipal(ctx context.Context, admin *store.Admin) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, admin)
}

// GetPrincipal returns the authenticated admin, or nil for anonymous requests.
func GetPrincipal(r *http.Request) *store.Admin {
	admin, _ := r.Context().Value(ContextKeyPrincipal).(*store.Admin)
	return admin
}

// GetPrincipalID returns a pointer to the authenticated admin's id, or nil.
func GetPrincipalID(r *http.Request) *int64 {
	admin := GetPrincipal(r)
	if admin == nil {
		return nil
	}
	id := admin.ID
	return &id
}
