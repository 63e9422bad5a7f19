// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides REST API handlers for the CMS.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/cache"
	"github.com/olegiv/sitecms-go/internal/content"
	"github.com/olegiv/sitecms-go/internal/geoip"
	"github.com/olegiv/sitecms-go/internal/logging"
	"github.com/olegiv/sitecms-go/internal/mail"
	"github.com/olegiv/sitecms-go/internal/media"
	"github.com/olegiv/sitecms-go/internal/metrics"
	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/session"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/validation"
)

// maxJSONBody caps request bodies decoded by decodeJSON.
const maxJSONBody = 1 << 20

// Deps holds everything the API handlers need. Optional collaborators
// (Mailer, GeoIP, Metrics, Cache, LoginGuard) may be nil.
type Deps struct {
	DB            *sql.DB
	Sessions      *session.Manager
	Content       *content.Service
	Media         *media.Storage
	Mailer        *mail.Mailer
	GeoIP         *geoip.Lookup
	Metrics       *metrics.Metrics
	Cache         cache.Cache
	CacheTTL      time.Duration
	LoginGuard    *middleware.LoginGuard
	Logger        *slog.Logger
	TrustProxy    bool
	IsDevelopment bool
	SiteName      string
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db            *sql.DB
	queries       *store.Queries
	sessions      *session.Manager
	content       *content.Service
	media         *media.Storage
	mailer        *mail.Mailer
	geoip         *geoip.Lookup
	metrics       *metrics.Metrics
	settings      *cache.Typed[store.Setting]
	loginGuard    *middleware.LoginGuard
	validator     *validation.Validator
	logger        *slog.Logger
	trustProxy    bool
	isDevelopment bool
	siteName      string
	now           func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:            d.DB,
		queries:       store.New(d.DB),
		sessions:      d.Sessions,
		content:       d.Content,
		media:         d.Media,
		mailer:        d.Mailer,
		geoip:         d.GeoIP,
		metrics:       d.Metrics,
		settings:      cache.NewTyped[store.Setting](d.Cache, settingsCacheNamespace, d.CacheTTL, logger),
		loginGuard:    d.LoginGuard,
		validator:     validation.New(),
		logger:        logger,
		trustProxy:    d.TrustProxy,
		isDevelopment: d.IsDevelopment,
		siteName:      d.SiteName,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Response is the envelope every API response uses.
type Response struct {
	Success    bool                    `json:"success"`
	Data       any                     `json:"data,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Pagination *Pagination             `json:"pagination,omitempty"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response carrying data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteList writes a 200 response carrying one page of items.
func WriteList(w http.ResponseWriter, items any, p *Pagination) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: items, Pagination: p})
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// WriteMessage writes a 200 response with only a message.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string, errs []validation.FieldError) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message, Errors: errs})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, nil)
}

// WriteValidationError writes a 400 response listing field errors.
func WriteValidationError(w http.ResponseWriter, errs []validation.FieldError) {
	WriteError(w, http.StatusBadRequest, "Validation failed", errs)
}

// fieldError builds a single-field validation failure.
func fieldError(field, message string) validation.Errors {
	return validation.Errors{{Field: field, Message: message}}
}

// WriteServiceError translates an error from a service or the store into the
// matching response. Unknown errors are logged and reported as 500; their
// text is only shown in development.
func (h *Handler) WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	var cerr *content.ValidationError

	switch {
	case errors.As(err, &verrs):
		WriteValidationError(w, verrs)
	case errors.As(err, &cerr):
		WriteError(w, http.StatusBadRequest, cerr.Message, []validation.FieldError{{Field: cerr.Field, Message: cerr.Message}})
	case errors.Is(err, content.ErrPageNotFound):
		WriteNotFound(w, "Page not found")
	case errors.Is(err, content.ErrSectionNotFound):
		WriteNotFound(w, "Section not found")
	case errors.Is(err, session.ErrInvalidRefreshToken):
		WriteUnauthorized(w, "Invalid or expired refresh token")
	case errors.Is(err, media.ErrTooLarge):
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("File too large. Maximum size is %d bytes", h.media.MaxSize()),
			[]validation.FieldError{{Field: "file", Message: "File too large"}})
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmptyFile), errors.Is(err, media.ErrInvalidFolder):
		WriteError(w, http.StatusBadRequest, capitalizeFirst(err.Error()), nil)
	case errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, "Resource not found")
	default:
		h.logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		message := "Server error"
		if h.isDevelopment {
			message = err.Error()
		}
		WriteError(w, http.StatusInternalServerError, message, nil)
	}
}

// decodeJSON reads the request body into dst. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			WriteBadRequest(w, "Request body too large")
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is required")
		default:
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}
	return true
}

// normalizer is implemented by request bodies that clean their fields before
// validation.
type normalizer interface {
	normalize()
}

// bind decodes and validates a request body. It writes the error response and
// returns false when either step fails.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := h.validator.Struct(dst); err != nil {
		h.WriteServiceError(w, r, err)
		return false
	}
	return true
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if error (response written).
// The entityName is used for error messages (e.g., "blog", "client", "media").
func requireEntityByID[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (int64, T, bool) {
	var zero T

	id, err := parseID(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return 0, zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			h.WriteServiceError(w, r, err)
		}
		return 0, zero, false
	}

	return id, entity, true
}

// deleteByID parses the ID, runs del and reports 404 when nothing was removed.
func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, entityName string, del func(id int64) (int64, error)) (int64, bool) {
	id, err := parseID(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return 0, false
	}

	n, err := del(id)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return 0, false
	}
	if n == 0 {
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		return 0, false
	}
	return id, true
}

// SlugExistsChecker reports whether a slug is taken by another record.
type SlugExistsChecker func() (bool, error)

// checkSlugUnique writes a 400 and returns false when the slug is taken.
func (h *Handler) checkSlugUnique(w http.ResponseWriter, r *http.Request, slugExists SlugExistsChecker) bool {
	exists, err := slugExists()
	if err != nil {
		h.WriteServiceError(w, r, err)
		return false
	}
	if exists {
		WriteValidationError(w, fieldError("slug", "Slug already exists"))
		return false
	}
	return true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// principalID returns the authenticated admin's id, or nil.
func principalID(r *http.Request) *int64 {
	return middleware.GetPrincipalID(r)
}

// isAuthenticated reports whether OptionalAuth attached a principal.
func isAuthenticated(r *http.Request) bool {
	return middleware.GetPrincipal(r) != nil
}

// auditLog returns a logger whose records are persisted to the event log.
func (h *Handler) auditLog(r *http.Request, category string) *slog.Logger {
	l := h.logger.With(logging.KeyCategory, category, logging.KeyAudit, true)
	if id := principalID(r); id != nil {
		l = l.With(logging.KeyAdminID, *id)
	}
	return l
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// orEmpty returns a non-nil list.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
