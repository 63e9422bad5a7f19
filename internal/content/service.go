// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content manages per-page content documents: a free-form map of
// named JSON sections plus an SEO object, with hardcoded default templates
// standing in for pages that were never saved.
package content

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/olegiv/sitecms-go/internal/cache"
	"github.com/olegiv/sitecms-go/internal/store"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrPageNotFound is returned when a page document does not exist.
	ErrPageNotFound = errors.New("page not found")
	// ErrSectionNotFound is returned when a section key does not exist.
	ErrSectionNotFound = errors.New("section not found")
)

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	pageNamePattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	sectionKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// CacheNamespace prefixes content page cache keys.
const CacheNamespace = "content"

// Store is the persistence the service depends on. *store.Queries implements it.
type Store interface {
	GetContentPage(ctx context.Context, page string) (store.ContentPage, error)
	ListContentPageNames(ctx context.Context) ([]string, error)
	UpsertContentPage(ctx context.Context, arg store.UpsertContentPageParams) (store.ContentPage, error)
	SetContentSection(ctx context.Context, arg store.SetContentSectionParams) (store.ContentPage, error)
	RemoveContentSection(ctx context.Context, arg store.RemoveContentSectionParams) (int64, error)
	CreateContentPageIfMissing(ctx context.Context, arg store.CreateContentPageIfMissingParams) (int64, error)
}

// Page is a content document as returned to clients.
type Page struct {
	Page      string                     `json:"page"`
	Sections  map[string]json.RawMessage `json:"sections"`
	SEO       json.RawMessage            `json:"seo"`
	IsDefault bool                       `json:"isDefault"`
	UpdatedBy *int64                     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time                 `json:"updatedAt,omitempty"`
}

// Summary is one entry of the page index.
type Summary struct {
	Page        string     `json:"page"`
	Exists      bool       `json:"exists"`
	HasDefaults bool       `json:"hasDefaults"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PutPageInput replaces whichever top-level keys are provided.
type PutPageInput struct {
	Sections json.RawMessage `json:"sections"`
	SEO      json.RawMessage `json:"seo"`
}

// Service implements content reads and writes.
type Service struct {
	store  Store
	pages  *cache.Typed[Page]
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a content service. c may be nil to disable caching.
func NewService(st Store, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		pages:  cache.NewTyped[Page](c, CacheNamespace, ttl, logger),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeName lowercases and trims a page name and checks its shape.
func NormalizeName(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !pageNamePattern.MatchString(n) {
		return "", invalid("page", "invalid page name %q", name)
	}
	return n, nil
}

func validateSectionKey(section string) error {
	if !sectionKeyPattern.MatchString(section) {
		return invalid("section", "invalid section name %q", section)
	}
	return nil
}

// GetPage returns the stored document for name, or the default template
// marked IsDefault when nothing is stored. Unknown pages without a template
// yield an empty default document rather than an error.
func (s *Service) GetPage(ctx context.Context, name string) (Page, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return Page{}, err
	}
	return s.pages.GetOrLoad(ctx, page, func(ctx context.Context) (Page, error) {
		return s.load(ctx, page)
	})
}

func (s *Service) load(ctx context.Context, page string) (Page, error) {
	row, err := s.store.GetContentPage(ctx, page)
	if errors.Is(err, sql.ErrNoRows) {
		sections := defaultSections(page)
		if sections == nil {
			sections = map[string]json.RawMessage{}
		}
		return Page{Page: page, Sections: sections, SEO: json.RawMessage(`{}`), IsDefault: true}, nil
	}
	if err != nil {
		return Page{}, fmt.Errorf("loading content page %s: %w", page, err)
	}
	return fromRow(row)
}

func fromRow(row store.ContentPage) (Page, error) {
	sections := map[string]json.RawMessage{}
	if raw := store.JSONOr(row.Sections, "{}"); len(raw) > 0 {
		if err := json.Unmarshal(raw, &sections); err != nil {
			return Page{}, fmt.Errorf("decoding sections of %s: %w", row.Page, err)
		}
	}
	updatedAt := row.UpdatedAt
	return Page{
		Page:      row.Page,
		Sections:  sections,
		SEO:       json.RawMessage(store.JSONOr(row.Seo, "{}")),
		UpdatedBy: row.UpdatedBy,
		UpdatedAt: &updatedAt,
	}, nil
}

// GetSection returns one section value. A key missing from the stored
// document falls back to the default template; only a key absent from both
// is ErrSectionNotFound.
func (s *Service) GetSection(ctx context.Context, name, section string) (json.RawMessage, error) {
	if err := validateSectionKey(section); err != nil {
		return nil, err
	}
	page, err := s.GetPage(ctx, name)
	if err != nil {
		return nil, err
	}
	if v, ok := page.Sections[section]; ok {
		return v, nil
	}
	if v, ok := defaultSection(page.Page, section); ok {
		return v, nil
	}
	return nil, ErrSectionNotFound
}

// PutPage replaces the provided top-level keys of a page, creating it if
// needed. Sections are replaced as a whole map, never merged per key.
func (s *Service) PutPage(ctx context.Context, name string, in PutPageInput, updatedBy *int64) (Page, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return Page{}, err
	}

	var sections, seo store.RawJSON
	if present(in.Sections) {
		if sections, err = sectionsDocument(in.Sections); err != nil {
			return Page{}, err
		}
	}
	if present(in.SEO) {
		if seo, err = seoDocument(in.SEO); err != nil {
			return Page{}, err
		}
	}
	if sections == nil && seo == nil {
		return Page{}, invalid("sections", "sections or seo is required")
	}

	row, err := s.store.UpsertContentPage(ctx, store.UpsertContentPageParams{
		Page:      page,
		Sections:  sections,
		Seo:       seo,
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("saving content page %s: %w", page, err)
	}
	s.pages.Invalidate(ctx, page)
	return fromRow(row)
}

// PutSection writes a single section, leaving every other section untouched.
func (s *Service) PutSection(ctx context.Context, name, section string, value json.RawMessage, updatedBy *int64) (Page, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return Page{}, err
	}
	if err := validateSectionKey(section); err != nil {
		return Page{}, err
	}
	if !present(value) {
		return Page{}, invalid("value", "section value is required")
	}
	if !json.Valid(value) {
		return Page{}, invalid("value", "section value must be valid JSON")
	}

	row, err := s.store.SetContentSection(ctx, store.SetContentSectionParams{
		Page:      page,
		Section:   section,
		Value:     store.RawJSON(compact(value)),
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("saving section %s/%s: %w", page, section, err)
	}
	s.pages.Invalidate(ctx, page)
	return fromRow(row)
}

// DeleteSection removes a section key from a stored page. It never creates
// the page.
func (s *Service) DeleteSection(ctx context.Context, name, section string, updatedBy *int64) error {
	page, err := NormalizeName(name)
	if err != nil {
		return err
	}
	if err := validateSectionKey(section); err != nil {
		return err
	}

	n, err := s.store.RemoveContentSection(ctx, store.RemoveContentSectionParams{
		Page:      page,
		Section:   section,
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("deleting section %s/%s: %w", page, section, err)
	}
	if n > 0 {
		s.pages.Invalidate(ctx, page)
		return nil
	}

	if _, err := s.store.GetContentPage(ctx, page); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPageNotFound
		}
		return fmt.Errorf("loading content page %s: %w", page, err)
	}
	return ErrSectionNotFound
}

// ResetPage overwrites a page with its default template and an empty SEO object.
func (s *Service) ResetPage(ctx context.Context, name string, updatedBy *int64) (Page, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return Page{}, err
	}
	sections := defaultSections(page)
	if len(sections) == 0 {
		return Page{}, invalid("page", "no defaults available for page %q", page)
	}

	doc, err := json.Marshal(sections)
	if err != nil {
		return Page{}, err
	}
	row, err := s.store.UpsertContentPage(ctx, store.UpsertContentPageParams{
		Page:      page,
		Sections:  doc,
		Seo:       store.RawJSON(`{}`),
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("resetting content page %s: %w", page, err)
	}
	s.pages.Invalidate(ctx, page)
	return fromRow(row)
}

// InitializeAll creates every default page that is not stored yet and
// returns the names it created. Existing pages are never touched.
func (s *Service) InitializeAll(ctx context.Context, updatedBy *int64) ([]string, error) {
	created := []string{}
	for _, page := range DefaultPages() {
		doc, err := json.Marshal(defaultSections(page))
		if err != nil {
			return created, err
		}
		n, err := s.store.CreateContentPageIfMissing(ctx, store.CreateContentPageIfMissingParams{
			Page:      page,
			Sections:  doc,
			UpdatedBy: updatedBy,
			CreatedAt: s.now(),
		})
		if err != nil {
			return created, fmt.Errorf("initializing content page %s: %w", page, err)
		}
		if n > 0 {
			created = append(created, page)
			s.pages.Invalidate(ctx, page)
		}
	}
	if len(created) > 0 {
		s.logger.Info("initialized content pages", "pages", created)
	}
	return created, nil
}

// DescribeStructure lists the sections of a page's default template in
// template order. Pages without a template have no structure.
func (s *Service) DescribeStructure(name string) ([]Field, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	tpl, ok := templates[page]
	if !ok {
		return []Field{}, nil
	}
	fields := make([]Field, 0, len(tpl.order))
	for _, key := range tpl.order {
		fields = append(fields, describe(key, tpl.sections[key]))
	}
	return fields, nil
}

// ListPages returns every stored page plus every page with a template,
// flagging which ones exist in the store.
func (s *Service) ListPages(ctx context.Context) ([]Summary, error) {
	stored, err := s.store.ListContentPageNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing content pages: %w", err)
	}

	byName := make(map[string]*Summary)
	for _, name := range DefaultPages() {
		byName[name] = &Summary{Page: name, HasDefaults: true}
	}
	for _, name := range stored {
		sum, ok := byName[name]
		if !ok {
			sum = &Summary{Page: name}
			byName[name] = sum
		}
		sum.Exists = true
	}

	out := make([]Summary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out, nil
}

// PutSEO replaces a page's SEO object, creating the page if needed.
func (s *Service) PutSEO(ctx context.Context, name string, seo json.RawMessage, updatedBy *int64) (Page, error) {
	page, err := NormalizeName(name)
	if err != nil {
		return Page{}, err
	}
	doc, err := seoDocument(seo)
	if err != nil {
		return Page{}, err
	}

	row, err := s.store.UpsertContentPage(ctx, store.UpsertContentPageParams{
		Page:      page,
		Seo:       doc,
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return Page{}, fmt.Errorf("saving seo for %s: %w", page, err)
	}
	s.pages.Invalidate(ctx, page)
	return fromRow(row)
}

// present reports whether v carries a value other than null.
func present(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

func sectionsDocument(v json.RawMessage) (store.RawJSON, error) {
	var sections map[string]json.RawMessage
	if KindOf(v) != KindObject || json.Unmarshal(v, &sections) != nil {
		return nil, invalid("sections", "sections must be a JSON object")
	}
	for key := range sections {
		if err := validateSectionKey(key); err != nil {
			return nil, err
		}
	}
	return store.RawJSON(compact(v)), nil
}

func seoDocument(v json.RawMessage) (store.RawJSON, error) {
	var seo map[string]json.RawMessage
	if KindOf(v) != KindObject || json.Unmarshal(v, &seo) != nil {
		return nil, invalid("seo", "seo must be a JSON object")
	}
	return store.RawJSON(compact(v)), nil
}
