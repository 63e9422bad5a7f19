// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/util"
)

// CaseStudyMetric is one headline figure of a case study.
type CaseStudyMetric struct {
	Label string `json:"label" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=100"`
}

// CaseStudyRequest is the body of case study create and update requests.
// Updates decode over the stored values, so omitted fields are kept.
type CaseStudyRequest struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Slug         string            `json:"slug" validate:"omitempty,slug"`
	Client       string            `json:"client" validate:"required,max=100"`
	Industry     string            `json:"industry" validate:"max=100"`
	Summary      string            `json:"summary" validate:"required,max=500"`
	Challenge    string            `json:"challenge"`
	Solution     string            `json:"solution"`
	Results      string            `json:"results"`
	Metrics      []CaseStudyMetric `json:"metrics" validate:"max=10,dive"`
	Technologies []string          `json:"technologies" validate:"max=30,dive,required,max=50"`
	CoverImage   string            `json:"coverImage" validate:"max=500"`
	Gallery      []string          `json:"gallery" validate:"max=30,dive,required,max=500"`
	Testimonial  string            `json:"testimonial"`
	Status       string            `json:"status" validate:"omitempty,publish_status"`
	Featured     bool              `json:"featured"`
	Order        int64             `json:"order" validate:"gte=0"`
}

func caseStudyRequestFrom(cs store.CaseStudy) CaseStudyRequest {
	var metrics []CaseStudyMetric
	if len(cs.Metrics) > 0 {
		_ = json.Unmarshal(cs.Metrics, &metrics)
	}
	return CaseStudyRequest{
		Title:        cs.Title,
		Slug:         cs.Slug,
		Client:       cs.Client,
		Industry:     cs.Industry,
		Summary:      cs.Summary,
		Challenge:    cs.Challenge,
		Solution:     cs.Solution,
		Results:      cs.Results,
		Metrics:      metrics,
		Technologies: cs.Technologies,
		CoverImage:   cs.CoverImage,
		Gallery:      cs.Gallery,
		Testimonial:  cs.Testimonial,
		Status:       cs.Status,
		Featured:     cs.Featured,
		Order:        cs.SortOrder,
	}
}

func (req CaseStudyRequest) params() (store.CaseStudyParams, error) {
	metrics := req.Metrics
	if metrics == nil {
		metrics = []CaseStudyMetric{}
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return store.CaseStudyParams{}, err
	}
	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	return store.CaseStudyParams{
		Title:        strings.TrimSpace(req.Title),
		Slug:         req.Slug,
		Client:       req.Client,
		Industry:     req.Industry,
		Summary:      req.Summary,
		Challenge:    req.Challenge,
		Solution:     req.Solution,
		Results:      req.Results,
		Metrics:      raw,
		Technologies: req.Technologies,
		CoverImage:   req.CoverImage,
		Gallery:      req.Gallery,
		Testimonial:  req.Testimonial,
		Status:       status,
		Featured:     req.Featured,
		SortOrder:    req.Order,
	}, nil
}

// ListCaseStudies handles GET /api/case-studies.
// Anonymous callers only see published case studies.
func (h *Handler) ListCaseStudies(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "asc")
	q := r.URL.Query()

	params := store.ListCaseStudiesParams{
		ListParams: lq.Params(),
		Status:     q.Get("status"),
		Industry:   q.Get("industry"),
		Featured:   boolQuery(r, "featured"),
	}
	if !isAuthenticated(r) {
		params.Status = model.StatusPublished
	}

	items, total, err := h.queries.ListCaseStudies(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetCaseStudy handles GET /api/case-studies/{id}.
func (h *Handler) GetCaseStudy(w http.ResponseWriter, r *http.Request) {
	_, cs, ok := requireEntityByID(h, w, r, "case study", func(id int64) (store.CaseStudy, error) {
		return h.queries.GetCaseStudyByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, cs)
}

// GetCaseStudyBySlug handles GET /api/case-studies/slug/{slug}.
func (h *Handler) GetCaseStudyBySlug(w http.ResponseWriter, r *http.Request) {
	cs, err := h.queries.GetCaseStudyBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !isAuthenticated(r) && cs.Status != model.StatusPublished) {
		WriteNotFound(w, "Case study not found")
		return
	}
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cs)
}

// CreateCaseStudy handles POST /api/case-studies.
func (h *Handler) CreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req CaseStudyRequest
	if !h.bind(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if req.Slug == "" {
		WriteValidationError(w, fieldError("slug", "Could not generate a slug from the title"))
		return
	}
	if !h.checkSlugUnique(w, r, func() (bool, error) { return h.queries.CaseStudySlugExists(ctx, req.Slug, 0) }) {
		return
	}

	arg, err := req.params()
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	now := h.now()
	arg.PublishedAt = publishedAt(arg.Status, nil, now)

	cs, err := h.queries.CreateCaseStudy(ctx, arg, now)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("case study created", "case_study_id", cs.ID, "slug", cs.Slug)
	WriteCreated(w, cs, "Case study created")
}

// UpdateCaseStudy handles PUT /api/case-studies/{id}.
func (h *Handler) UpdateCaseStudy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, existing, ok := requireEntityByID(h, w, r, "case study", func(id int64) (store.CaseStudy, error) {
		return h.queries.GetCaseStudyByID(ctx, id)
	})
	if !ok {
		return
	}

	req := caseStudyRequestFrom(existing)
	if !h.bind(w, r, &req) {
		return
	}
	if req.Slug == "" {
		req.Slug = existing.Slug
	}
	if req.Slug != existing.Slug {
		if !h.checkSlugUnique(w, r, func() (bool, error) { return h.queries.CaseStudySlugExists(ctx, req.Slug, id) }) {
			return
		}
	}

	arg, err := req.params()
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	now := h.now()
	arg.PublishedAt = publishedAt(arg.Status, existing.PublishedAt, now)

	cs, err := h.queries.UpdateCaseStudy(ctx, id, arg, now)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("case study updated", "case_study_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: cs, Message: "Case study updated"})
}

// DeleteCaseStudy handles DELETE /api/case-studies/{id}.
func (h *Handler) DeleteCaseStudy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "case study", func(id int64) (int64, error) {
		return h.queries.DeleteCaseStudy(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("case study deleted", "case_study_id", id)
	WriteMessage(w, "Case study deleted")
}
