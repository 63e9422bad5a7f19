// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

// TestimonialRequest is the body of testimonial create and update requests.
type TestimonialRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"max=100"`
	Company  string `json:"company" validate:"max=100"`
	Quote    string `json:"quote" validate:"required,max=1000"`
	Avatar   string `json:"avatar" validate:"max=500"`
	Rating   int64  `json:"rating" validate:"gte=1,lte=5"`
	Featured bool   `json:"featured"`
	IsActive bool   `json:"isActive"`
	Order    int64  `json:"order" validate:"gte=0"`
}

func newTestimonialRequest() TestimonialRequest {
	return TestimonialRequest{Rating: 5, IsActive: true}
}

func testimonialRequestFrom(t store.Testimonial) TestimonialRequest {
	return TestimonialRequest{
		Name:     t.Name,
		Role:     t.Role,
		Company:  t.Company,
		Quote:    t.Quote,
		Avatar:   t.Avatar,
		Rating:   t.Rating,
		Featured: t.Featured,
		IsActive: t.IsActive,
		Order:    t.SortOrder,
	}
}

func (req TestimonialRequest) params() store.TestimonialParams {
	return store.TestimonialParams{
		Name:      req.Name,
		Role:      req.Role,
		Company:   req.Company,
		Quote:     req.Quote,
		Avatar:    req.Avatar,
		Rating:    req.Rating,
		Featured:  req.Featured,
		IsActive:  req.IsActive,
		SortOrder: req.Order,
	}
}

// ListTestimonials handles GET /api/testimonials.
// Anonymous callers only see active testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "asc")

	params := store.ListTestimonialsParams{
		ListParams: lq.Params(),
		Featured:   boolQuery(r, "featured"),
		IsActive:   boolQuery(r, "isActive"),
	}
	if !isAuthenticated(r) {
		active := true
		params.IsActive = &active
	}

	items, total, err := h.queries.ListTestimonials(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetTestimonial handles GET /api/testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	_, t, ok := requireEntityByID(h, w, r, "testimonial", func(id int64) (store.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !t.IsActive && !isAuthenticated(r) {
		WriteNotFound(w, "Testimonial not found")
		return
	}
	WriteSuccess(w, t)
}

// CreateTestimonial handles POST /api/testimonials.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	req := newTestimonialRequest()
	if !h.bind(w, r, &req) {
		return
	}

	t, err := h.queries.CreateTestimonial(r.Context(), req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("testimonial created", "testimonial_id", t.ID)
	WriteCreated(w, t, "Testimonial created")
}

// UpdateTestimonial handles PUT /api/testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "testimonial", func(id int64) (store.Testimonial, error) {
		return h.queries.GetTestimonialByID(r.Context(), id)
	})
	if !ok {
		return
	}

	req := testimonialRequestFrom(existing)
	if !h.bind(w, r, &req) {
		return
	}

	t, err := h.queries.UpdateTestimonial(r.Context(), id, req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("testimonial updated", "testimonial_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: t, Message: "Testimonial updated"})
}

// DeleteTestimonial handles DELETE /api/testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "testimonial", func(id int64) (int64, error) {
		return h.queries.DeleteTestimonial(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("testimonial deleted", "testimonial_id", id)
	WriteMessage(w, "Testimonial deleted")
}
