// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/content"
	"github.com/olegiv/sitecms-go/internal/model"
)

// readRawJSON reads a request body that must be a single JSON value.
func readRawJSON(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteBadRequest(w, "Request body too large")
		} else {
			WriteBadRequest(w, "Invalid request body")
		}
		return nil, false
	}
	if len(body) == 0 {
		WriteBadRequest(w, "Request body is required")
		return nil, false
	}
	if !json.Valid(body) {
		WriteBadRequest(w, "Invalid JSON body")
		return nil, false
	}
	return body, true
}

// ListContent handles GET /api/content.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	pages, err := h.content.ListPages(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, pages)
}

// GetContentPage handles GET /api/content/{page}.
func (h *Handler) GetContentPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.GetPage(r.Context(), chi.URLParam(r, "page"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page)
}

// GetContentStructure handles GET /api/content/{page}/structure.
func (h *Handler) GetContentStructure(w http.ResponseWriter, r *http.Request) {
	fields, err := h.content.DescribeStructure(chi.URLParam(r, "page"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, fields)
}

// GetContentSection handles GET /api/content/{page}/{section}.
func (h *Handler) GetContentSection(w http.ResponseWriter, r *http.Request) {
	value, err := h.content.GetSection(r.Context(), chi.URLParam(r, "page"), chi.URLParam(r, "section"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, value)
}

// PutContentPage handles PUT /api/content/{page}.
func (h *Handler) PutContentPage(w http.ResponseWriter, r *http.Request) {
	var in content.PutPageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	page, err := h.content.PutPage(r.Context(), chi.URLParam(r, "page"), in, principalID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("content page updated", "page", page.Page)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: page, Message: "Content updated"})
}

// PutContentSEO handles PUT /api/content/{page}/seo.
func (h *Handler) PutContentSEO(w http.ResponseWriter, r *http.Request) {
	seo, ok := readRawJSON(w, r)
	if !ok {
		return
	}

	page, err := h.content.PutSEO(r.Context(), chi.URLParam(r, "page"), seo, principalID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("content seo updated", "page", page.Page)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: page, Message: "SEO updated"})
}

// PutContentSection handles PUT /api/content/{page}/{section}. The body is
// the new section value and replaces the old one as a whole.
func (h *Handler) PutContentSection(w http.ResponseWriter, r *http.Request) {
	value, ok := readRawJSON(w, r)
	if !ok {
		return
	}

	section := chi.URLParam(r, "section")
	page, err := h.content.PutSection(r.Context(), chi.URLParam(r, "page"), section, value, principalID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("content section updated", "page", page.Page, "section", section)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: page, Message: "Section updated"})
}

// DeleteContentSection handles DELETE /api/content/{page}/{section}.
func (h *Handler) DeleteContentSection(w http.ResponseWriter, r *http.Request) {
	name, section := chi.URLParam(r, "page"), chi.URLParam(r, "section")
	if err := h.content.DeleteSection(r.Context(), name, section, principalID(r)); err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("content section deleted", "page", name, "section", section)
	WriteMessage(w, "Section deleted")
}

// ResetContentPage handles POST /api/content/{page}/reset.
func (h *Handler) ResetContentPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.content.ResetPage(r.Context(), chi.URLParam(r, "page"), principalID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Warn("content page reset to defaults", "page", page.Page)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: page, Message: "Page reset to defaults"})
}

// InitializeContent handles POST /api/content/initialize.
func (h *Handler) InitializeContent(w http.ResponseWriter, r *http.Request) {
	created, err := h.content.InitializeAll(r.Context(), principalID(r))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("content pages initialized", "created", created)
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]any{"created": created},
		Message: "Content initialized",
	})
}
