// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/content"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

// PageSeoRequest is the body of page SEO create and update requests.
type PageSeoRequest struct {
	Page          string   `json:"page" validate:"required,max=64"`
	Title         string   `json:"title" validate:"max=70"`
	Description   string   `json:"description" validate:"max=160"`
	Keywords      []string `json:"keywords" validate:"max=30,dive,max=50"`
	OgTitle       string   `json:"ogTitle" validate:"max=95"`
	OgDescription string   `json:"ogDescription" validate:"max=200"`
	OgImage       string   `json:"ogImage" validate:"max=500"`
	Canonical     string   `json:"canonical" validate:"omitempty,url"`
	NoIndex       bool     `json:"noIndex"`
}

func pageSeoRequestFrom(p store.PageSeo) PageSeoRequest {
	return PageSeoRequest{
		Page:          p.Page,
		Title:         p.Title,
		Description:   p.Description,
		Keywords:      p.Keywords,
		OgTitle:       p.OgTitle,
		OgDescription: p.OgDescription,
		OgImage:       p.OgImage,
		Canonical:     p.Canonical,
		NoIndex:       p.NoIndex,
	}
}

// params normalizes the page name the same way content pages are named.
func (req PageSeoRequest) params() (store.PageSeoParams, error) {
	page, err := content.NormalizeName(req.Page)
	if err != nil {
		return store.PageSeoParams{}, err
	}
	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return store.PageSeoParams{
		Page:          page,
		Title:         req.Title,
		Description:   req.Description,
		Keywords:      keywords,
		OgTitle:       req.OgTitle,
		OgDescription: req.OgDescription,
		OgImage:       req.OgImage,
		Canonical:     req.Canonical,
		NoIndex:       req.NoIndex,
	}, nil
}

// checkPageUnique writes a 400 when another record already covers page.
func (h *Handler) checkPageUnique(w http.ResponseWriter, r *http.Request, page string, excludeID int64) bool {
	exists, err := h.queries.PageSeoPageExists(r.Context(), page, excludeID)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return false
	}
	if exists {
		WriteValidationError(w, fieldError("page", "SEO settings for this page already exist"))
		return false
	}
	return true
}

// ListPageSeo handles GET /api/page-seo.
func (h *Handler) ListPageSeo(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "asc")

	items, total, err := h.queries.ListPageSeo(r.Context(), lq.Params())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetPageSeo handles GET /api/page-seo/{id}.
func (h *Handler) GetPageSeo(w http.ResponseWriter, r *http.Request) {
	_, p, ok := requireEntityByID(h, w, r, "page SEO", func(id int64) (store.PageSeo, error) {
		return h.queries.GetPageSeoByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, p)
}

// GetPageSeoByPage handles GET /api/page-seo/page/{page}.
func (h *Handler) GetPageSeoByPage(w http.ResponseWriter, r *http.Request) {
	page, err := content.NormalizeName(chi.URLParam(r, "page"))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	p, err := h.queries.GetPageSeoByPage(r.Context(), page)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Page SEO not found")
			return
		}
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, p)
}

// CreatePageSeo handles POST /api/page-seo.
func (h *Handler) CreatePageSeo(w http.ResponseWriter, r *http.Request) {
	var req PageSeoRequest
	if !h.bind(w, r, &req) {
		return
	}

	params, err := req.params()
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	if !h.checkPageUnique(w, r, params.Page, 0) {
		return
	}

	p, err := h.queries.CreatePageSeo(r.Context(), params, h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("page SEO created", "page", p.Page)
	WriteCreated(w, p, "Page SEO created")
}

// UpdatePageSeo handles PUT /api/page-seo/{id}.
func (h *Handler) UpdatePageSeo(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "page SEO", func(id int64) (store.PageSeo, error) {
		return h.queries.GetPageSeoByID(r.Context(), id)
	})
	if !ok {
		return
	}

	req := pageSeoRequestFrom(existing)
	if !h.bind(w, r, &req) {
		return
	}

	params, err := req.params()
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	if params.Page != existing.Page && !h.checkPageUnique(w, r, params.Page, id) {
		return
	}

	p, err := h.queries.UpdatePageSeo(r.Context(), id, params, h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("page SEO updated", "page", p.Page)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: p, Message: "Page SEO updated"})
}

// DeletePageSeo handles DELETE /api/page-seo/{id}.
func (h *Handler) DeletePageSeo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "page SEO", func(id int64) (int64, error) {
		return h.queries.DeletePageSeo(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("page SEO deleted", "page_seo_id", id)
	WriteMessage(w, "Page SEO deleted")
}
