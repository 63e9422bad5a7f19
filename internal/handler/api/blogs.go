// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitecms-go/internal/markup"
	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/util"
)

// CreateBlogRequest represents the request body for creating a blog post.
type CreateBlogRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"omitempty,slug"`
	Excerpt        string   `json:"excerpt" validate:"max=500"`
	Content        string   `json:"content" validate:"required"`
	CoverImage     string   `json:"coverImage" validate:"max=500"`
	Author         string   `json:"author" validate:"max=100"`
	Category       string   `json:"category" validate:"max=100"`
	Tags           []string `json:"tags" validate:"max=20,dive,required,max=50"`
	Status         string   `json:"status" validate:"omitempty,publish_status"`
	Featured       bool     `json:"featured"`
	SeoTitle       string   `json:"seoTitle" validate:"max=70"`
	SeoDescription string   `json:"seoDescription" validate:"max=160"`
}

// UpdateBlogRequest represents the request body for updating a blog post.
// Absent fields keep their stored values.
type UpdateBlogRequest struct {
	Title          *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Slug           *string   `json:"slug" validate:"omitempty,slug"`
	Excerpt        *string   `json:"excerpt" validate:"omitempty,max=500"`
	Content        *string   `json:"content" validate:"omitnil,min=1"`
	CoverImage     *string   `json:"coverImage" validate:"omitempty,max=500"`
	Author         *string   `json:"author" validate:"omitempty,max=100"`
	Category       *string   `json:"category" validate:"omitempty,max=100"`
	Tags           *[]string `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	Status         *string   `json:"status" validate:"omitempty,publish_status"`
	Featured       *bool     `json:"featured"`
	SeoTitle       *string   `json:"seoTitle" validate:"omitempty,max=70"`
	SeoDescription *string   `json:"seoDescription" validate:"omitempty,max=160"`
}

// publishedAt returns the publication stamp after a status change: set on
// first publish, kept afterwards.
func publishedAt(status string, current *time.Time, now time.Time) *time.Time {
	if current != nil {
		return current
	}
	if status == model.StatusPublished {
		return &now
	}
	return nil
}

// ListBlogs handles GET /api/blogs.
// Anonymous callers only see published posts.
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "desc")
	q := r.URL.Query()

	params := store.ListBlogsParams{
		ListParams: lq.Params(),
		Status:     q.Get("status"),
		Category:   q.Get("category"),
		Tag:        q.Get("tag"),
		Featured:   boolQuery(r, "featured"),
	}
	if !isAuthenticated(r) {
		params.Status = model.StatusPublished
	}

	blogs, total, err := h.queries.ListBlogs(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, blogs, lq.Paginate(total))
}

// ListBlogCategories handles GET /api/blogs/categories.
func (h *Handler) ListBlogCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListBlogCategories(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, orEmpty(categories))
}

// GetBlog handles GET /api/blogs/{id}.
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	_, blog, ok := requireEntityByID(h, w, r, "blog", func(id int64) (store.Blog, error) {
		return h.queries.GetBlogByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, blog)
}

// GetBlogBySlug handles GET /api/blogs/slug/{slug}. Anonymous reads only see
// published posts and count as a view.
func (h *Handler) GetBlogBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blog, err := h.queries.GetBlogBySlug(ctx, chi.URLParam(r, "slug"))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !isAuthenticated(r) && blog.Status != model.StatusPublished) {
		WriteNotFound(w, "Blog not found")
		return
	}
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	if !isAuthenticated(r) {
		if err := h.queries.IncrementBlogViews(ctx, blog.ID); err != nil {
			h.logger.Error("failed to increment blog views", "error", err, "blog_id", blog.ID)
		} else {
			blog.Views++
		}
	}
	WriteSuccess(w, blog)
}

// CreateBlog handles POST /api/blogs.
func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogRequest
	if !h.bind(w, r, &req) {
		return
	}

	ctx := r.Context()
	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if slug == "" {
		WriteValidationError(w, fieldError("slug", "Could not generate a slug from the title"))
		return
	}
	if !h.checkSlugUnique(w, r, func() (bool, error) { return h.queries.BlogSlugExists(ctx, slug, 0) }) {
		return
	}

	html, err := markup.Render(req.Content)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		if admin := middleware.GetPrincipal(r); admin != nil {
			author = admin.Name
		}
	}

	now := h.now()
	blog, err := h.queries.CreateBlog(ctx, store.CreateBlogParams{
		Title:          strings.TrimSpace(req.Title),
		Slug:           slug,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		ContentHTML:    html,
		CoverImage:     req.CoverImage,
		Author:         author,
		Category:       req.Category,
		Tags:           req.Tags,
		Status:         status,
		Featured:       req.Featured,
		ReadingTime:    int64(markup.ReadingTime(req.Content)),
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
		PublishedAt:    publishedAt(status, nil, now),
		CreatedBy:      principalID(r),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("blog created", "blog_id", blog.ID, "slug", blog.Slug)
	WriteCreated(w, blog, "Blog created")
}

// UpdateBlog handles PUT /api/blogs/{id}.
func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, blog, ok := requireEntityByID(h, w, r, "blog", func(id int64) (store.Blog, error) {
		return h.queries.GetBlogByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateBlogRequest
	if !h.bind(w, r, &req) {
		return
	}

	arg := store.UpdateBlogParams{
		ID:             id,
		Title:          blog.Title,
		Slug:           blog.Slug,
		Excerpt:        blog.Excerpt,
		Content:        blog.Content,
		ContentHTML:    blog.ContentHTML,
		CoverImage:     blog.CoverImage,
		Author:         blog.Author,
		Category:       blog.Category,
		Tags:           blog.Tags,
		Status:         blog.Status,
		Featured:       blog.Featured,
		ReadingTime:    blog.ReadingTime,
		SeoTitle:       blog.SeoTitle,
		SeoDescription: blog.SeoDescription,
	}

	setIf(&arg.Title, req.Title)
	setIf(&arg.Excerpt, req.Excerpt)
	setIf(&arg.CoverImage, req.CoverImage)
	setIf(&arg.Author, req.Author)
	setIf(&arg.Category, req.Category)
	setIf(&arg.Status, req.Status)
	setIf(&arg.Featured, req.Featured)
	setIf(&arg.SeoTitle, req.SeoTitle)
	setIf(&arg.SeoDescription, req.SeoDescription)
	if req.Tags != nil {
		arg.Tags = *req.Tags
	}

	if req.Slug != nil && *req.Slug != blog.Slug {
		slug := *req.Slug
		if !h.checkSlugUnique(w, r, func() (bool, error) { return h.queries.BlogSlugExists(ctx, slug, id) }) {
			return
		}
		arg.Slug = slug
	}

	if req.Content != nil && *req.Content != blog.Content {
		html, err := markup.Render(*req.Content)
		if err != nil {
			h.WriteServiceError(w, r, err)
			return
		}
		arg.Content = *req.Content
		arg.ContentHTML = html
		arg.ReadingTime = int64(markup.ReadingTime(*req.Content))
	}

	now := h.now()
	arg.PublishedAt = publishedAt(arg.Status, blog.PublishedAt, now)
	arg.UpdatedAt = now

	updated, err := h.queries.UpdateBlog(ctx, arg)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("blog updated", "blog_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: updated, Message: "Blog updated"})
}

// DeleteBlog handles DELETE /api/blogs/{id}.
func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "blog", func(id int64) (int64, error) {
		return h.queries.DeleteBlog(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("blog deleted", "blog_id", id)
	WriteMessage(w, "Blog deleted")
}

// setIf copies *src into dst when src is non-nil.
func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
