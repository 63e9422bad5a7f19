// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const blogColumns = `id, title, slug, excerpt, content, content_html, cover_image, author, category,
    tags, status, featured, reading_time, seo_title, seo_description, published_at, views,
    created_by, created_at, updated_at`

func scanBlog(s scanner) (Blog, error) {
	var i Blog
	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.ContentHTML,
		&i.CoverImage,
		&i.Author,
		&i.Category,
		&i.Tags,
		&i.Status,
		&i.Featured,
		&i.ReadingTime,
		&i.SeoTitle,
		&i.SeoDescription,
		&i.PublishedAt,
		&i.Views,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBlog = `-- name: CreateBlog :one
INSERT INTO blogs (title, slug, excerpt, content, content_html, cover_image, author, category,
    tags, status, featured, reading_time, seo_title, seo_description, published_at, created_by,
    created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + blogColumns

type CreateBlogParams struct {
	Title          string
	Slug           string
	Excerpt        string
	Content        string
	ContentHTML    string
	CoverImage     string
	Author         string
	Category       string
	Tags           StringList
	Status         string
	Featured       bool
	ReadingTime    int64
	SeoTitle       string
	SeoDescription string
	PublishedAt    *time.Time
	CreatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) CreateBlog(ctx context.Context, arg CreateBlogParams) (Blog, error) {
	row := q.db.QueryRowContext(ctx, createBlog,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.ContentHTML,
		arg.CoverImage,
		arg.Author,
		arg.Category,
		arg.Tags,
		arg.Status,
		arg.Featured,
		arg.ReadingTime,
		arg.SeoTitle,
		arg.SeoDescription,
		arg.PublishedAt,
		arg.CreatedBy,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBlog(row)
}

const getBlogByID = `-- name: GetBlogByID :one
SELECT ` + blogColumns + ` FROM blogs WHERE id = ?`

func (q *Queries) GetBlogByID(ctx context.Context, id int64) (Blog, error) {
	return scanBlog(q.db.QueryRowContext(ctx, getBlogByID, id))
}

const getBlogBySlug = `-- name: GetBlogBySlug :one
SELECT ` + blogColumns + ` FROM blogs WHERE slug = ?`

func (q *Queries) GetBlogBySlug(ctx context.Context, slug string) (Blog, error) {
	return scanBlog(q.db.QueryRowContext(ctx, getBlogBySlug, slug))
}

const updateBlog = `-- name: UpdateBlog :one
UPDATE blogs SET
    title = ?, slug = ?, excerpt = ?, content = ?, content_html = ?, cover_image = ?,
    author = ?, category = ?, tags = ?, status = ?, featured = ?, reading_time = ?,
    seo_title = ?, seo_description = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + blogColumns

type UpdateBlogParams struct {
	ID             int64
	Title          string
	Slug           string
	Excerpt        string
	Content        string
	ContentHTML    string
	CoverImage     string
	Author         string
	Category       string
	Tags           StringList
	Status         string
	Featured       bool
	ReadingTime    int64
	SeoTitle       string
	SeoDescription string
	PublishedAt    *time.Time
	UpdatedAt      time.Time
}

func (q *Queries) UpdateBlog(ctx context.Context, arg UpdateBlogParams) (Blog, error) {
	row := q.db.QueryRowContext(ctx, updateBlog,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.ContentHTML,
		arg.CoverImage,
		arg.Author,
		arg.Category,
		arg.Tags,
		arg.Status,
		arg.Featured,
		arg.ReadingTime,
		arg.SeoTitle,
		arg.SeoDescription,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanBlog(row)
}

const deleteBlog = `-- name: DeleteBlog :execrows
DELETE FROM blogs WHERE id = ?`

func (q *Queries) DeleteBlog(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBlog, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const blogSlugExists = `-- name: BlogSlugExists :one
SELECT COUNT(*) FROM blogs WHERE slug = ? AND id != ?`

// BlogSlugExists reports whether another blog (not excludeID) already uses slug.
func (q *Queries) BlogSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, blogSlugExists, slug, excludeID).Scan(&count)
	return count > 0, err
}

const incrementBlogViews = `-- name: IncrementBlogViews :exec
UPDATE blogs SET views = views + 1 WHERE id = ?`

func (q *Queries) IncrementBlogViews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, incrementBlogViews, id)
	return err
}

const listBlogCategories = `-- name: ListBlogCategories :many
SELECT DISTINCT category FROM blogs WHERE category != '' AND status = 'published' ORDER BY category`

func (q *Queries) ListBlogCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listBlogCategories)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type ListBlogsParams struct {
	ListParams
	Status   string
	Category string
	Tag      string
	Featured *bool
}

var blogSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"title":       "title",
	"views":       "views",
}

// ListBlogs returns one page of blogs matching arg and the total match count.
func (q *Queries) ListBlogs(ctx context.Context, arg ListBlogsParams) ([]Blog, int64, error) {
	var f filter
	f.eq("status", arg.Status)
	f.eq("category", arg.Category)
	f.flag("featured", arg.Featured)
	if arg.Tag != "" {
		f.add("EXISTS (SELECT 1 FROM json_each(blogs.tags) WHERE json_each.value = ?)", arg.Tag)
	}
	f.search(arg.Search, "title", "excerpt", "content", "author")
	return listRows(ctx, q.db, "blogs", blogColumns, f, orderBy(arg.ListParams, blogSortColumns, "created_at"), arg.ListParams, scanBlog)
}
