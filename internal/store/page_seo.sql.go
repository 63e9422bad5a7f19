// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const pageSeoColumns = `id, page, title, description, keywords, og_title, og_description, og_image,
    canonical, no_index, created_at, updated_at`

func scanPageSeo(s scanner) (PageSeo, error) {
	var i PageSeo
	err := s.Scan(
		&i.ID,
		&i.Page,
		&i.Title,
		&i.Description,
		&i.Keywords,
		&i.OgTitle,
		&i.OgDescription,
		&i.OgImage,
		&i.Canonical,
		&i.NoIndex,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type PageSeoParams struct {
	Page          string
	Title         string
	Description   string
	Keywords      StringList
	OgTitle       string
	OgDescription string
	OgImage       string
	Canonical     string
	NoIndex       bool
}

func (p PageSeoParams) args() []any {
	return []any{p.Page, p.Title, p.Description, p.Keywords, p.OgTitle, p.OgDescription, p.OgImage, p.Canonical, p.NoIndex}
}

const createPageSeo = `-- name: CreatePageSeo :one
INSERT INTO page_seo (page, title, description, keywords, og_title, og_description, og_image,
    canonical, no_index, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageSeoColumns

func (q *Queries) CreatePageSeo(ctx context.Context, arg PageSeoParams, at time.Time) (PageSeo, error) {
	args := append(arg.args(), at, at)
	return scanPageSeo(q.db.QueryRowContext(ctx, createPageSeo, args...))
}

const getPageSeoByID = `-- name: GetPageSeoByID :one
SELECT ` + pageSeoColumns + ` FROM page_seo WHERE id = ?`

func (q *Queries) GetPageSeoByID(ctx context.Context, id int64) (PageSeo, error) {
	return scanPageSeo(q.db.QueryRowContext(ctx, getPageSeoByID, id))
}

const getPageSeoByPage = `-- name: GetPageSeoByPage :one
SELECT ` + pageSeoColumns + ` FROM page_seo WHERE page = ?`

func (q *Queries) GetPageSeoByPage(ctx context.Context, page string) (PageSeo, error) {
	return scanPageSeo(q.db.QueryRowContext(ctx, getPageSeoByPage, page))
}

const updatePageSeo = `-- name: UpdatePageSeo :one
UPDATE page_seo SET
    page = ?, title = ?, description = ?, keywords = ?, og_title = ?, og_description = ?,
    og_image = ?, canonical = ?, no_index = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageSeoColumns

func (q *Queries) UpdatePageSeo(ctx context.Context, id int64, arg PageSeoParams, at time.Time) (PageSeo, error) {
	args := append(arg.args(), at, id)
	return scanPageSeo(q.db.QueryRowContext(ctx, updatePageSeo, args...))
}

const deletePageSeo = `-- name: DeletePageSeo :execrows
DELETE FROM page_seo WHERE id = ?`

func (q *Queries) DeletePageSeo(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePageSeo, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const pageSeoPageExists = `-- name: PageSeoPageExists :one
SELECT COUNT(*) FROM page_seo WHERE page = ? AND id != ?`

func (q *Queries) PageSeoPageExists(ctx context.Context, page string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, pageSeoPageExists, page, excludeID).Scan(&count)
	return count > 0, err
}

var pageSeoSortColumns = map[string]string{
	"createdAt": "created_at",
	"page":      "page",
	"title":     "title",
}

func (q *Queries) ListPageSeo(ctx context.Context, arg ListParams) ([]PageSeo, int64, error) {
	var f filter
	f.search(arg.Search, "page", "title", "description")
	return listRows(ctx, q.db, "page_seo", pageSeoColumns, f, orderBy(arg, pageSeoSortColumns, "page"), arg, scanPageSeo)
}
