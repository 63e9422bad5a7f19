// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const contentPageColumns = `page, sections, seo, updated_by, created_at, updated_at`

func scanContentPage(s scanner) (ContentPage, error) {
	var i ContentPage
	err := s.Scan(
		&i.Page,
		&i.Sections,
		&i.Seo,
		&i.UpdatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// SectionPath returns the SQLite JSON path addressing one top-level section key.
// Callers must only pass keys that contain no quote characters.
func SectionPath(key string) string {
	return `$."` + key + `"`
}

const getContentPage = `-- name: GetContentPage :one
SELECT ` + contentPageColumns + ` FROM content_pages WHERE page = ?`

func (q *Queries) GetContentPage(ctx context.Context, page string) (ContentPage, error) {
	return scanContentPage(q.db.QueryRowContext(ctx, getContentPage, page))
}

const listContentPageNames = `-- name: ListContentPageNames :many
SELECT page FROM content_pages ORDER BY page`

func (q *Queries) ListContentPageNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listContentPageNames)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []string{}
	for rows.Next() {
		var page string
		if err := rows.Scan(&page); err != nil {
			return nil, err
		}
		items = append(items, page)
	}
	return items, rows.Err()
}

const upsertContentPage = `-- name: UpsertContentPage :one
INSERT INTO content_pages (page, sections, seo, updated_by, created_at, updated_at)
VALUES (?, COALESCE(?, '{}'), COALESCE(?, '{}'), ?, ?, ?)
ON CONFLICT(page) DO UPDATE SET
    sections = COALESCE(?, content_pages.sections),
    seo = COALESCE(?, content_pages.seo),
    updated_by = excluded.updated_by,
    updated_at = excluded.updated_at
RETURNING ` + contentPageColumns

// UpsertContentPageParams replaces whichever of Sections and Seo is non-empty.
type UpsertContentPageParams struct {
	Page      string
	Sections  RawJSON
	Seo       RawJSON
	UpdatedBy *int64
	UpdatedAt time.Time
}

func (q *Queries) UpsertContentPage(ctx context.Context, arg UpsertContentPageParams) (ContentPage, error) {
	row := q.db.QueryRowContext(ctx, upsertContentPage,
		arg.Page,
		arg.Sections,
		arg.Seo,
		arg.UpdatedBy,
		arg.UpdatedAt,
		arg.UpdatedAt,
		arg.Sections,
		arg.Seo,
	)
	return scanContentPage(row)
}

const setContentSection = `-- name: SetContentSection :one
INSERT INTO content_pages (page, sections, seo, updated_by, created_at, updated_at)
VALUES (?, json_object(?, json(?)), '{}', ?, ?, ?)
ON CONFLICT(page) DO UPDATE SET
    sections = json_set(content_pages.sections, ?, json(?)),
    updated_by = excluded.updated_by,
    updated_at = excluded.updated_at
RETURNING ` + contentPageColumns

type SetContentSectionParams struct {
	Page      string
	Section   string
	Value     RawJSON
	UpdatedBy *int64
	UpdatedAt time.Time
}

// SetContentSection writes a single section key in one statement, creating the
// page row when it does not exist yet.
func (q *Queries) SetContentSection(ctx context.Context, arg SetContentSectionParams) (ContentPage, error) {
	row := q.db.QueryRowContext(ctx, setContentSection,
		arg.Page,
		arg.Section,
		arg.Value,
		arg.UpdatedBy,
		arg.UpdatedAt,
		arg.UpdatedAt,
		SectionPath(arg.Section),
		arg.Value,
	)
	return scanContentPage(row)
}

const removeContentSection = `-- name: RemoveContentSection :execrows
UPDATE content_pages
SET sections = json_remove(sections, ?), updated_by = ?, updated_at = ?
WHERE page = ? AND json_type(sections, ?) IS NOT NULL`

type RemoveContentSectionParams struct {
	Page      string
	Section   string
	UpdatedBy *int64
	UpdatedAt time.Time
}

// RemoveContentSection deletes one section key; zero rows means the page or the key is absent.
func (q *Queries) RemoveContentSection(ctx context.Context, arg RemoveContentSectionParams) (int64, error) {
	path := SectionPath(arg.Section)
	result, err := q.db.ExecContext(ctx, removeContentSection,
		path,
		arg.UpdatedBy,
		arg.UpdatedAt,
		arg.Page,
		path,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createContentPageIfMissing = `-- name: CreateContentPageIfMissing :execrows
INSERT INTO content_pages (page, sections, seo, updated_by, created_at, updated_at)
VALUES (?, ?, '{}', ?, ?, ?)
ON CONFLICT(page) DO NOTHING`

type CreateContentPageIfMissingParams struct {
	Page      string
	Sections  RawJSON
	UpdatedBy *int64
	CreatedAt time.Time
}

// CreateContentPageIfMissing never overwrites; it reports 1 when a row was created.
func (q *Queries) CreateContentPageIfMissing(ctx context.Context, arg CreateContentPageIfMissingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createContentPageIfMissing,
		arg.Page,
		arg.Sections,
		arg.UpdatedBy,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
