// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const mediaColumns = `id, filename, original_name, mime_type, size, folder, path, url, thumbnail_url,
    width, height, alt, caption, uploaded_by, created_at, updated_at`

func scanMedium(s scanner) (Medium, error) {
	var i Medium
	err := s.Scan(
		&i.ID,
		&i.Filename,
		&i.OriginalName,
		&i.MimeType,
		&i.Size,
		&i.Folder,
		&i.Path,
		&i.URL,
		&i.ThumbnailURL,
		&i.Width,
		&i.Height,
		&i.Alt,
		&i.Caption,
		&i.UploadedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMedia = `-- name: CreateMedia :one
INSERT INTO media (filename, original_name, mime_type, size, folder, path, url, thumbnail_url,
    width, height, alt, caption, uploaded_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediaColumns

type CreateMediaParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Folder       string
	Path         string
	URL          string
	ThumbnailURL string
	Width        int64
	Height       int64
	Alt          string
	Caption      string
	UploadedBy   *int64
	CreatedAt    time.Time
}

func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, createMedia,
		arg.Filename,
		arg.OriginalName,
		arg.MimeType,
		arg.Size,
		arg.Folder,
		arg.Path,
		arg.URL,
		arg.ThumbnailURL,
		arg.Width,
		arg.Height,
		arg.Alt,
		arg.Caption,
		arg.UploadedBy,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanMedium(row)
}

const getMediaByID = `-- name: GetMediaByID :one
SELECT ` + mediaColumns + ` FROM media WHERE id = ?`

func (q *Queries) GetMediaByID(ctx context.Context, id int64) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getMediaByID, id))
}

const updateMediaMeta = `-- name: UpdateMediaMeta :one
UPDATE media SET alt = ?, caption = ?, folder = ?, updated_at = ? WHERE id = ?
RETURNING ` + mediaColumns

type UpdateMediaMetaParams struct {
	ID        int64
	Alt       string
	Caption   string
	Folder    string
	UpdatedAt time.Time
}

// UpdateMediaMeta changes descriptive fields only; the stored file is never moved.
func (q *Queries) UpdateMediaMeta(ctx context.Context, arg UpdateMediaMetaParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, updateMediaMeta, arg.Alt, arg.Caption, arg.Folder, arg.UpdatedAt, arg.ID)
	return scanMedium(row)
}

const deleteMedia = `-- name: DeleteMedia :execrows
DELETE FROM media WHERE id = ?`

func (q *Queries) DeleteMedia(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMedia, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type ListMediaParams struct {
	ListParams
	Folder string
	// MimePrefix filters by type family, e.g. "image/".
	MimePrefix string
}

var mediaSortColumns = map[string]string{
	"createdAt": "created_at",
	"filename":  "original_name",
	"size":      "size",
}

func (q *Queries) ListMedia(ctx context.Context, arg ListMediaParams) ([]Medium, int64, error) {
	var f filter
	f.eq("folder", arg.Folder)
	if arg.MimePrefix != "" {
		f.add(`mime_type LIKE ? ESCAPE '\'`, escapeLike(arg.MimePrefix)+"%")
	}
	f.search(arg.Search, "original_name", "alt", "caption")
	return listRows(ctx, q.db, "media", mediaColumns, f, orderBy(arg.ListParams, mediaSortColumns, "created_at"), arg.ListParams, scanMedium)
}
