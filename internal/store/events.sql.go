// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const eventColumns = `id, level, category, message, metadata, admin_id, created_at`

func scanEvent(s scanner) (Event, error) {
	var i Event
	err := s.Scan(
		&i.ID,
		&i.Level,
		&i.Category,
		&i.Message,
		&i.Metadata,
		&i.AdminID,
		&i.CreatedAt,
	)
	return i, err
}

const createEvent = `-- name: CreateEvent :one
INSERT INTO events (level, category, message, metadata, admin_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + eventColumns

type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  RawJSON
	AdminID   *int64
	CreatedAt time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		JSONOr(arg.Metadata, "{}"),
		arg.AdminID,
		arg.CreatedAt,
	)
	return scanEvent(row)
}

type ListEventsParams struct {
	ListParams
	Level    string
	Category string
}

var eventSortColumns = map[string]string{
	"createdAt": "created_at",
	"level":     "level",
	"category":  "category",
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, int64, error) {
	var f filter
	f.eq("level", arg.Level)
	f.eq("category", arg.Category)
	f.search(arg.Search, "message")
	return listRows(ctx, q.db, "events", eventColumns, f, orderBy(arg.ListParams, eventSortColumns, "created_at"), arg.ListParams, scanEvent)
}

const deleteEventsBefore = `-- name: DeleteEventsBefore :execrows
DELETE FROM events WHERE created_at < ?`

func (q *Queries) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEventsBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
