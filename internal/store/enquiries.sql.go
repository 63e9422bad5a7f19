// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const enquiryColumns = `id, reference, name, email, phone, company, service, budget, timeline, message,
    source, status, priority, assigned_to, ip, user_agent, browser, os, device, country,
    created_at, updated_at`

func scanEnquiry(s scanner) (Enquiry, error) {
	var i Enquiry
	err := s.Scan(
		&i.ID,
		&i.Reference,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Company,
		&i.Service,
		&i.Budget,
		&i.Timeline,
		&i.Message,
		&i.Source,
		&i.Status,
		&i.Priority,
		&i.AssignedTo,
		&i.IP,
		&i.UserAgent,
		&i.Browser,
		&i.OS,
		&i.Device,
		&i.Country,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createEnquiry = `-- name: CreateEnquiry :one
INSERT INTO enquiries (reference, name, email, phone, company, service, budget, timeline, message,
    source, status, priority, ip, user_agent, browser, os, device, country, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'new', ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + enquiryColumns

type CreateEnquiryParams struct {
	Reference string
	Name      string
	Email     string
	Phone     string
	Company   string
	Service   string
	Budget    string
	Timeline  string
	Message   string
	Source    string
	Priority  string
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Device    string
	Country   string
	CreatedAt time.Time
}

// CreateEnquiry stores a new enquiry; every enquiry starts in status "new".
func (q *Queries) CreateEnquiry(ctx context.Context, arg CreateEnquiryParams) (Enquiry, error) {
	row := q.db.QueryRowContext(ctx, createEnquiry,
		arg.Reference,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.Service,
		arg.Budget,
		arg.Timeline,
		arg.Message,
		arg.Source,
		arg.Priority,
		arg.IP,
		arg.UserAgent,
		arg.Browser,
		arg.OS,
		arg.Device,
		arg.Country,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanEnquiry(row)
}

const getEnquiryByID = `-- name: GetEnquiryByID :one
SELECT ` + enquiryColumns + ` FROM enquiries WHERE id = ?`

func (q *Queries) GetEnquiryByID(ctx context.Context, id int64) (Enquiry, error) {
	return scanEnquiry(q.db.QueryRowContext(ctx, getEnquiryByID, id))
}

const updateEnquiryWorkflow = `-- name: UpdateEnquiryWorkflow :one
UPDATE enquiries SET status = ?, priority = ?, assigned_to = ?, updated_at = ?
WHERE id = ?
RETURNING ` + enquiryColumns

type UpdateEnquiryWorkflowParams struct {
	ID         int64
	Status     string
	Priority   string
	AssignedTo *int64
	UpdatedAt  time.Time
}

func (q *Queries) UpdateEnquiryWorkflow(ctx context.Context, arg UpdateEnquiryWorkflowParams) (Enquiry, error) {
	row := q.db.QueryRowContext(ctx, updateEnquiryWorkflow,
		arg.Status,
		arg.Priority,
		arg.AssignedTo,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanEnquiry(row)
}

const deleteEnquiry = `-- name: DeleteEnquiry :execrows
DELETE FROM enquiries WHERE id = ?`

func (q *Queries) DeleteEnquiry(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEnquiry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createEnquiryNote = `-- name: CreateEnquiryNote :one
INSERT INTO enquiry_notes (enquiry_id, content, author_id, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, enquiry_id, content, author_id, created_at`

type CreateEnquiryNoteParams struct {
	EnquiryID int64
	Content   string
	AuthorID  *int64
	CreatedAt time.Time
}

func (q *Queries) CreateEnquiryNote(ctx context.Context, arg CreateEnquiryNoteParams) (EnquiryNote, error) {
	row := q.db.QueryRowContext(ctx, createEnquiryNote, arg.EnquiryID, arg.Content, arg.AuthorID, arg.CreatedAt)
	var i EnquiryNote
	err := row.Scan(&i.ID, &i.EnquiryID, &i.Content, &i.AuthorID, &i.CreatedAt)
	return i, err
}

const listEnquiryNotes = `-- name: ListEnquiryNotes :many
SELECT id, enquiry_id, content, author_id, created_at
FROM enquiry_notes WHERE enquiry_id = ? ORDER BY created_at, id`

func (q *Queries) ListEnquiryNotes(ctx context.Context, enquiryID int64) ([]EnquiryNote, error) {
	rows, err := q.db.QueryContext(ctx, listEnquiryNotes, enquiryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []EnquiryNote{}
	for rows.Next() {
		var i EnquiryNote
		if err := rows.Scan(&i.ID, &i.EnquiryID, &i.Content, &i.AuthorID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type ListEnquiriesParams struct {
	ListParams
	Status   string
	Priority string
	Service  string
	From     *time.Time
	To       *time.Time
}

var enquirySortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"status":    "status",
	"priority":  "priority",
}

func enquiryFilter(arg ListEnquiriesParams) filter {
	var f filter
	f.eq("status", arg.Status)
	f.eq("priority", arg.Priority)
	f.eq("service", arg.Service)
	if arg.From != nil {
		f.add("created_at >= ?", *arg.From)
	}
	if arg.To != nil {
		f.add("created_at <= ?", *arg.To)
	}
	f.search(arg.Search, "name", "email", "company", "message", "reference")
	return f
}

// ListEnquiries returns one page of enquiries. A zero Limit returns every match,
// which the CSV export relies on.
func (q *Queries) ListEnquiries(ctx context.Context, arg ListEnquiriesParams) ([]Enquiry, int64, error) {
	return listRows(ctx, q.db, "enquiries", enquiryColumns, enquiryFilter(arg), orderBy(arg.ListParams, enquirySortColumns, "created_at"), arg.ListParams, scanEnquiry)
}

// CountRow is one bucket of a GROUP BY count.
type CountRow struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

const countEnquiriesByStatus = `-- name: CountEnquiriesByStatus :many
SELECT status, COUNT(*) FROM enquiries GROUP BY status ORDER BY status`

const countEnquiriesByPriority = `-- name: CountEnquiriesByPriority :many
SELECT priority, COUNT(*) FROM enquiries GROUP BY priority ORDER BY priority`

func (q *Queries) CountEnquiriesByStatus(ctx context.Context) ([]CountRow, error) {
	return q.countRows(ctx, countEnquiriesByStatus)
}

func (q *Queries) CountEnquiriesByPriority(ctx context.Context) ([]CountRow, error) {
	return q.countRows(ctx, countEnquiriesByPriority)
}

func (q *Queries) countRows(ctx context.Context, query string, args ...any) ([]CountRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CountRow{}
	for rows.Next() {
		var i CountRow
		if err := rows.Scan(&i.Key, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countEnquiriesSince = `-- name: CountEnquiriesSince :one
SELECT COUNT(*) FROM enquiries WHERE created_at >= ?`

func (q *Queries) CountEnquiriesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEnquiriesSince, since).Scan(&count)
	return count, err
}
