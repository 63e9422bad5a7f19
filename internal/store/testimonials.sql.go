// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const testimonialColumns = `id, name, role, company, quote, avatar, rating, featured, is_active,
    sort_order, created_at, updated_at`

func scanTestimonial(s scanner) (Testimonial, error) {
	var i Testimonial
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Role,
		&i.Company,
		&i.Quote,
		&i.Avatar,
		&i.Rating,
		&i.Featured,
		&i.IsActive,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type TestimonialParams struct {
	Name      string
	Role      string
	Company   string
	Quote     string
	Avatar    string
	Rating    int64
	Featured  bool
	IsActive  bool
	SortOrder int64
}

func (p TestimonialParams) args() []any {
	return []any{p.Name, p.Role, p.Company, p.Quote, p.Avatar, p.Rating, p.Featured, p.IsActive, p.SortOrder}
}

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (name, role, company, quote, avatar, rating, featured, is_active,
    sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + testimonialColumns

func (q *Queries) CreateTestimonial(ctx context.Context, arg TestimonialParams, at time.Time) (Testimonial, error) {
	args := append(arg.args(), at, at)
	return scanTestimonial(q.db.QueryRowContext(ctx, createTestimonial, args...))
}

const getTestimonialByID = `-- name: GetTestimonialByID :one
SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonialByID, id))
}

const updateTestimonial = `-- name: UpdateTestimonial :one
UPDATE testimonials SET
    name = ?, role = ?, company = ?, quote = ?, avatar = ?, rating = ?, featured = ?,
    is_active = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + testimonialColumns

func (q *Queries) UpdateTestimonial(ctx context.Context, id int64, arg TestimonialParams, at time.Time) (Testimonial, error) {
	args := append(arg.args(), at, id)
	return scanTestimonial(q.db.QueryRowContext(ctx, updateTestimonial, args...))
}

const deleteTestimonial = `-- name: DeleteTestimonial :execrows
DELETE FROM testimonials WHERE id = ?`

func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type ListTestimonialsParams struct {
	ListParams
	Featured *bool
	IsActive *bool
}

var testimonialSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"rating":    "rating",
	"order":     "sort_order",
}

func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]Testimonial, int64, error) {
	var f filter
	f.flag("featured", arg.Featured)
	f.flag("is_active", arg.IsActive)
	f.search(arg.Search, "name", "company", "quote")
	return listRows(ctx, q.db, "testimonials", testimonialColumns, f, orderBy(arg.ListParams, testimonialSortColumns, "sort_order"), arg.ListParams, scanTestimonial)
}
