// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const caseStudyColumns = `id, title, slug, client, industry, summary, challenge, solution, results,
    metrics, technologies, cover_image, gallery, testimonial, status, featured, sort_order,
    published_at, created_at, updated_at`

func scanCaseStudy(s scanner) (CaseStudy, error) {
	var i CaseStudy
	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Client,
		&i.Industry,
		&i.Summary,
		&i.Challenge,
		&i.Solution,
		&i.Results,
		&i.Metrics,
		&i.Technologies,
		&i.CoverImage,
		&i.Gallery,
		&i.Testimonial,
		&i.Status,
		&i.Featured,
		&i.SortOrder,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// CaseStudyParams holds the writable columns of a case study.
type CaseStudyParams struct {
	Title        string
	Slug         string
	Client       string
	Industry     string
	Summary      string
	Challenge    string
	Solution     string
	Results      string
	Metrics      RawJSON
	Technologies StringList
	CoverImage   string
	Gallery      StringList
	Testimonial  string
	Status       string
	Featured     bool
	SortOrder    int64
	PublishedAt  *time.Time
}

func (p CaseStudyParams) args() []any {
	return []any{
		p.Title,
		p.Slug,
		p.Client,
		p.Industry,
		p.Summary,
		p.Challenge,
		p.Solution,
		p.Results,
		JSONOr(p.Metrics, "[]"),
		p.Technologies,
		p.CoverImage,
		p.Gallery,
		p.Testimonial,
		p.Status,
		p.Featured,
		p.SortOrder,
		p.PublishedAt,
	}
}

const createCaseStudy = `-- name: CreateCaseStudy :one
INSERT INTO case_studies (title, slug, client, industry, summary, challenge, solution, results,
    metrics, technologies, cover_image, gallery, testimonial, status, featured, sort_order,
    published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + caseStudyColumns

func (q *Queries) CreateCaseStudy(ctx context.Context, arg CaseStudyParams, at time.Time) (CaseStudy, error) {
	args := append(arg.args(), at, at)
	return scanCaseStudy(q.db.QueryRowContext(ctx, createCaseStudy, args...))
}

const getCaseStudyByID = `-- name: GetCaseStudyByID :one
SELECT ` + caseStudyColumns + ` FROM case_studies WHERE id = ?`

func (q *Queries) GetCaseStudyByID(ctx context.Context, id int64) (CaseStudy, error) {
	return scanCaseStudy(q.db.QueryRowContext(ctx, getCaseStudyByID, id))
}

const getCaseStudyBySlug = `-- name: GetCaseStudyBySlug :one
SELECT ` + caseStudyColumns + ` FROM case_studies WHERE slug = ?`

func (q *Queries) GetCaseStudyBySlug(ctx context.Context, slug string) (CaseStudy, error) {
	return scanCaseStudy(q.db.QueryRowContext(ctx, getCaseStudyBySlug, slug))
}

const updateCaseStudy = `-- name: UpdateCaseStudy :one
UPDATE case_studies SET
    title = ?, slug = ?, client = ?, industry = ?, summary = ?, challenge = ?, solution = ?,
    results = ?, metrics = ?, technologies = ?, cover_image = ?, gallery = ?, testimonial = ?,
    status = ?, featured = ?, sort_order = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + caseStudyColumns

func (q *Queries) UpdateCaseStudy(ctx context.Context, id int64, arg CaseStudyParams, at time.Time) (CaseStudy, error) {
	args := append(arg.args(), at, id)
	return scanCaseStudy(q.db.QueryRowContext(ctx, updateCaseStudy, args...))
}

const deleteCaseStudy = `-- name: DeleteCaseStudy :execrows
DELETE FROM case_studies WHERE id = ?`

func (q *Queries) DeleteCaseStudy(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCaseStudy, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const caseStudySlugExists = `-- name: CaseStudySlugExists :one
SELECT COUNT(*) FROM case_studies WHERE slug = ? AND id != ?`

func (q *Queries) CaseStudySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, caseStudySlugExists, slug, excludeID).Scan(&count)
	return count > 0, err
}

type ListCaseStudiesParams struct {
	ListParams
	Status   string
	Industry string
	Featured *bool
}

var caseStudySortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"title":       "title",
	"order":       "sort_order",
}

func (q *Queries) ListCaseStudies(ctx context.Context, arg ListCaseStudiesParams) ([]CaseStudy, int64, error) {
	var f filter
	f.eq("status", arg.Status)
	f.eq("industry", arg.Industry)
	f.flag("featured", arg.Featured)
	f.search(arg.Search, "title", "client", "summary", "industry")
	return listRows(ctx, q.db, "case_studies", caseStudyColumns, f, orderBy(arg.ListParams, caseStudySortColumns, "sort_order"), arg.ListParams, scanCaseStudy)
}
