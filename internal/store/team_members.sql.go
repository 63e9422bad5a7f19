// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const teamMemberColumns = `id, name, position, department, bio, photo, email, linkedin, twitter,
    is_active, sort_order, created_at, updated_at`

func scanTeamMember(s scanner) (TeamMember, error) {
	var i TeamMember
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Position,
		&i.Department,
		&i.Bio,
		&i.Photo,
		&i.Email,
		&i.Linkedin,
		&i.Twitter,
		&i.IsActive,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type TeamMemberParams struct {
	Name       string
	Position   string
	Department string
	Bio        string
	Photo      string
	Email      string
	Linkedin   string
	Twitter    string
	IsActive   bool
	SortOrder  int64
}

func (p TeamMemberParams) args() []any {
	return []any{p.Name, p.Position, p.Department, p.Bio, p.Photo, p.Email, p.Linkedin, p.Twitter, p.IsActive, p.SortOrder}
}

const createTeamMember = `-- name: CreateTeamMember :one
INSERT INTO team_members (name, position, department, bio, photo, email, linkedin, twitter,
    is_active, sort_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + teamMemberColumns

func (q *Queries) CreateTeamMember(ctx context.Context, arg TeamMemberParams, at time.Time) (TeamMember, error) {
	args := append(arg.args(), at, at)
	return scanTeamMember(q.db.QueryRowContext(ctx, createTeamMember, args...))
}

const getTeamMemberByID = `-- name: GetTeamMemberByID :one
SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = ?`

func (q *Queries) GetTeamMemberByID(ctx context.Context, id int64) (TeamMember, error) {
	return scanTeamMember(q.db.QueryRowContext(ctx, getTeamMemberByID, id))
}

const updateTeamMember = `-- name: UpdateTeamMember :one
UPDATE team_members SET
    name = ?, position = ?, department = ?, bio = ?, photo = ?, email = ?, linkedin = ?,
    twitter = ?, is_active = ?, sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + teamMemberColumns

func (q *Queries) UpdateTeamMember(ctx context.Context, id int64, arg TeamMemberParams, at time.Time) (TeamMember, error) {
	args := append(arg.args(), at, id)
	return scanTeamMember(q.db.QueryRowContext(ctx, updateTeamMember, args...))
}

const deleteTeamMember = `-- name: DeleteTeamMember :execrows
DELETE FROM team_members WHERE id = ?`

func (q *Queries) DeleteTeamMember(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeamMember, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type ListTeamMembersParams struct {
	ListParams
	Department string
	IsActive   *bool
}

var teamMemberSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"position":  "position",
	"order":     "sort_order",
}

func (q *Queries) ListTeamMembers(ctx context.Context, arg ListTeamMembersParams) ([]TeamMember, int64, error) {
	var f filter
	f.eq("department", arg.Department)
	f.flag("is_active", arg.IsActive)
	f.search(arg.Search, "name", "position", "bio")
	return listRows(ctx, q.db, "team_members", teamMemberColumns, f, orderBy(arg.ListParams, teamMemberSortColumns, "sort_order"), arg.ListParams, scanTeamMember)
}
