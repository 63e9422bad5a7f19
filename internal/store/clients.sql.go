// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const clientColumns = `id, name, logo, website, industry, description, featured, is_active,
    sort_order, created_at, updated_at`

func scanClient(s scanner) (Client, error) {
	var i Client
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Logo,
		&i.Website,
		&i.Industry,
		&i.Description,
		&i.Featured,
		&i.IsActive,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type ClientParams struct {
	Name        string
	Logo        string
	Website     string
	Industry    string
	Description string
	Featured    bool
	IsActive    bool
	SortOrder   int64
}

func (p ClientParams) args() []any {
	return []any{p.Name, p.Logo, p.Website, p.Industry, p.Description, p.Featured, p.IsActive, p.SortOrder}
}

const createClient = `-- name: CreateClient :one
INSERT INTO clients (name, logo, website, industry, description, featured, is_active, sort_order,
    created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + clientColumns

func (q *Queries) CreateClient(ctx context.Context, arg ClientParams, at time.Time) (Client, error) {
	args := append(arg.args(), at, at)
	return scanClient(q.db.QueryRowContext(ctx, createClient, args...))
}

const getClientByID = `-- name: GetClientByID :one
SELECT ` + clientColumns + ` FROM clients WHERE id = ?`

func (q *Queries) GetClientByID(ctx context.Context, id int64) (Client, error) {
	return scanClient(q.db.QueryRowContext(ctx, getClientByID, id))
}

const updateClient = `-- name: UpdateClient :one
UPDATE clients SET
    name = ?, logo = ?, website = ?, industry = ?, description = ?, featured = ?, is_active = ?,
    sort_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + clientColumns

func (q *Queries) UpdateClient(ctx context.Context, id int64, arg ClientParams, at time.Time) (Client, error) {
	args := append(arg.args(), at, id)
	return scanClient(q.db.QueryRowContext(ctx, updateClient, args...))
}

const deleteClient = `-- name: DeleteClient :execrows
DELETE FROM clients WHERE id = ?`

func (q *Queries) DeleteClient(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteClient, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type ListClientsParams struct {
	ListParams
	Industry string
	Featured *bool
	IsActive *bool
}

var clientSortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"order":     "sort_order",
}

func (q *Queries) ListClients(ctx context.Context, arg ListClientsParams) ([]Client, int64, error) {
	var f filter
	f.eq("industry", arg.Industry)
	f.flag("featured", arg.Featured)
	f.flag("is_active", arg.IsActive)
	f.search(arg.Search, "name", "industry", "description")
	return listRows(ctx, q.db, "clients", clientColumns, f, orderBy(arg.ListParams, clientSortColumns, "sort_order"), arg.ListParams, scanClient)
}
