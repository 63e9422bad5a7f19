// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
)

// ListParams carries the paging, sorting and free-text search shared by every
// resource listing. SortBy is matched against a per-table whitelist.
type ListParams struct {
	Search   string
	SortBy   string
	SortDesc bool
	Limit    int64
	Offset   int64
}

// filter accumulates WHERE clauses and their arguments.
type filter struct {
	clauses []string
	args    []any
}

func (f *filter) add(clause string, args ...any) {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
}

// eq adds "column = value" when value is non-empty.
func (f *filter) eq(column, value string) {
	if value != "" {
		f.add(column+" = ?", value)
	}
}

// flag adds "column = value" when value is set.
func (f *filter) flag(column string, value *bool) {
	if value != nil {
		f.add(column+" = ?", *value)
	}
}

// search adds a case-insensitive LIKE over the given columns.
func (f *filter) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + ` LIKE ? ESCAPE '\'`
		f.args = append(f.args, pattern)
	}
	f.clauses = append(f.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (f *filter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderBy resolves a client-supplied sort key against allowed, falling back to def.
func orderBy(p ListParams, allowed map[string]string, def string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = def
	}
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", id " + dir
}

func limitOffset(p ListParams, f *filter) string {
	if p.Limit <= 0 {
		return ""
	}
	f.args = append(f.args, p.Limit, p.Offset)
	return " LIMIT ? OFFSET ?"
}

// listRows runs a filtered, sorted, paginated SELECT and a matching COUNT.
func listRows[T any](ctx context.Context, db DBTX, table, columns string, f filter, order string, p ListParams, scan func(scanner) (T, error)) ([]T, int64, error) {
	var total int64
	countArgs := append([]any(nil), f.args...)
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+f.where(), countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + columns + " FROM " + table + f.where() + order
	query += limitOffset(p, &f)

	rows, err := db.QueryContext(ctx, query, f.args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
