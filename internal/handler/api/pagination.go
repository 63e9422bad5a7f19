// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/sitecms-go/internal/store"
)

// Pagination defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery holds the paging, sorting and search parameters common to every
// list endpoint.
type ListQuery struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string // "asc" or "desc"
	Search    string
}

// Pagination is returned alongside list data.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ParseListQuery reads ?page=&limit=&skip=&sortBy=&sortOrder=&search=.
// Invalid values fall back to defaults. An explicit skip overrides the offset
// derived from page. defaultOrder applies when sortOrder is absent.
func ParseListQuery(r *http.Request, defaultOrder string) ListQuery {
	q := r.URL.Query()

	lq := ListQuery{
		Page:      parseIntParam(q.Get("page"), 1, 1, 0),
		Limit:     parseIntParam(q.Get("limit"), DefaultLimit, 1, MaxLimit),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: defaultOrder,
		Search:    strings.TrimSpace(q.Get("search")),
	}

	switch strings.ToLower(q.Get("sortOrder")) {
	case "asc", "1":
		lq.SortOrder = "asc"
	case "desc", "-1":
		lq.SortOrder = "desc"
	}

	lq.Skip = (lq.Page - 1) * lq.Limit
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			lq.Skip = v
		}
	}
	return lq
}

// parseIntParam returns defaultVal when str is empty, invalid or outside
// [minVal, maxVal]. A zero maxVal means unbounded.
func parseIntParam(str string, defaultVal, minVal, maxVal int) int {
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return maxVal
	}
	return val
}

// Params converts the query to store list parameters.
func (lq ListQuery) Params() store.ListParams {
	return store.ListParams{
		Search:   lq.Search,
		SortBy:   lq.SortBy,
		SortDesc: lq.SortOrder == "desc",
		Limit:    int64(lq.Limit),
		Offset:   int64(lq.Skip),
	}
}

// Paginate builds the pagination block for total matching records.
func (lq ListQuery) Paginate(total int64) *Pagination {
	pages := int((total + int64(lq.Limit) - 1) / int64(lq.Limit))
	return &Pagination{
		Page:  lq.Page,
		Limit: lq.Limit,
		Total: total,
		Pages: pages,
	}
}
