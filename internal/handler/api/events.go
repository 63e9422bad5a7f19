// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/sitecms-go/internal/store"
)

// ListEvents handles GET /api/events. ?level= and ?category= filter the
// audit log; newest first by default.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "desc")

	items, total, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		ListParams: lq.Params(),
		Level:      r.URL.Query().Get("level"),
		Category:   r.URL.Query().Get("category"),
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}
