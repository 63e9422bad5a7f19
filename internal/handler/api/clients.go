// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

// ClientRequest is the body of client create and update requests.
type ClientRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Logo        string `json:"logo" validate:"max=500"`
	Website     string `json:"website" validate:"omitempty,url"`
	Industry    string `json:"industry" validate:"max=100"`
	Description string `json:"description" validate:"max=1000"`
	Featured    bool   `json:"featured"`
	IsActive    bool   `json:"isActive"`
	Order       int64  `json:"order" validate:"gte=0"`
}

func clientRequestFrom(c store.Client) ClientRequest {
	return ClientRequest{
		Name:        c.Name,
		Logo:        c.Logo,
		Website:     c.Website,
		Industry:    c.Industry,
		Description: c.Description,
		Featured:    c.Featured,
		IsActive:    c.IsActive,
		Order:       c.SortOrder,
	}
}

func (req ClientRequest) params() store.ClientParams {
	return store.ClientParams{
		Name:        req.Name,
		Logo:        req.Logo,
		Website:     req.Website,
		Industry:    req.Industry,
		Description: req.Description,
		Featured:    req.Featured,
		IsActive:    req.IsActive,
		SortOrder:   req.Order,
	}
}

// ListClients handles GET /api/clients.
// Anonymous callers only see active clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "asc")

	params := store.ListClientsParams{
		ListParams: lq.Params(),
		Industry:   r.URL.Query().Get("industry"),
		Featured:   boolQuery(r, "featured"),
		IsActive:   boolQuery(r, "isActive"),
	}
	if !isAuthenticated(r) {
		active := true
		params.IsActive = &active
	}

	items, total, err := h.queries.ListClients(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetClient handles GET /api/clients/{id}.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	_, c, ok := requireEntityByID(h, w, r, "client", func(id int64) (store.Client, error) {
		return h.queries.GetClientByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !c.IsActive && !isAuthenticated(r) {
		WriteNotFound(w, "Client not found")
		return
	}
	WriteSuccess(w, c)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	req := ClientRequest{IsActive: true}
	if !h.bind(w, r, &req) {
		return
	}

	c, err := h.queries.CreateClient(r.Context(), req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("client created", "client_id", c.ID)
	WriteCreated(w, c, "Client created")
}

// UpdateClient handles PUT /api/clients/{id}.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "client", func(id int64) (store.Client, error) {
		return h.queries.GetClientByID(r.Context(), id)
	})
	if !ok {
		return
	}

	req := clientRequestFrom(existing)
	if !h.bind(w, r, &req) {
		return
	}

	c, err := h.queries.UpdateClient(r.Context(), id, req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("client updated", "client_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: c, Message: "Client updated"})
}

// DeleteClient handles DELETE /api/clients/{id}.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "client", func(id int64) (int64, error) {
		return h.queries.DeleteClient(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("client deleted", "client_id", id)
	WriteMessage(w, "Client deleted")
}
