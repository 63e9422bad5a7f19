// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

// TeamMemberRequest is the body of team member create and update requests.
type TeamMemberRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Position   string `json:"position" validate:"required,max=100"`
	Department string `json:"department" validate:"max=100"`
	Bio        string `json:"bio" validate:"max=2000"`
	Photo      string `json:"photo" validate:"max=500"`
	Email      string `json:"email" validate:"omitempty,email"`
	Linkedin   string `json:"linkedin" validate:"omitempty,url"`
	Twitter    string `json:"twitter" validate:"omitempty,url"`
	IsActive   bool   `json:"isActive"`
	Order      int64  `json:"order" validate:"gte=0"`
}

func teamMemberRequestFrom(m store.TeamMember) TeamMemberRequest {
	return TeamMemberRequest{
		Name:       m.Name,
		Position:   m.Position,
		Department: m.Department,
		Bio:        m.Bio,
		Photo:      m.Photo,
		Email:      m.Email,
		Linkedin:   m.Linkedin,
		Twitter:    m.Twitter,
		IsActive:   m.IsActive,
		Order:      m.SortOrder,
	}
}

func (req TeamMemberRequest) params() store.TeamMemberParams {
	return store.TeamMemberParams{
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		Bio:        req.Bio,
		Photo:      req.Photo,
		Email:      req.Email,
		Linkedin:   req.Linkedin,
		Twitter:    req.Twitter,
		IsActive:   req.IsActive,
		SortOrder:  req.Order,
	}
}

// ListTeamMembers handles GET /api/team.
// Anonymous callers only see active members.
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "asc")

	params := store.ListTeamMembersParams{
		ListParams: lq.Params(),
		Department: r.URL.Query().Get("department"),
		IsActive:   boolQuery(r, "isActive"),
	}
	if !isAuthenticated(r) {
		active := true
		params.IsActive = &active
	}

	items, total, err := h.queries.ListTeamMembers(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetTeamMember handles GET /api/team/{id}.
func (h *Handler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	_, m, ok := requireEntityByID(h, w, r, "team member", func(id int64) (store.TeamMember, error) {
		return h.queries.GetTeamMemberByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !m.IsActive && !isAuthenticated(r) {
		WriteNotFound(w, "Team member not found")
		return
	}
	WriteSuccess(w, m)
}

// CreateTeamMember handles POST /api/team.
func (h *Handler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	req := TeamMemberRequest{IsActive: true}
	if !h.bind(w, r, &req) {
		return
	}

	m, err := h.queries.CreateTeamMember(r.Context(), req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("team member created", "team_member_id", m.ID)
	WriteCreated(w, m, "Team member created")
}

// UpdateTeamMember handles PUT /api/team/{id}.
func (h *Handler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "team member", func(id int64) (store.TeamMember, error) {
		return h.queries.GetTeamMemberByID(r.Context(), id)
	})
	if !ok {
		return
	}

	req := teamMemberRequestFrom(existing)
	if !h.bind(w, r, &req) {
		return
	}

	m, err := h.queries.UpdateTeamMember(r.Context(), id, req.params(), h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("team member updated", "team_member_id", id)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: m, Message: "Team member updated"})
}

// DeleteTeamMember handles DELETE /api/team/{id}.
func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "team member", func(id int64) (int64, error) {
		return h.queries.DeleteTeamMember(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryContent).Info("team member deleted", "team_member_id", id)
	WriteMessage(w, "Team member deleted")
}
