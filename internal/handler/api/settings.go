// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

const (
	settingsCacheNamespace = "settings"
	settingsCacheKey       = "site"
)

// UpdateSettingsRequest is the body of PUT /api/settings. Omitted fields keep
// their stored value.
type UpdateSettingsRequest struct {
	SiteName        string            `json:"siteName" validate:"required,max=100"`
	Tagline         string            `json:"tagline" validate:"max=200"`
	ContactEmail    string            `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone    string            `json:"contactPhone" validate:"max=30"`
	Address         string            `json:"address" validate:"max=500"`
	Social          map[string]string `json:"social" validate:"max=20,dive,keys,max=30,endkeys,omitempty,url"`
	AnalyticsID     string            `json:"analyticsId" validate:"max=50"`
	MaintenanceMode bool              `json:"maintenanceMode"`
}

func settingsRequestFrom(s store.Setting) UpdateSettingsRequest {
	req := UpdateSettingsRequest{
		SiteName:        s.SiteName,
		Tagline:         s.Tagline,
		ContactEmail:    s.ContactEmail,
		ContactPhone:    s.ContactPhone,
		Address:         s.Address,
		AnalyticsID:     s.AnalyticsID,
		MaintenanceMode: s.MaintenanceMode,
	}
	if len(s.Social) > 0 {
		_ = json.Unmarshal(s.Social, &req.Social)
	}
	return req
}

// loadSettings returns the settings singleton, creating it on first use.
func (h *Handler) loadSettings(ctx context.Context) (store.Setting, error) {
	return h.settings.GetOrLoad(ctx, settingsCacheKey, func(ctx context.Context) (store.Setting, error) {
		return h.queries.GetOrCreateSettings(ctx, h.siteName, h.now())
	})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.loadSettings(r.Context())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, s)
}

// UpdateSettings handles PUT /api/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := h.queries.GetOrCreateSettings(ctx, h.siteName, h.now())
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	req := settingsRequestFrom(current)
	if !h.bind(w, r, &req) {
		return
	}

	// Social links decode over the stored map; an empty value removes a link.
	social := make(map[string]string, len(req.Social))
	for k, v := range req.Social {
		if v != "" {
			social[k] = v
		}
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	updated, err := h.queries.UpdateSettings(ctx, store.UpdateSettingsParams{
		SiteName:        req.SiteName,
		Tagline:         req.Tagline,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Address:         req.Address,
		Social:          socialJSON,
		AnalyticsID:     req.AnalyticsID,
		MaintenanceMode: req.MaintenanceMode,
		UpdatedBy:       principalID(r),
		UpdatedAt:       h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	h.settings.Invalidate(ctx, settingsCacheKey)

	h.auditLog(r, model.EventCategorySettings).Info("settings updated",
		"maintenance_mode", updated.MaintenanceMode)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: updated, Message: "Settings updated"})
}
