// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/olegiv/sitecms-go/internal/cache"
	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/testutil"
)

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("database is locked") }

func newTestHealthHandler(t *testing.T) *HealthHandler {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = c.Close() })

	return NewHealthHandler(db, c, t.TempDir(), "v1.2.3")
}

func asRole(r *http.Request, role string) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &store.Admin{ID: 1, Role: role, IsActive: true}))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth_Public(t *testing.T) {
	h := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	resp := decode[map[string]any](t, w)
	if resp["status"] != statusHealthy {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, key := range []string{"checks", "version", "uptime", "system"} {
		if _, ok := resp[key]; ok {
			t.Errorf("public response should not contain %q", key)
		}
	}
}

func TestHealth_Editor(t *testing.T) {
	h := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Health(w, asRole(httptest.NewRequest(http.MethodGet, "/health", nil), model.RoleEditor))

	resp := decode[HealthStatus](t, w)
	if resp.Version != "v1.2.3" {
		t.Errorf("version = %q; want v1.2.3", resp.Version)
	}
	if resp.Uptime == "" {
		t.Error("uptime should be set")
	}
	if resp.Checks != nil {
		t.Errorf("editor should not see checks, got %v", resp.Checks)
	}
}

func TestHealth_Admin(t *testing.T) {
	h := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Health(w, asRole(httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil), model.RoleAdmin))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decode[HealthStatus](t, w)
	for _, name := range []string{"database", "disk", "cache"} {
		c, ok := resp.Checks[name]
		if !ok {
			t.Errorf("missing %s check", name)
			continue
		}
		if c.Status != statusHealthy {
			t.Errorf("%s status = %q; want healthy", name, c.Status)
		}
	}
	if resp.System == nil || resp.System.NumCPU == 0 {
		t.Errorf("verbose admin response should include system info, got %+v", resp.System)
	}
}

func TestHealth_Degraded(t *testing.T) {
	tests := []struct {
		name    string
		breakIt func(h *HealthHandler)
		check   string
	}{
		{"database down", func(h *HealthHandler) { h.db = failingPinger{} }, "database"},
		{"cache closed", func(h *HealthHandler) { _ = h.cache.Close() }, "cache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHealthHandler(t)
			tt.breakIt(h)

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d; want %d", w.Code, http.StatusServiceUnavailable)
			}
			if s := decode[HealthStatusPublic](t, w).Status; s != statusDegraded {
				t.Errorf("status = %q; want degraded", s)
			}

			w = httptest.NewRecorder()
			h.Health(w, asRole(httptest.NewRequest(http.MethodGet, "/health", nil), model.RoleAdmin))
			if c := decode[HealthStatus](t, w).Checks[tt.check]; c.Status != statusUnhealthy {
				t.Errorf("%s check = %+v; want unhealthy", tt.check, c)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	h := &HealthHandler{db: failingPinger{}}

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if s := decode[map[string]string](t, w)["status"]; s != "alive" {
		t.Errorf("status = %q; want alive", s)
	}
}

func TestReadiness(t *testing.T) {
	h := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want %d", w.Code, http.StatusOK)
	}

	// A broken cache does not make the service unready.
	_ = h.cache.Close()
	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status with closed cache = %d; want %d", w.Code, http.StatusOK)
	}
}

func TestReadiness_NotReady(t *testing.T) {
	h := newTestHealthHandler(t)
	h.db = failingPinger{}

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusServiceUnavailable)
	}
	resp := decode[map[string]string](t, w)
	if resp["status"] != "not_ready" {
		t.Errorf("status = %q; want not_ready", resp["status"])
	}
	if _, ok := resp["message"]; ok {
		t.Error("anonymous callers should not see the failure message")
	}

	w = httptest.NewRecorder()
	h.Readiness(w, asRole(httptest.NewRequest(http.MethodGet, "/health/ready", nil), model.RoleEditor))
	if msg := decode[map[string]string](t, w)["message"]; msg != "database is locked" {
		t.Errorf("message = %q; want database is locked", msg)
	}
}

func TestCheckDiskSpace_MissingDir(t *testing.T) {
	h := &HealthHandler{uploadsDir: filepath.Join(t.TempDir(), "missing")}

	c := h.checkDiskSpace()
	if c.Status != statusHealthy {
		t.Errorf("status = %q; want healthy", c.Status)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
