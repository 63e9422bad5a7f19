// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/cache"
)

func TestInstrument_UsesRoutePattern(t *testing.T) {
	m := New("v1.0.0", "abc1234")

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/blogs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/api/enquiries", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/blogs/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/enquiries", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/blogs/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("/api/enquiries")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestObserveJob(t *testing.T) {
	m := New("dev", "none")
	m.ObserveJob("sweep", 10*time.Millisecond, nil)
	m.ObserveJob("sweep", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("sweep", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("sweep", "error")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveJob("x", 0, nil)
		nilMetrics.EnquiryReceived()
		nilMetrics.MediaUploaded("images")
	})
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New("v1.2.3", "deadbee")
	m.EnquiryReceived()
	m.MediaUploaded("images")

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	m.RegisterCache(cache.BackendMemory, c)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	for _, want := range []string{
		`sitecms_build_info{commit="deadbee",version="v1.2.3"} 1`,
		`sitecms_enquiries_received_total 1`,
		`sitecms_media_uploads_total{folder="images"} 1`,
		`sitecms_cache_hits_total{backend="memory"} 0`,
		`go_goroutines`,
	} {
		assert.True(t, strings.Contains(text, want), "missing %q", want)
	}
}
