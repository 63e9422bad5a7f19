// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production mode enables HSTS", isDev: false, wantHSTS: true},
		{name: "development mode disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(http.HandlerFunc(okHandler))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS {
				assert.Equal(t, "max-age=31536000; includeSubDomains", hsts)
			} else {
				assert.Empty(t, hsts)
			}

			assert.Equal(t, "default-src 'none'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'",
				rec.Header().Get("Content-Security-Policy"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
			assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
			assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
		})
	}
}

func TestBuildCSP(t *testing.T) {
	csp := buildCSP(map[string]string{
		"report-uri":  "/csp",
		"img-src":     "'self'",
		"default-src": "'none'",
		"block-all":   "",
	})
	assert.Equal(t, "default-src 'none'; img-src 'self'; block-all ; report-uri /csp", csp)
}

func TestBuildPermissionsPolicy_Sorted(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	assert.Equal(t, "camera=(), usb=()", got)
}

func TestUploadsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	UploadsHeaders(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/x.svg", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.True(t, strings.HasSuffix(csp, "sandbox"), csp)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
