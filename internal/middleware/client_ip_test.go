// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "203.0.113.9:5000", want: "203.0.113.9"},
		{name: "remote without port", remote: "203.0.113.9", want: "203.0.113.9"},
		{name: "headers ignored when untrusted", remote: "10.0.0.1:1", realIP: "1.2.3.4", forwarded: "5.6.7.8", want: "10.0.0.1"},
		{name: "real ip when trusted", remote: "10.0.0.1:1", realIP: "1.2.3.4", forwarded: "5.6.7.8", trustProxy: true, want: "1.2.3.4"},
		{name: "first forwarded hop", remote: "10.0.0.1:1", forwarded: "5.6.7.8, 10.0.0.2", trustProxy: true, want: "5.6.7.8"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trustProxy))
		})
	}
}
