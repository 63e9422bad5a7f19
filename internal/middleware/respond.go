// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and response hardening.
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the API response envelope for failures.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError writes a JSON error envelope. Middleware cannot depend on the
// handler package, so it keeps its own writer with the same shape.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}
