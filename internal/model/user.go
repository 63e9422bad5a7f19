// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the enumerations shared across the application:
// admin roles, resource statuses, enquiry workflow states, event levels and
// media types.
package model

// Admin roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// IsValidRole reports whether role is a known admin role.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
