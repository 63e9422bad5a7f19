// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"172.32.0.1", false},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"203.0.113.7", true},
		{"8.8.8.8", false},
		{"81.2.69.142", false},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"2001:4860:4860::8888", false},
		{"::ffff:10.0.0.1", true},
		{"::ffff:8.8.8.8", false},
		{"", true},
		{"not-an-ip", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPrivateIP(tt.ip), tt.ip)
	}
}
