// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTTL parses a lifetime such as "30d", "24h" or "15m". A value without a
// unit suffix is taken as a number of milliseconds.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	unit := time.Millisecond
	digits := s
	switch s[len(s)-1] {
	case 'd':
		unit = 24 * time.Hour
		digits = s[:len(s)-1]
	case 'h':
		unit = time.Hour
		digits = s[:len(s)-1]
	case 'm':
		unit = time.Minute
		digits = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	if n > int64((1<<63-1)/unit) {
		return 0, fmt.Errorf("duration %q is too large", s)
	}

	return time.Duration(n) * unit, nil
}
