// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ReferencePrefix marks enquiry reference codes.
const ReferencePrefix = "ENQ-"

// NewReference returns a sortable, unique reference code such as
// "ENQ-01J9Z3T5M7Q8R2X4V6B8N0C2D4". The timestamp part orders codes by
// creation time.
func NewReference(at time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy())
	return ReferencePrefix + id.String()
}

// ParseReference validates a reference code and returns its creation time.
func ParseReference(ref string) (time.Time, bool) {
	raw, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(ref)), ReferencePrefix)
	if !ok {
		return time.Time{}, false
	}
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(id.Time()).UTC(), true
}
