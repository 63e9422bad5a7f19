// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders blog markdown to sanitized HTML.
package markup

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Raw HTML is passed through and then cleaned by the sanitizer.
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// sanitizer is safe for concurrent use once built.
var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render converts markdown to HTML and strips anything unsafe.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// ReadingTime estimates minutes needed to read src, at least 1.
func ReadingTime(src string) int {
	words := len(strings.Fields(src))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1)
}
