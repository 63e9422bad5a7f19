// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and emphasis",
			src:      "# Title\n\nSome *text*.",
			contains: []string{"<h1", "Title</h1>", "<em>text</em>"},
		},
		{
			name:     "script stripped",
			src:      "Hello <script>alert(1)</script>",
			contains: []string{"Hello"},
			excludes: []string{"<script", "alert(1)"},
		},
		{
			name:     "event handler stripped",
			src:      `<img src="/a.png" onerror="x()">`,
			contains: []string{`src="/a.png"`},
			excludes: []string{"onerror"},
		},
		{
			name:     "javascript link dropped",
			src:      "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "external link gets nofollow",
			src:      "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, "nofollow", `target="_blank"`},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(tt.src)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		src := strings.Repeat("word ", tt.words)
		assert.Equal(t, tt.want, ReadingTime(src), "words=%d", tt.words)
	}
}
