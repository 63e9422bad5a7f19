// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyPathDisables(t *testing.T) {
	g, err := Open("")
	require.NoError(t, err)

	assert.False(t, g.Enabled())
	assert.Empty(t, g.Country("8.8.8.8"))
	assert.NoError(t, g.Reload())
	assert.NoError(t, g.Close())
}

func TestOpen_MissingFile(t *testing.T) {
	g, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NotNil(t, g)
	assert.False(t, g.Enabled())
	assert.Empty(t, g.Country("8.8.8.8"))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("not a maxmind database"), 0o600))

	g, err := Open(path)
	assert.Error(t, err)
	assert.False(t, g.Enabled())
}

func TestCountry_NilAndPrivate(t *testing.T) {
	var g *Lookup
	assert.Empty(t, g.Country("8.8.8.8"))
	assert.False(t, g.Enabled())
	assert.NoError(t, g.Close())

	g = &Lookup{}
	assert.Empty(t, g.Country("192.168.1.10"))
	assert.Empty(t, g.Country("garbage"))
}

// TestCountry_RealDatabase runs only when a GeoLite2-Country file is provided.
func TestCountry_RealDatabase(t *testing.T) {
	path := os.Getenv("SITECMS_TEST_GEOIP_DB")
	if path == "" {
		t.Skip("SITECMS_TEST_GEOIP_DB not set")
	}

	g, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	assert.True(t, g.Enabled())
	assert.Equal(t, "US", g.Country("8.8.8.8"))
}
