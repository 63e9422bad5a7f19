// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/content"
)

func TestContent_DefaultsThenSave(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/content/home", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	page := decodeData[content.Page](t, w)
	assert.True(t, page.IsDefault)
	assert.Contains(t, page.Sections, "hero")

	w = env.do(t, http.MethodPut, "/api/content/home/hero", `{"title":"Hello"}`, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/content/home/hero", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `{"title":"Hello"}`, string(decodeEnvelope(t, w).Data))

	page = decodeData[content.Page](t, env.do(t, http.MethodGet, "/api/content/home", nil, ""))
	assert.False(t, page.IsDefault)
}

func TestContent_WritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	assertStatusCode(t, env.do(t, http.MethodPut, "/api/content/home/hero", `{"title":"x"}`, ""), http.StatusUnauthorized)
	assertStatusCode(t, env.do(t, http.MethodPost, "/api/content/home/reset", nil, env.editorToken), http.StatusForbidden)
	assertStatusCode(t, env.do(t, http.MethodPost, "/api/content/initialize", nil, env.editorToken), http.StatusForbidden)
}

func TestContent_PutPageAndSEO(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/content/landing",
		map[string]any{"sections": map[string]any{"intro": "Welcome"}}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)

	w = env.do(t, http.MethodPut, "/api/content/landing/seo", `{"title":"Landing"}`, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	page := decodeData[content.Page](t, w)
	assert.JSONEq(t, `{"title":"Landing"}`, string(page.SEO))
	assert.JSONEq(t, `"Welcome"`, string(page.Sections["intro"]))

	w = env.do(t, http.MethodPut, "/api/content/landing/seo", `["not","an","object"]`, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestContent_DeleteSection(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPut, "/api/content/landing/intro", `"Hi"`, env.editorToken)

	assertStatusCode(t, env.do(t, http.MethodDelete, "/api/content/landing/intro", nil, env.editorToken), http.StatusOK)
	assertStatusCode(t, env.do(t, http.MethodGet, "/api/content/landing/intro", nil, ""), http.StatusNotFound)
	assertStatusCode(t, env.do(t, http.MethodDelete, "/api/content/landing/intro", nil, env.editorToken), http.StatusNotFound)
}

func TestContent_InvalidNames(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/content/Bad%20Name!", nil, "")
	assertStatusCode(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodPut, "/api/content/home/bad.key", `"x"`, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"section"}, fieldsOf(t, w))
}

func TestContent_InitializeAndReset(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/content/initialize", nil, env.adminToken)
	assertStatusCode(t, w, http.StatusOK)
	var result struct {
		Created []string `json:"created"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.ElementsMatch(t, content.DefaultPages(), result.Created)

	// Second run creates nothing.
	w = env.do(t, http.MethodPost, "/api/content/initialize", nil, env.adminToken)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Empty(t, result.Created)

	env.do(t, http.MethodPut, "/api/content/home/hero", `{"title":"Changed"}`, env.editorToken)
	w = env.do(t, http.MethodPost, "/api/content/home/reset", nil, env.adminToken)
	assertStatusCode(t, w, http.StatusOK)
	page := decodeData[content.Page](t, w)
	assert.NotContains(t, string(page.Sections["hero"]), "Changed")
}

func TestContent_Structure(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/content/home/structure", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	fields := decodeData[[]content.Field](t, w)
	require.NotEmpty(t, fields)
	assert.Equal(t, "hero", fields[0].Name)
	assert.Equal(t, content.KindObject, fields[0].Type)

	w = env.do(t, http.MethodGet, "/api/content/unknown/structure", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, w).Data))
}
