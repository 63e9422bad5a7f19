// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// upload posts a multipart form. A nil file omits the file part.
func (e *testEnv) upload(t *testing.T, filename string, file []byte, fields map[string]string, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// storedPath maps a media URL back to the file under the storage root.
func (e *testEnv) storedPath(url string) string {
	return filepath.Join(e.media.Root(), filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "../../Team Photo.png", testPNG(t, 400, 200), map[string]string{"alt": " Our team "}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	assert.Equal(t, "File uploaded", decodeEnvelope(t, w).Message)

	m := decodeData[store.Medium](t, w)
	assert.Equal(t, model.MimeTypePNG, m.MimeType)
	assert.Equal(t, model.FolderImages, m.Folder)
	assert.Equal(t, "Our team", m.Alt)
	assert.Equal(t, int64(400), m.Width)
	assert.Equal(t, int64(200), m.Height)
	assert.NotContains(t, m.OriginalName, "/")
	assert.True(t, strings.HasPrefix(m.URL, "/uploads/images/"), m.URL)
	assert.Contains(t, m.ThumbnailURL, "/thumbs/")

	assert.FileExists(t, env.storedPath(m.URL))
	assert.FileExists(t, env.storedPath(m.ThumbnailURL))

	w = env.do(t, http.MethodGet, idPath("/api/media", m.ID), nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, m.URL, decodeData[store.Medium](t, w).URL)
}

func TestUploadMedia_Rejected(t *testing.T) {
	env := newTestEnv(t)

	assertStatusCode(t, env.upload(t, "a.png", testPNG(t, 4, 4), nil, ""), http.StatusUnauthorized)

	w := env.upload(t, "", nil, map[string]string{"alt": "no file"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"file"}, fieldsOf(t, w))

	w = env.upload(t, "a.png", testPNG(t, 4, 4), map[string]string{"folder": "secrets"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"folder"}, fieldsOf(t, w))

	w = env.upload(t, "script.png", []byte("#!/bin/sh\necho pwned\n"), nil, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)

	w = env.upload(t, "huge.pdf", append([]byte("%PDF-1.4\n"), make([]byte, 1<<20)...), nil, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"file"}, fieldsOf(t, w))

	entries, err := os.ReadDir(env.media.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave nothing on disk")
}

func TestMediaUpdateListDelete(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "logo.png", testPNG(t, 8, 8), nil, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	m := decodeData[store.Medium](t, w)

	w = env.upload(t, "brochure.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"), nil, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	pdf := decodeData[store.Medium](t, w)
	assert.Equal(t, model.FolderDocuments, pdf.Folder)
	assert.Empty(t, pdf.ThumbnailURL)

	w = env.do(t, http.MethodGet, "/api/media?type=image", nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)

	w = env.do(t, http.MethodGet, "/api/media?folder=documents", nil, env.editorToken)
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)

	w = env.do(t, http.MethodPut, idPath("/api/media", m.ID), map[string]any{"caption": "Brand mark", "folder": "general"}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	updated := decodeData[store.Medium](t, w)
	assert.Equal(t, "Brand mark", updated.Caption)
	assert.Equal(t, model.FolderGeneral, updated.Folder)
	assert.Equal(t, m.URL, updated.URL, "metadata updates do not move the file")

	w = env.do(t, http.MethodPut, idPath("/api/media", m.ID), map[string]any{"folder": "../etc"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"folder"}, fieldsOf(t, w))

	assertStatusCode(t, env.do(t, http.MethodDelete, idPath("/api/media", m.ID), nil, env.editorToken), http.StatusForbidden)
	assertStatusCode(t, env.do(t, http.MethodDelete, idPath("/api/media", m.ID), nil, env.adminToken), http.StatusOK)

	assert.NoFileExists(t, env.storedPath(m.URL))
	assert.NoFileExists(t, env.storedPath(m.ThumbnailURL))
	assertStatusCode(t, env.do(t, http.MethodGet, idPath("/api/media", m.ID), nil, env.adminToken), http.StatusNotFound)
}
