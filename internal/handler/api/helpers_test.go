// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/content"
	"github.com/olegiv/sitecms-go/internal/media"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/session"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/testutil"
)

const testPassword = "correct-horse-battery"

// testEnv is a fully wired API over a migrated temporary database.
type testEnv struct {
	db       *sql.DB
	h        *Handler
	router   chi.Router
	sessions *session.Manager
	media    *media.Storage

	admin       store.Admin
	editor      store.Admin
	adminToken  string
	editorToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	logger := testutil.TestLoggerSilent()
	sessions := session.NewManager(queries, session.Config{
		Secret:     []byte("test-secret-0123456789-ABCDEFGHIJ!"),
		Issuer:     "sitecms-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	storage := media.NewStorage(t.TempDir(), "/uploads", 1<<20)

	h := NewHandler(Deps{
		DB:            db,
		Sessions:      sessions,
		Content:       content.NewService(queries, nil, time.Minute, logger),
		Media:         storage,
		Logger:        logger,
		IsDevelopment: true,
		SiteName:      "Test Site",
	})

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		h.Routes(r, Limiters{})
	})

	env := &testEnv{db: db, h: h, router: router, sessions: sessions, media: storage}
	env.admin = testutil.CreateAdmin(t, db, "admin@example.com", testPassword, model.RoleAdmin)
	env.editor = testutil.CreateAdmin(t, db, "editor@example.com", testPassword, model.RoleEditor)
	env.adminToken = env.token(t, env.admin)
	env.editorToken = env.token(t, env.editor)
	return env
}

func (e *testEnv) token(t *testing.T, admin store.Admin) string {
	t.Helper()
	pair, err := e.sessions.Issue(context.Background(), admin, session.ClientInfo{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)
	return pair.AccessToken
}

// do sends a request through the router. body may be nil, a string or any
// value that is JSON encoded.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "203.0.113.10:4321"

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope is Response with data left raw for typed decoding.
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Pagination *Pagination       `json:"pagination"`
	Errors     []json.RawMessage `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// decodeData decodes the data member of the response into T.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &out), "data: %s", env.Data)
	return out
}

// fieldsOf returns the field names listed in a validation failure.
func fieldsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	fields := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

// assertStatusCode checks that the response has the expected status code.
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}
