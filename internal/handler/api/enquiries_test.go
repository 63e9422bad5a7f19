// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/util"
)

func submitEnquiry(t *testing.T, env *testEnv, name string) store.Enquiry {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/enquiries", CreateEnquiryRequest{
		Name:    name,
		Email:   "  Client@Example.COM ",
		Company: "Acme",
		Service: "web-development",
		Message: "We need a new marketing site by spring.",
	}, "")
	assertStatusCode(t, w, http.StatusCreated)

	ref := decodeData[map[string]string](t, w)["reference"]
	require.NotEmpty(t, ref)

	w = env.do(t, http.MethodGet, "/api/enquiries?search="+ref, nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	items := decodeData[[]store.Enquiry](t, w)
	require.Len(t, items, 1)
	return items[0]
}

func TestCreateEnquiry(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/enquiries", CreateEnquiryRequest{
		Name: "Jane", Email: "jane@example.com", Message: "Please call me back about a project.",
	}, "")
	assertStatusCode(t, w, http.StatusCreated)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "Thank you for your enquiry. We will get back to you soon.", resp.Message)

	ref := decodeData[map[string]string](t, w)["reference"]
	assert.True(t, strings.HasPrefix(ref, util.ReferencePrefix), ref)

	e := submitEnquiry(t, env, "Joe")
	assert.Equal(t, "client@example.com", e.Email)
	assert.Equal(t, model.EnquiryNew, e.Status)
	assert.Equal(t, model.PriorityMedium, e.Priority)
	assert.Equal(t, "website", e.Source)
	assert.Equal(t, "203.0.113.10", e.IP)
}

func TestCreateEnquiry_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  CreateEnquiryRequest
		field string
	}{
		{"missing name", CreateEnquiryRequest{Email: "a@example.com", Message: "long enough message"}, "name"},
		{"bad email", CreateEnquiryRequest{Name: "A", Email: "nope", Message: "long enough message"}, "email"},
		{"blank email", CreateEnquiryRequest{Name: "A", Email: "   ", Message: "long enough message"}, "email"},
		{"short message", CreateEnquiryRequest{Name: "A", Email: "a@example.com", Message: "hi"}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/enquiries", tt.body, "")
			assertStatusCode(t, w, http.StatusBadRequest)
			assert.Equal(t, []string{tt.field}, fieldsOf(t, w))
		})
	}
}

func TestEnquiryWorkflow(t *testing.T) {
	env := newTestEnv(t)
	e := submitEnquiry(t, env, "Jane")
	base := idPath("/api/enquiries", e.ID)

	assertStatusCode(t, env.do(t, http.MethodGet, base, nil, ""), http.StatusUnauthorized)

	w := env.do(t, http.MethodPatch, base+"/status", map[string]any{
		"status": "qualified", "assignedTo": env.editor.ID,
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	updated := decodeData[store.Enquiry](t, w)
	assert.Equal(t, model.EnquiryQualified, updated.Status)
	assert.Equal(t, model.PriorityMedium, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, env.editor.ID, *updated.AssignedTo)

	w = env.do(t, http.MethodPatch, base+"/status", map[string]any{"assignedTo": 0, "priority": "urgent"}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	updated = decodeData[store.Enquiry](t, w)
	assert.Nil(t, updated.AssignedTo)
	assert.Equal(t, model.EnquiryQualified, updated.Status)
	assert.Equal(t, model.PriorityUrgent, updated.Priority)

	w = env.do(t, http.MethodPatch, base+"/status", map[string]any{"assignedTo": 9999}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"assignedTo"}, fieldsOf(t, w))

	w = env.do(t, http.MethodPatch, base+"/status", map[string]any{"status": "won"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"status"}, fieldsOf(t, w))

	w = env.do(t, http.MethodPost, base+"/notes", EnquiryNoteRequest{Content: "Called, sending proposal."}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	assert.Equal(t, "Note added", decodeEnvelope(t, w).Message)

	w = env.do(t, http.MethodGet, base, nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	detail := decodeData[EnquiryDetail](t, w)
	require.Len(t, detail.Notes, 1)
	assert.Equal(t, "Called, sending proposal.", detail.Notes[0].Content)
	require.NotNil(t, detail.Notes[0].AuthorID)
	assert.Equal(t, env.editor.ID, *detail.Notes[0].AuthorID)

	assertStatusCode(t, env.do(t, http.MethodPost, idPath("/api/enquiries", 9999)+"/notes",
		EnquiryNoteRequest{Content: "x"}, env.editorToken), http.StatusNotFound)

	assertStatusCode(t, env.do(t, http.MethodDelete, base, nil, env.editorToken), http.StatusForbidden)
	assertStatusCode(t, env.do(t, http.MethodDelete, base, nil, env.adminToken), http.StatusOK)
	assertStatusCode(t, env.do(t, http.MethodGet, base, nil, env.adminToken), http.StatusNotFound)
}

func TestListEnquiries_Filters(t *testing.T) {
	env := newTestEnv(t)
	e := submitEnquiry(t, env, "Jane")
	submitEnquiry(t, env, "Joe")

	w := env.do(t, http.MethodPatch, idPath("/api/enquiries", e.ID)+"/status", map[string]any{"status": "closed"}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/enquiries?status=closed", nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)

	w = env.do(t, http.MethodGet, "/api/enquiries?from=2000-01-01&to=2000-01-31", nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, int64(0), decodeEnvelope(t, w).Pagination.Total)

	tests := []struct {
		query string
		field string
	}{
		{"status=won", "status"},
		{"priority=critical", "priority"},
		{"from=yesterday", "from"},
		{"to=31/01/2000", "to"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/enquiries?"+tt.query, nil, env.editorToken)
			assertStatusCode(t, w, http.StatusBadRequest)
			assert.Equal(t, []string{tt.field}, fieldsOf(t, w))
		})
	}
}

func TestEnquiryStatistics(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"A", "B", "C"} {
		submitEnquiry(t, env, name)
	}
	e := submitEnquiry(t, env, "D")
	w := env.do(t, http.MethodPatch, idPath("/api/enquiries", e.ID)+"/status", map[string]any{"status": "closed"}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/enquiries/stats", nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	stats := decodeData[EnquiryStats](t, w)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(4), stats.Last30Days)
	assert.Equal(t, int64(3), stats.ByStatus[model.EnquiryNew])
	assert.Equal(t, int64(1), stats.ByStatus[model.EnquiryClosed])
	assert.Len(t, stats.ByStatus, len(model.EnquiryStatuses))
	assert.Len(t, stats.ByPriority, len(model.EnquiryPriorities))
	assert.Equal(t, int64(0), stats.ByPriority[model.PriorityUrgent])
	assert.InDelta(t, 25.0, stats.ConversionRate, 0.001)
}

func TestExportEnquiries(t *testing.T) {
	env := newTestEnv(t)
	submitEnquiry(t, env, "=HYPERLINK(\"http://evil\")")

	w := env.do(t, http.MethodGet, "/api/enquiries/export?limit=1", nil, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "enquiries-")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, enquiryCSVHeader, records[0])
	assert.Equal(t, `'=HYPERLINK("http://evil")`, records[1][1])
}

func TestCSVSafe(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"Acme":     "Acme",
		"=1+1":     "'=1+1",
		"+44 20":   "'+44 20",
		"-5":       "'-5",
		"@SUM(A1)": "'@SUM(A1)",
		"a=b":      "a=b",
	}
	for in, want := range tests {
		assert.Equal(t, want, csvSafe(in), in)
	}
}
