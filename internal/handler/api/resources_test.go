// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

func TestCaseStudies(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/case-studies", CaseStudyRequest{
		Title:        "Retail Replatform",
		Client:       "Acme",
		Summary:      "Moved a storefront to the cloud.",
		Metrics:      []CaseStudyMetric{{Label: "Conversion", Value: "+32%"}},
		Technologies: []string{"Go", "SQLite"},
		Status:       model.StatusPublished,
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	cs := decodeData[store.CaseStudy](t, w)
	assert.Equal(t, "retail-replatform", cs.Slug)
	assert.NotNil(t, cs.PublishedAt)
	assert.JSONEq(t, `[{"label":"Conversion","value":"+32%"}]`, string(cs.Metrics))

	w = env.do(t, http.MethodPost, "/api/case-studies", CaseStudyRequest{
		Title: "Hidden", Client: "Beta", Summary: "Not yet.",
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	draft := decodeData[store.CaseStudy](t, w)
	assert.Equal(t, model.StatusDraft, draft.Status)

	w = env.do(t, http.MethodGet, "/api/case-studies", nil, "")
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)
	assertStatusCode(t, env.do(t, http.MethodGet, "/api/case-studies/slug/hidden", nil, ""), http.StatusNotFound)
	assertStatusCode(t, env.do(t, http.MethodGet, "/api/case-studies/slug/retail-replatform", nil, ""), http.StatusOK)

	// Updates keep fields the body leaves out.
	w = env.do(t, http.MethodPut, idPath("/api/case-studies", cs.ID), map[string]any{"featured": true}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	updated := decodeData[store.CaseStudy](t, w)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Acme", updated.Client)
	assert.Equal(t, store.StringList{"Go", "SQLite"}, updated.Technologies)

	w = env.do(t, http.MethodPut, idPath("/api/case-studies", draft.ID), map[string]any{"slug": "retail-replatform"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"slug"}, fieldsOf(t, w))

	w = env.do(t, http.MethodPost, "/api/case-studies", CaseStudyRequest{
		Title: "Bad Metric", Client: "C", Summary: "S", Metrics: []CaseStudyMetric{{Label: "only label"}},
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"metrics[0].value"}, fieldsOf(t, w))
}

func TestTestimonials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/testimonials", map[string]any{
		"name": "Jane", "quote": "Great team.", "company": "Acme",
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	active := decodeData[store.Testimonial](t, w)
	assert.Equal(t, int64(5), active.Rating)
	assert.True(t, active.IsActive)

	w = env.do(t, http.MethodPost, "/api/testimonials", map[string]any{
		"name": "Joe", "quote": "Fine.", "isActive": false, "rating": 3,
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	inactive := decodeData[store.Testimonial](t, w)

	w = env.do(t, http.MethodGet, "/api/testimonials", nil, "")
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)
	w = env.do(t, http.MethodGet, "/api/testimonials", nil, env.editorToken)
	assert.Equal(t, int64(2), decodeEnvelope(t, w).Pagination.Total)

	assertStatusCode(t, env.do(t, http.MethodGet, idPath("/api/testimonials", inactive.ID), nil, ""), http.StatusNotFound)
	assertStatusCode(t, env.do(t, http.MethodGet, idPath("/api/testimonials", active.ID), nil, ""), http.StatusOK)

	w = env.do(t, http.MethodPut, idPath("/api/testimonials", active.ID), map[string]any{"rating": 6}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"rating"}, fieldsOf(t, w))
}

func TestTeamMembers(t *testing.T) {
	env := newTestEnv(t)

	for i, name := range []string{"Ann", "Bob", "Cid"} {
		w := env.do(t, http.MethodPost, "/api/team", map[string]any{
			"name": name, "position": "Engineer", "department": "Engineering", "order": 3 - i,
		}, env.editorToken)
		assertStatusCode(t, w, http.StatusCreated)
	}

	w := env.do(t, http.MethodGet, "/api/team", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	members := decodeData[[]store.TeamMember](t, w)
	require.Len(t, members, 3)
	assert.Equal(t, "Cid", members[0].Name, "sorted by order ascending")

	w = env.do(t, http.MethodPost, "/api/team", map[string]any{
		"name": "Dee", "position": "Designer", "linkedin": "not a url",
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"linkedin"}, fieldsOf(t, w))
}

func TestClients(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/clients", map[string]any{
		"name": "Acme", "website": "https://acme.example", "industry": "Retail", "featured": true,
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	client := decodeData[store.Client](t, w)

	w = env.do(t, http.MethodGet, "/api/clients?featured=true&industry=Retail", nil, "")
	assert.Equal(t, int64(1), decodeEnvelope(t, w).Pagination.Total)

	w = env.do(t, http.MethodPut, idPath("/api/clients", client.ID), map[string]any{"isActive": false}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "https://acme.example", decodeData[store.Client](t, w).Website)

	assertStatusCode(t, env.do(t, http.MethodGet, idPath("/api/clients", client.ID), nil, ""), http.StatusNotFound)
	assertStatusCode(t, env.do(t, http.MethodDelete, idPath("/api/clients", client.ID), nil, env.adminToken), http.StatusOK)
}

func TestPageSeo(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/page-seo", PageSeoRequest{
		Page: "About", Title: "About us", Keywords: []string{" agency ", "", "design"},
	}, env.editorToken)
	assertStatusCode(t, w, http.StatusCreated)
	seo := decodeData[store.PageSeo](t, w)
	assert.Equal(t, "about", seo.Page)
	assert.Equal(t, store.StringList{"agency", "design"}, seo.Keywords)

	w = env.do(t, http.MethodPost, "/api/page-seo", PageSeoRequest{Page: "about"}, env.editorToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"page"}, fieldsOf(t, w))

	w = env.do(t, http.MethodGet, "/api/page-seo/page/about", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, seo.ID, decodeData[store.PageSeo](t, w).ID)

	assertStatusCode(t, env.do(t, http.MethodGet, "/api/page-seo/page/missing", nil, ""), http.StatusNotFound)

	w = env.do(t, http.MethodPut, idPath("/api/page-seo", seo.ID), map[string]any{"noIndex": true}, env.editorToken)
	assertStatusCode(t, w, http.StatusOK)
	updated := decodeData[store.PageSeo](t, w)
	assert.True(t, updated.NoIndex)
	assert.Equal(t, "About us", updated.Title)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/settings", nil, "")
	assertStatusCode(t, w, http.StatusOK)
	settings := decodeData[store.Setting](t, w)
	assert.Equal(t, "Test Site", settings.SiteName)

	body := map[string]any{
		"tagline": "We ship",
		"social":  map[string]string{"twitter": "https://twitter.com/acme"},
	}
	assertStatusCode(t, env.do(t, http.MethodPut, "/api/settings", body, ""), http.StatusUnauthorized)
	assertStatusCode(t, env.do(t, http.MethodPut, "/api/settings", body, env.editorToken), http.StatusForbidden)

	w = env.do(t, http.MethodPut, "/api/settings", body, env.adminToken)
	assertStatusCode(t, w, http.StatusOK)

	settings = decodeData[store.Setting](t, env.do(t, http.MethodGet, "/api/settings", nil, ""))
	assert.Equal(t, "Test Site", settings.SiteName)
	assert.Equal(t, "We ship", settings.Tagline)
	var social map[string]string
	require.NoError(t, json.Unmarshal(settings.Social, &social))
	assert.Equal(t, "https://twitter.com/acme", social["twitter"])

	// An empty value drops the link.
	w = env.do(t, http.MethodPut, "/api/settings", map[string]any{"social": map[string]string{"twitter": ""}}, env.adminToken)
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `{}`, string(decodeData[store.Setting](t, w).Social))

	w = env.do(t, http.MethodPut, "/api/settings", map[string]any{"contactEmail": "nope"}, env.adminToken)
	assertStatusCode(t, w, http.StatusBadRequest)
	assert.Equal(t, []string{"contactEmail"}, fieldsOf(t, w))
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	queries := store.New(env.db)
	ctx := context.Background()

	for _, e := range []store.CreateEventParams{
		{Level: model.EventLevelWarning, Category: model.EventCategorySecurity, Message: "access denied"},
		{Level: model.EventLevelInfo, Category: model.EventCategoryContent, Message: "blog created"},
	} {
		e.Metadata = store.RawJSON(`{}`)
		e.CreatedAt = time.Now().UTC()
		_, err := queries.CreateEvent(ctx, e)
		require.NoError(t, err)
	}

	assertStatusCode(t, env.do(t, http.MethodGet, "/api/events", nil, env.editorToken), http.StatusForbidden)

	w := env.do(t, http.MethodGet, "/api/events?category=security", nil, env.adminToken)
	assertStatusCode(t, w, http.StatusOK)
	events := decodeData[[]store.Event](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "access denied", events[0].Message)
}
