// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/util"
)

const (
	defaultEnquirySource = "website"
	notifyTimeout        = 30 * time.Second
	statsWindow          = 30 * 24 * time.Hour
)

// CreateEnquiryRequest is the public contact form.
type CreateEnquiryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"max=30"`
	Company  string `json:"company" validate:"max=100"`
	Service  string `json:"service" validate:"max=100"`
	Budget   string `json:"budget" validate:"max=50"`
	Timeline string `json:"timeline" validate:"max=50"`
	Message  string `json:"message" validate:"required,min=10,max=5000"`
	Source   string `json:"source" validate:"max=50"`
}

func (r *CreateEnquiryRequest) normalize() { r.Email = normalizeEmail(r.Email) }

// UpdateEnquiryStatusRequest is the body of PATCH /api/enquiries/{id}/status.
// Omitted fields keep their value; an assignedTo of 0 clears the assignee.
type UpdateEnquiryStatusRequest struct {
	Status     string `json:"status" validate:"omitempty,enquiry_status"`
	Priority   string `json:"priority" validate:"omitempty,enquiry_priority"`
	AssignedTo *int64 `json:"assignedTo" validate:"omitnil,gte=0"`
}

// EnquiryNoteRequest is the body of POST /api/enquiries/{id}/notes.
type EnquiryNoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// EnquiryDetail is an enquiry with its notes, oldest first.
type EnquiryDetail struct {
	store.Enquiry
	Notes []store.EnquiryNote `json:"notes"`
}

// EnquiryStats summarises the pipeline.
type EnquiryStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"byStatus"`
	ByPriority     map[string]int64 `json:"byPriority"`
	Last30Days     int64            `json:"last30Days"`
	ConversionRate float64          `json:"conversionRate"`
}

// CreateEnquiry handles POST /api/enquiries. It is public and rate limited.
func (h *Handler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req CreateEnquiryRequest
	if !h.bind(w, r, &req) {
		return
	}

	ip := middleware.ClientIP(r, h.trustProxy)
	agent := parseVisitorAgent(r.UserAgent())
	now := h.now()

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultEnquirySource
	}

	enquiry, err := h.queries.CreateEnquiry(r.Context(), store.CreateEnquiryParams{
		Reference: util.NewReference(now),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Service:   strings.TrimSpace(req.Service),
		Budget:    req.Budget,
		Timeline:  req.Timeline,
		Message:   strings.TrimSpace(req.Message),
		Source:    source,
		Priority:  model.PriorityMedium,
		IP:        ip,
		UserAgent: r.UserAgent(),
		Browser:   agent.Browser,
		OS:        agent.OS,
		Device:    agent.Device,
		Country:   h.geoip.Country(ip),
		CreatedAt: now,
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.metrics.EnquiryReceived()
	h.logger.Info("enquiry received",
		"category", model.EventCategoryEnquiry, "audit", true,
		"reference", enquiry.Reference, "service", enquiry.Service, "country", enquiry.Country)

	if h.mailer.Enabled() {
		go h.notifyEnquiry(context.WithoutCancel(r.Context()), enquiry)
	}

	WriteCreated(w, map[string]string{"reference": enquiry.Reference},
		"Thank you for your enquiry. We will get back to you soon.")
}

func (h *Handler) notifyEnquiry(ctx context.Context, e store.Enquiry) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := h.mailer.SendEnquiryNotification(ctx, &e); err != nil {
		h.logger.Warn("enquiry notification failed",
			"category", model.EventCategoryEnquiry, "reference", e.Reference, "error", err)
	}
}

// parseDateParam accepts RFC 3339 or a plain date. A plain date used as an
// upper bound covers the whole day.
func parseDateParam(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// enquiryFilters reads the filters shared by the list and export endpoints.
// It writes a 400 and returns false on a malformed value.
func enquiryFilters(w http.ResponseWriter, r *http.Request, lq ListQuery) (store.ListEnquiriesParams, bool) {
	q := r.URL.Query()
	params := store.ListEnquiriesParams{
		ListParams: lq.Params(),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		Service:    q.Get("service"),
	}

	if params.Status != "" && !model.IsEnquiryStatus(params.Status) {
		WriteValidationError(w, fieldError("status", "Must be one of: "+strings.Join(model.EnquiryStatuses, ", ")))
		return params, false
	}
	if params.Priority != "" && !model.IsEnquiryPriority(params.Priority) {
		WriteValidationError(w, fieldError("priority", "Must be one of: "+strings.Join(model.EnquiryPriorities, ", ")))
		return params, false
	}

	var err error
	if params.From, err = parseDateParam(q.Get("from"), false); err != nil {
		WriteValidationError(w, fieldError("from", "Must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
		return params, false
	}
	if params.To, err = parseDateParam(q.Get("to"), true); err != nil {
		WriteValidationError(w, fieldError("to", "Must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
		return params, false
	}
	return params, true
}

// ListEnquiries handles GET /api/enquiries.
func (h *Handler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "desc")
	params, ok := enquiryFilters(w, r, lq)
	if !ok {
		return
	}

	items, total, err := h.queries.ListEnquiries(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteList(w, items, lq.Paginate(total))
}

// GetEnquiry handles GET /api/enquiries/{id}.
func (h *Handler) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	id, enquiry, ok := requireEntityByID(h, w, r, "enquiry", func(id int64) (store.Enquiry, error) {
		return h.queries.GetEnquiryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	notes, err := h.queries.ListEnquiryNotes(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteSuccess(w, EnquiryDetail{Enquiry: enquiry, Notes: orEmpty(notes)})
}

// UpdateEnquiryStatus handles PATCH /api/enquiries/{id}/status.
func (h *Handler) UpdateEnquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, existing, ok := requireEntityByID(h, w, r, "enquiry", func(id int64) (store.Enquiry, error) {
		return h.queries.GetEnquiryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req UpdateEnquiryStatusRequest
	if !h.bind(w, r, &req) {
		return
	}

	params := store.UpdateEnquiryWorkflowParams{
		ID:         id,
		Status:     existing.Status,
		Priority:   existing.Priority,
		AssignedTo: existing.AssignedTo,
		UpdatedAt:  h.now(),
	}
	if req.Status != "" {
		params.Status = req.Status
	}
	if req.Priority != "" {
		params.Priority = req.Priority
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == 0 {
			params.AssignedTo = nil
		} else {
			if _, err := h.queries.GetAdminByID(r.Context(), *req.AssignedTo); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					WriteValidationError(w, fieldError("assignedTo", "User not found"))
					return
				}
				h.WriteServiceError(w, r, err)
				return
			}
			params.AssignedTo = req.AssignedTo
		}
	}

	enquiry, err := h.queries.UpdateEnquiryWorkflow(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	h.auditLog(r, model.EventCategoryEnquiry).Info("enquiry updated",
		"reference", enquiry.Reference, "status", enquiry.Status, "priority", enquiry.Priority)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: enquiry, Message: "Enquiry updated"})
}

// AddEnquiryNote handles POST /api/enquiries/{id}/notes.
func (h *Handler) AddEnquiryNote(w http.ResponseWriter, r *http.Request) {
	id, _, ok := requireEntityByID(h, w, r, "enquiry", func(id int64) (store.Enquiry, error) {
		return h.queries.GetEnquiryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req EnquiryNoteRequest
	if !h.bind(w, r, &req) {
		return
	}

	note, err := h.queries.CreateEnquiryNote(r.Context(), store.CreateEnquiryNoteParams{
		EnquiryID: id,
		Content:   strings.TrimSpace(req.Content),
		AuthorID:  principalID(r),
		CreatedAt: h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	WriteCreated(w, note, "Note added")
}

// DeleteEnquiry handles DELETE /api/enquiries/{id}.
func (h *Handler) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deleteByID(w, r, "enquiry", func(id int64) (int64, error) {
		return h.queries.DeleteEnquiry(r.Context(), id)
	})
	if !ok {
		return
	}

	h.auditLog(r, model.EventCategoryEnquiry).Info("enquiry deleted", "enquiry_id", id)
	WriteMessage(w, "Enquiry deleted")
}

var enquiryCSVHeader = []string{
	"Reference", "Name", "Email", "Phone", "Company", "Service", "Budget", "Timeline",
	"Message", "Source", "Status", "Priority", "Country", "Created At",
}

// ExportEnquiries handles GET /api/enquiries/export. It honours the list
// filters but ignores pagination.
func (h *Handler) ExportEnquiries(w http.ResponseWriter, r *http.Request) {
	lq := ParseListQuery(r, "desc")
	params, ok := enquiryFilters(w, r, lq)
	if !ok {
		return
	}
	params.Limit, params.Offset = 0, 0

	items, _, err := h.queries.ListEnquiries(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	filename := "enquiries-" + h.now().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(enquiryCSVHeader)
	for _, e := range items {
		_ = cw.Write([]string{
			e.Reference, csvSafe(e.Name), e.Email, csvSafe(e.Phone), csvSafe(e.Company),
			csvSafe(e.Service), csvSafe(e.Budget), csvSafe(e.Timeline), csvSafe(e.Message),
			csvSafe(e.Source), e.Status, e.Priority, e.Country, e.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("enquiry export failed", "error", err)
		return
	}

	h.auditLog(r, model.EventCategoryEnquiry).Info("enquiries exported", "count", len(items))
}

// csvSafe neutralises values a spreadsheet would evaluate as a formula.
func csvSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// EnquiryStatistics handles GET /api/enquiries/stats.
func (h *Handler) EnquiryStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	byStatus, err := h.queries.CountEnquiriesByStatus(ctx)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	byPriority, err := h.queries.CountEnquiriesByPriority(ctx)
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}
	recent, err := h.queries.CountEnquiriesSince(ctx, h.now().Add(-statsWindow))
	if err != nil {
		h.WriteServiceError(w, r, err)
		return
	}

	stats := EnquiryStats{
		ByStatus:   bucketCounts(model.EnquiryStatuses, byStatus),
		ByPriority: bucketCounts(model.EnquiryPriorities, byPriority),
		Last30Days: recent,
	}
	for _, n := range stats.ByStatus {
		stats.Total += n
	}
	if stats.Total > 0 {
		rate := float64(stats.ByStatus[model.EnquiryClosed]) / float64(stats.Total) * 100
		stats.ConversionRate = math.Round(rate*100) / 100
	}
	WriteSuccess(w, stats)
}

// bucketCounts returns a map with every known key present.
func bucketCounts(keys []string, rows []store.CountRow) map[string]int64 {
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out
}
