// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors selected records into
// the events table, which backs the admin audit log.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/store"
)

// Attribute keys with special meaning to the handler.
const (
	KeyCategory = "category"
	KeyAdminID  = "admin_id"
	// KeyAudit marks a record for persistence regardless of its level.
	KeyAudit = "audit"
)

// writeTimeout bounds a single event insert.
const writeTimeout = 2 * time.Second

// EventWriter persists audit events. *store.Queries implements it.
type EventWriter interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (store.Event, error)
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level, plus records tagged audit=true, to the
// events table.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewEventLogHandler wraps inner. Records at level and above are persisted.
func NewEventLogHandler(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{inner: inner, events: events, level: level}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level || h.isAudit(r) {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if name != "" {
		if clone.group != "" {
			clone.group += "."
		}
		clone.group += name
	}
	return &clone
}

// qualify prefixes attribute keys with the current group path.
func (h *EventLogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// all returns handler attributes followed by record attributes.
func (h *EventLogHandler) all(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	var rec []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		rec = append(rec, a)
		return true
	})
	return append(attrs, h.qualify(rec)...)
}

func (h *EventLogHandler) isAudit(r slog.Record) bool {
	for _, a := range h.all(r) {
		if a.Key == KeyAudit {
			v := a.Value.Resolve()
			return v.Kind() == slog.KindBool && v.Bool()
		}
	}
	return false
}

// writeEvent persists a record. The request context may already be cancelled,
// so a fresh bounded context is used. Failures are dropped: logging them
// would re-enter this handler.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	attrs := h.all(r)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, _ = h.events.CreateEvent(ctx, store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		Metadata:  metadata(attrs),
		AdminID:   adminID(attrs),
		CreatedAt: r.Time.UTC(),
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// category returns the explicit category attribute or infers one from the message.
func category(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == KeyCategory {
			if c := a.Value.Resolve().String(); c != "" {
				return c
			}
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "password") || strings.Contains(msg, "token"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "enquiry"):
		return model.EventCategoryEnquiry
	case strings.Contains(msg, "media") || strings.Contains(msg, "upload"):
		return model.EventCategoryMedia
	case strings.Contains(msg, "setting"):
		return model.EventCategorySettings
	case strings.Contains(msg, "content") || strings.Contains(msg, "page") || strings.Contains(msg, "section"):
		return model.EventCategoryContent
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "locked"):
		return model.EventCategorySecurity
	default:
		return model.EventCategorySystem
	}
}

func adminID(attrs []slog.Attr) *int64 {
	for _, a := range attrs {
		if a.Key != KeyAdminID {
			continue
		}
		v := a.Value.Resolve()
		switch v.Kind() {
		case slog.KindInt64:
			id := v.Int64()
			return &id
		case slog.KindUint64:
			id := int64(v.Uint64())
			return &id
		}
	}
	return nil
}

// metadata encodes the remaining attributes as a JSON object.
func metadata(attrs []slog.Attr) store.RawJSON {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		switch a.Key {
		case KeyCategory, KeyAudit, KeyAdminID:
			continue
		}
		flatten(m, a.Key, a.Value)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return store.RawJSON("{}")
	}
	return store.RawJSON(b)
}

func flatten(m map[string]any, key string, v slog.Value) {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		for _, a := range v.Group() {
			flatten(m, key+"."+a.Key, a.Value)
		}
	case slog.KindString:
		m[key] = v.String()
	case slog.KindInt64:
		m[key] = v.Int64()
	case slog.KindUint64:
		m[key] = v.Uint64()
	case slog.KindFloat64:
		m[key] = v.Float64()
	case slog.KindBool:
		m[key] = v.Bool()
	case slog.KindDuration:
		m[key] = v.Duration().String()
	case slog.KindTime:
		m[key] = v.Time().UTC().Format(time.RFC3339)
	default:
		if err, ok := v.Any().(error); ok {
			m[key] = err.Error()
			return
		}
		m[key] = fmt.Sprint(v.Any())
	}
}

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
