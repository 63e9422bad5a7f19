// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/testutil"
)

type recorder struct {
	sent []*gomail.Message
	err  error
}

func (r *recorder) DialAndSend(m ...*gomail.Message) error {
	r.sent = append(r.sent, m...)
	return r.err
}

func newTestMailer(cfg Config) (*Mailer, *recorder, *int) {
	rec := &recorder{}
	dials := 0
	m := New(cfg, testutil.TestLoggerSilent())
	m.dial = func(Config) Sender {
		dials++
		return rec
	}
	return m, rec, &dials
}

func body(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestDisabledDropsMessages(t *testing.T) {
	m, rec, dials := newTestMailer(Config{Notify: "ops@example.com"})

	assert.False(t, m.Enabled())
	require.NoError(t, m.SendEnquiryNotification(context.Background(), &store.Enquiry{Name: "A"}))
	assert.Empty(t, rec.sent)
	assert.Zero(t, *dials)
}

func TestSendEnquiryNotification(t *testing.T) {
	m, rec, dials := newTestMailer(Config{Host: "smtp.example.com", From: "noreply@example.com", Notify: "ops@example.com"})

	e := &store.Enquiry{Reference: "ENQ-1", Name: "Jane <b>", Email: "jane@example.com", Company: "Acme", Message: "Hi"}
	require.NoError(t, m.SendEnquiryNotification(context.Background(), e))
	require.NoError(t, m.SendEnquiryNotification(context.Background(), e))

	require.Len(t, rec.sent, 2)
	assert.Equal(t, 1, *dials)
	assert.Equal(t, []string{"ops@example.com"}, rec.sent[0].GetHeader("To"))
	assert.Contains(t, rec.sent[0].GetHeader("Subject")[0], "ENQ-1")

	raw := body(t, rec.sent[0])
	assert.Contains(t, raw, "Acme")
	assert.Contains(t, raw, "Jane &lt;b&gt;")
}

func TestSendEnquiryNotification_NoRecipient(t *testing.T) {
	m, rec, _ := newTestMailer(Config{Host: "smtp.example.com"})

	require.NoError(t, m.SendEnquiryNotification(context.Background(), &store.Enquiry{}))
	assert.Empty(t, rec.sent)
}

func TestSendPasswordReset(t *testing.T) {
	m, rec, _ := newTestMailer(Config{Host: "smtp.example.com", From: "noreply@example.com", AdminURL: "https://admin.example.com/"})

	require.NoError(t, m.SendPasswordReset(context.Background(), "a@example.com", "Ann", "abc123", "1 hour"))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, []string{"a@example.com"}, rec.sent[0].GetHeader("To"))
	// quoted-printable encodes "=" as "=3D"
	assert.Contains(t, body(t, rec.sent[0]), "https://admin.example.com/reset-password?token=3Dabc123")
}

func TestSendError(t *testing.T) {
	m, rec, _ := newTestMailer(Config{Host: "smtp.example.com", Notify: "ops@example.com"})
	rec.err = errors.New("connection refused")

	err := m.SendEnquiryNotification(context.Background(), &store.Enquiry{Reference: "ENQ-2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, rec.err)
}

func TestResetLinkEscapesToken(t *testing.T) {
	m := New(Config{AdminURL: "http://localhost:3001"}, testutil.TestLoggerSilent())
	assert.Equal(t, "http://localhost:3001/reset-password?token=a%2Bb", m.ResetLink("a+b"))
}

func TestNewWithSender(t *testing.T) {
	rec := &recorder{}
	m := NewWithSender(Config{Host: "smtp.example.com", Notify: "ops@example.com"}, testutil.TestLoggerSilent(), rec)

	require.NoError(t, m.SendEnquiryNotification(context.Background(), &store.Enquiry{Reference: "ENQ-3"}))
	assert.Len(t, rec.sent, 1)
}
