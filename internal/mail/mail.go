// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends transactional email over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/olegiv/sitecms-go/internal/store"
)

// Config holds SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Notify   string // recipient of enquiry notifications
	AdminURL string // base URL of the admin dashboard
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer composes and sends the application's email.
type Mailer struct {
	cfg    Config
	logger *slog.Logger

	once   sync.Once
	dialer Sender
	dial   func(Config) Sender
}

// New creates a Mailer. The SMTP dialer is built on first use.
func New(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		dial: func(c Config) Sender {
			return gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
		},
	}
}

// NewWithSender creates a Mailer that delivers through s instead of dialing
// the configured SMTP host.
func NewWithSender(cfg Config, logger *slog.Logger, s Sender) *Mailer {
	m := New(cfg, logger)
	m.dial = func(Config) Sender { return s }
	return m
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != ""
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !m.Enabled() {
		m.logger.Debug("mail disabled, message dropped", "to", to, "subject", subject)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.once.Do(func() { m.dialer = m.dial(m.cfg) })

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending %q to %s: %w", subject, to, err)
	}
	return nil
}

var enquiryTmpl = template.Must(template.New("enquiry").Parse(`<h2>New enquiry {{.Reference}}</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
{{if .Phone}}<tr><td>Phone</td><td>{{.Phone}}</td></tr>{{end}}
{{if .Company}}<tr><td>Company</td><td>{{.Company}}</td></tr>{{end}}
{{if .Service}}<tr><td>Service</td><td>{{.Service}}</td></tr>{{end}}
{{if .Budget}}<tr><td>Budget</td><td>{{.Budget}}</td></tr>{{end}}
{{if .Timeline}}<tr><td>Timeline</td><td>{{.Timeline}}</td></tr>{{end}}
{{if .Country}}<tr><td>Country</td><td>{{.Country}}</td></tr>{{end}}
</table>
<p>{{.Message}}</p>`))

// SendEnquiryNotification tells the configured notify address about a new
// enquiry. It is a no-op when no notify address is set.
func (m *Mailer) SendEnquiryNotification(ctx context.Context, e *store.Enquiry) error {
	if m == nil || m.cfg.Notify == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := enquiryTmpl.Execute(&buf, e); err != nil {
		return fmt.Errorf("rendering enquiry email: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New enquiry %s\n\n", e.Reference)
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\n", e.Name, e.Email)
	for _, kv := range [][2]string{
		{"Phone", e.Phone}, {"Company", e.Company}, {"Service", e.Service},
		{"Budget", e.Budget}, {"Timeline", e.Timeline}, {"Country", e.Country},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&text, "%s: %s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintf(&text, "\n%s\n", e.Message)

	subject := fmt.Sprintf("New enquiry from %s (%s)", e.Name, e.Reference)
	return m.send(ctx, m.cfg.Notify, subject, buf.String(), text.String())
}

var resetTmpl = template.Must(template.New("reset").Parse(`<p>Hello {{.Name}},</p>
<p>A password reset was requested for your account. The link below is valid for {{.Valid}}.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>If you did not request this, ignore this email.</p>`))

// ResetLink builds the dashboard URL that carries a raw reset token.
func (m *Mailer) ResetLink(token string) string {
	return strings.TrimRight(m.cfg.AdminURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// SendPasswordReset emails a reset link to an administrator.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token, valid string) error {
	if m == nil {
		return nil
	}
	link := m.ResetLink(token)

	var buf bytes.Buffer
	data := struct{ Name, Link, Valid string }{name, link, valid}
	if err := resetTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering reset email: %w", err)
	}

	text := fmt.Sprintf("Hello %s,\n\nReset your password within %s:\n%s\n\nIf you did not request this, ignore this email.\n",
		name, valid, link)
	return m.send(ctx, to, "Password reset", buf.String(), text)
}
