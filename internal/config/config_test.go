// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment and set only required var
	os.Clearenv()
	setEnv(t, "SITECMS_JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/sitecms.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/sitecms.db")
	}
	if cfg.ServerPort != 5000 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 5000)
	}
	if cfg.JWTExpire != "7d" {
		t.Errorf("JWTExpire = %q, want %q", cfg.JWTExpire, "7d")
	}
	if cfg.JWTRefreshExpire != "30d" {
		t.Errorf("JWTRefreshExpire = %q, want %q", cfg.JWTRefreshExpire, "30d")
	}
	if cfg.RateLimitStore != "memory" {
		t.Errorf("RateLimitStore = %q, want %q", cfg.RateLimitStore, "memory")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true without SMTP host")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SITECMS_JWT_SECRET", testSecret)
	setEnv(t, "SITECMS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "SITECMS_SERVER_PORT", "3000")
	setEnv(t, "SITECMS_ENV", "production")
	setEnv(t, "SITECMS_JWT_EXPIRE", "15m")
	setEnv(t, "SITECMS_CORS_ORIGINS", "https://example.com")
	setEnv(t, "SITECMS_SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.JWTExpire != "15m" {
		t.Errorf("JWTExpire = %q, want %q", cfg.JWTExpire, "15m")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled() = false, want true")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without SITECMS_JWT_SECRET")
	}
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "short secret",
			env:     map[string]string{"SITECMS_JWT_SECRET": "short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "weak secret",
			env:     map[string]string{"SITECMS_JWT_SECRET": "change-me-to-32-byte-secret-key!"},
			wantErr: "known default value",
		},
		{
			name: "bad access ttl",
			env: map[string]string{
				"SITECMS_JWT_SECRET": testSecret,
				"SITECMS_JWT_EXPIRE": "soon",
			},
			wantErr: "SITECMS_JWT_EXPIRE",
		},
		{
			name: "redis limiter without url",
			env: map[string]string{
				"SITECMS_JWT_SECRET":       testSecret,
				"SITECMS_RATE_LIMIT_STORE": "redis",
			},
			wantErr: "requires SITECMS_REDIS_URL",
		},
		{
			name: "unknown limiter store",
			env: map[string]string{
				"SITECMS_JWT_SECRET":       testSecret,
				"SITECMS_RATE_LIMIT_STORE": "memcached",
			},
			wantErr: "memory or redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaaAAAAAAAAAAAAAAAA", false},
		{"aaaaaaaaaaaaaaaAAAAAAAAAAAAAAA11", true},
		{"abc-DEF-ghi-JKL-mno-PQR-stu-VWX!", true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
