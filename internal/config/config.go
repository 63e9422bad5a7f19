// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/sitecms-go/internal/session"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-super-secret-jwt-key-change-this",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SITECMS_DB_PATH" envDefault:"./data/sitecms.db"`
	JWTSecret  string `env:"SITECMS_JWT_SECRET,required"`
	ServerHost string `env:"SITECMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SITECMS_SERVER_PORT" envDefault:"5000"`
	Env        string `env:"SITECMS_ENV" envDefault:"development"`
	SiteName   string `env:"SITECMS_SITE_NAME" envDefault:"My Website"` // initial settings.siteName
	LogLevel   string `env:"SITECMS_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"SITECMS_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL string `env:"SITECMS_UPLOADS_URL" envDefault:"/uploads"`
	MaxUpload  int64  `env:"SITECMS_MAX_UPLOAD_BYTES" envDefault:"10485760"` // 10MB

	// Token lifetimes use the "30d" / "24h" / "15m" / raw-milliseconds notation.
	JWTExpire        string `env:"SITECMS_JWT_EXPIRE" envDefault:"7d"`
	JWTRefreshExpire string `env:"SITECMS_JWT_REFRESH_EXPIRE" envDefault:"30d"`
	JWTIssuer        string `env:"SITECMS_JWT_ISSUER" envDefault:"sitecms"`

	// Origins allowed to call the API (admin dashboard, public site).
	CORSOrigins []string `env:"SITECMS_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001"`
	AdminURL    string   `env:"SITECMS_ADMIN_URL" envDefault:"http://localhost:3001"`

	// Initial administrator, created on first start when no admin with this email exists.
	AdminEmail    string `env:"SITECMS_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"SITECMS_ADMIN_PASSWORD"`
	AdminName     string `env:"SITECMS_ADMIN_NAME" envDefault:"Administrator"`

	// Cache configuration
	RedisURL     string `env:"SITECMS_REDIS_URL"`                            // Optional Redis URL for cache and rate limits
	CachePrefix  string `env:"SITECMS_CACHE_PREFIX" envDefault:"sitecms:"`   // Redis key prefix
	CacheTTL     int    `env:"SITECMS_CACHE_TTL" envDefault:"300"`           // Default cache TTL in seconds
	CacheMaxSize int    `env:"SITECMS_CACHE_MAX_SIZE" envDefault:"10000"`    // Max memory cache entries

	// Rate limiting
	RateLimitStore    string  `env:"SITECMS_RATE_LIMIT_STORE" envDefault:"memory"` // memory or redis
	GlobalRateLimit   float64 `env:"SITECMS_GLOBAL_RATE_LIMIT" envDefault:"50"`    // requests per second, 0 disables
	GlobalRateBurst   int     `env:"SITECMS_GLOBAL_RATE_BURST" envDefault:"100"`
	APIRateLimit      int     `env:"SITECMS_API_RATE_LIMIT" envDefault:"100"`     // per IP per window
	APIRateWindowMins int     `env:"SITECMS_API_RATE_WINDOW" envDefault:"15"`     // minutes
	LoginRateLimit    int     `env:"SITECMS_LOGIN_RATE_LIMIT" envDefault:"5"`     // per IP+email per 15 minutes
	EnquiryRateLimit  int     `env:"SITECMS_ENQUIRY_RATE_LIMIT" envDefault:"5"`   // per IP+UA per hour

	// Honor X-Real-IP / X-Forwarded-For. Enable only behind a reverse proxy.
	TrustProxy bool `env:"SITECMS_TRUST_PROXY" envDefault:"false"`

	// SMTP configuration. Mail is disabled when SMTPHost is empty.
	SMTPHost     string `env:"SITECMS_SMTP_HOST"`
	SMTPPort     int    `env:"SITECMS_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SITECMS_SMTP_USER"`
	SMTPPassword string `env:"SITECMS_SMTP_PASSWORD"`
	MailFrom     string `env:"SITECMS_MAIL_FROM" envDefault:"noreply@example.com"`
	NotifyEmail  string `env:"SITECMS_NOTIFY_EMAIL"` // receives new enquiry notifications

	// GeoIP configuration
	GeoIPDBPath string `env:"SITECMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Days to keep audit events; 0 keeps them forever.
	EventRetentionDays int `env:"SITECMS_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseRedisRateLimit returns true if rate-limit counters are kept in Redis.
func (c Config) UseRedisRateLimit() bool {
	return c.RateLimitStore == "redis"
}

// MailEnabled returns true if an SMTP server is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// AccessTTL returns the parsed access token lifetime. Load has already validated it.
func (c Config) AccessTTL() time.Duration {
	d, _ := session.ParseTTL(c.JWTExpire)
	return d
}

// RefreshTTL returns the parsed refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	d, _ := session.ParseTTL(c.JWTRefreshExpire)
	return d
}

// CacheTTLDuration returns the cache TTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// APIRateWindow returns the general API rate-limit window.
func (c Config) APIRateWindow() time.Duration {
	return time.Duration(c.APIRateWindowMins) * time.Minute
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
// HS256 should be keyed with at least 32 bytes.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("SITECMS_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("SITECMS_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("SITECMS_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if _, err := session.ParseTTL(c.JWTExpire); err != nil {
		return fmt.Errorf("SITECMS_JWT_EXPIRE: %w", err)
	}
	if _, err := session.ParseTTL(c.JWTRefreshExpire); err != nil {
		return fmt.Errorf("SITECMS_JWT_REFRESH_EXPIRE: %w", err)
	}

	switch c.RateLimitStore {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("SITECMS_RATE_LIMIT_STORE=redis requires SITECMS_REDIS_URL")
		}
	default:
		return fmt.Errorf("SITECMS_RATE_LIMIT_STORE must be memory or redis, got %q", c.RateLimitStore)
	}

	if c.MaxUpload <= 0 {
		return fmt.Errorf("SITECMS_MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
