// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/olegiv/sitecms-go/internal/cache"
	"github.com/olegiv/sitecms-go/internal/config"
	"github.com/olegiv/sitecms-go/internal/content"
	"github.com/olegiv/sitecms-go/internal/geoip"
	"github.com/olegiv/sitecms-go/internal/handler"
	"github.com/olegiv/sitecms-go/internal/handler/api"
	"github.com/olegiv/sitecms-go/internal/logging"
	"github.com/olegiv/sitecms-go/internal/mail"
	"github.com/olegiv/sitecms-go/internal/media"
	"github.com/olegiv/sitecms-go/internal/metrics"
	"github.com/olegiv/sitecms-go/internal/middleware"
	"github.com/olegiv/sitecms-go/internal/ratelimit"
	"github.com/olegiv/sitecms-go/internal/scheduler"
	"github.com/olegiv/sitecms-go/internal/session"
	"github.com/olegiv/sitecms-go/internal/store"
	"github.com/olegiv/sitecms-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = ""
	appGitCommit = ""
	appBuildTime = ""
)

const (
	loginWindow   = 15 * time.Minute
	enquiryWindow = time.Hour
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sitecms - content API for marketing sites\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_JWT_SECRET       Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_DB_PATH          SQLite database path (default: ./data/sitecms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_SERVER_PORT      Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_CORS_ORIGINS     Comma-separated allowed origins\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_REDIS_URL        Redis URL for cache and rate limits (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITECMS_SMTP_HOST        SMTP server; mail is disabled when empty\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}.Resolve()
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := logging.ParseLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	queries := store.New(db)

	// From here on WARN and above, plus audit records, also land in the events table.
	logger := slog.New(logging.NewEventLogHandler(textHandler, queries, slog.LevelWarn))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedConfig{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	m := metrics.New(info.Version, info.GitCommit)

	cacheResult, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		FallbackToMemory: true,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheResult.Cache.Close() }()
	m.RegisterCache(cacheResult.Backend, cacheResult.Cache)

	limitStore, closeLimitStore, err := newRateLimitStore(cfg)
	if err != nil {
		return fmt.Errorf("initializing rate limit store: %w", err)
	}
	defer closeLimitStore()
	limiters := api.Limiters{
		API:     ratelimit.New("api", limitStore, cfg.APIRateLimit, cfg.APIRateWindow()),
		Login:   ratelimit.New("login", limitStore, cfg.LoginRateLimit, loginWindow),
		Enquiry: ratelimit.New("enquiry", limitStore, cfg.EnquiryRateLimit, enquiryWindow),
	}

	sessions := session.NewManager(queries, session.Config{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	})

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip database unavailable, country lookups disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	mailer := mail.New(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Notify:   cfg.NotifyEmail,
		AdminURL: cfg.AdminURL,
	}, logger)
	if !mailer.Enabled() {
		logger.Info("SMTP not configured, outgoing mail disabled")
	}

	loginGuard := middleware.NewLoginGuard(middleware.DefaultLoginGuardConfig())
	defer loginGuard.Close()

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	apiHandler := api.NewHandler(api.Deps{
		DB:            db,
		Sessions:      sessions,
		Content:       content.NewService(queries, cacheResult.Cache, cfg.CacheTTLDuration(), logger),
		Media:         media.NewStorage(cfg.UploadsDir, cfg.UploadsURL, cfg.MaxUpload),
		Mailer:        mailer,
		GeoIP:         geo,
		Metrics:       m,
		Cache:         cacheResult.Cache,
		CacheTTL:      cfg.CacheTTLDuration(),
		LoginGuard:    loginGuard,
		Logger:        logger,
		TrustProxy:    cfg.TrustProxy,
		IsDevelopment: cfg.IsDevelopment(),
		SiteName:      cfg.SiteName,
	})
	healthHandler := handler.NewHealthHandler(db, cacheResult.Cache, cfg.UploadsDir, info.Version)

	sched := scheduler.New(logger, m)
	if err := (scheduler.Maintenance{
		Sessions:       sessions,
		Store:          queries,
		GeoIP:          reloaderOrNil(geo),
		EventRetention: time.Duration(cfg.EventRetentionDays) * 24 * time.Hour,
		Logger:         logger,
	}).Register(sched); err != nil {
		return fmt.Errorf("registering jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(m.Instrument)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	r.Use(middleware.NewGlobalRateLimiter(cfg.GlobalRateLimit, cfg.GlobalRateBurst, cfg.TrustProxy).Middleware())

	optional := middleware.OptionalAuth(sessions, queries)
	r.With(optional).Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.With(optional).Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		apiHandler.Routes(r, limiters)
	})

	uploadsPrefix := strings.TrimRight(cfg.UploadsURL, "/") + "/"
	r.Handle(uploadsPrefix+"*", middleware.UploadsHeaders(
		http.StripPrefix(uploadsPrefix, http.FileServer(noDirFS{http.Dir(cfg.UploadsDir)}))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version,
			"cache", cacheResult.Backend, "rate_limit_store", cfg.RateLimitStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newRateLimitStore returns the shared counter store for the fixed-window
// limiters and a func that releases it.
func newRateLimitStore(cfg *config.Config) (ratelimit.Store, func(), error) {
	if !cfg.UseRedisRateLimit() {
		st := ratelimit.NewMemoryStore(time.Minute)
		return st, func() { _ = st.Close() }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return ratelimit.NewRedisStore(client, cfg.CachePrefix), func() { _ = client.Close() }, nil
}

// reloaderOrNil keeps the GeoIP reload job off when no database is configured.
func reloaderOrNil(g *geoip.Lookup) scheduler.Reloader {
	if !g.Enabled() {
		return nil
	}
	return g
}

// noDirFS refuses directory listings under /uploads.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
