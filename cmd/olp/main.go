// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// oLP - Open Landing Page. A single-tenant marketing landing page with an
// embedded admin panel, local-first content persistence, and optional sync to
// a remote content store.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/olp-go/internal/analytics"
	"github.com/olegiv/olp-go/internal/config"
	"github.com/olegiv/olp-go/internal/handler"
	"github.com/olegiv/olp-go/internal/middleware"
	"github.com/olegiv/olp-go/internal/pagecache"
	"github.com/olegiv/olp-go/internal/remote"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/session"
	"github.com/olegiv/olp-go/internal/store"
	"github.com/olegiv/olp-go/internal/sync"
	"github.com/olegiv/olp-go/internal/version"
	"github.com/olegiv/olp-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oLP - Open Landing Page\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_DB_PATH           SQLite database path (default: ./data/olp.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_REMOTE_DB_DSN     MySQL DSN of the remote content store (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_SYNC_DEBOUNCE     Remote sync quiet period in ms (default: 2000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OLP_REDIS_URL         Redis URL for the rendered-page cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/olegiv/olp-go\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("olp %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
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
	slog.Info("database ready")

	contentStore := store.New(db)

	// Initialize session manager and the admin gate
	sessionManager := session.New(db, cfg.IsDevelopment())
	gate := session.NewGate(sessionManager, contentStore, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Open the remote content store when configured
	gateway, err := remote.Open(cfg.RemoteDSN)
	if err != nil {
		return fmt.Errorf("opening remote content store: %w", err)
	}
	defer func() {
		if err := gateway.Close(); err != nil {
			slog.Error("error closing remote store", "error", err)
		}
	}()

	// A nil *Gateway must not become a non-nil RemoteStore interface.
	syncCfg := sync.Config{
		Local:    contentStore,
		Debounce: cfg.SyncDebounce(),
	}
	if gateway != nil {
		syncCfg.Remote = gateway
	}
	sy := sync.New(syncCfg)
	defer sy.Close()

	// Resolve the content document in the background; the server answers with
	// a loading page until this completes.
	ctx := context.Background()
	go sy.Start(ctx)

	// Rendered-page cache
	pageCache := pagecache.New(pagecache.Config{
		RedisURL: cfg.RedisURL,
		Prefix:   cfg.CachePrefix,
		TTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:  cfg.CacheMaxSize,
	})
	slog.Info("page cache initialized", "backend", pageCache.Backend())

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Nightly analytics retention job
	scheduler := cron.New()
	if cfg.AnalyticsRetentionDays > 0 {
		_, err := scheduler.AddFunc("30 3 * * *", func() {
			doc := sy.Current()
			if doc == nil {
				return
			}
			cutoff := time.Now().AddDate(0, 0, -cfg.AnalyticsRetentionDays)
			pruned, dropped := analytics.PruneDailyStats(doc, cutoff)
			if dropped == 0 {
				return
			}
			if err := sy.Update(context.Background(), pruned); err != nil {
				slog.Warn("analytics retention update failed", "error", err)
				return
			}
			slog.Info("pruned stale daily stats", "dropped", dropped)
		})
		if err != nil {
			return fmt.Errorf("scheduling analytics retention job: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("analytics retention job scheduled", "days", cfg.AnalyticsRetentionDays)
	}

	docsFS, err := fs.Sub(web.Docs, "docs")
	if err != nil {
		return fmt.Errorf("getting docs fs: %w", err)
	}

	startTime := time.Now()

	// Initialize handlers
	frontendHandler := handler.NewFrontendHandler(sy, gate, renderer, pageCache)
	authHandler := handler.NewAuthHandler(sy, gate, renderer)
	adminHandler := handler.NewAdminHandler(sy, renderer, cfg)
	apiHandler := handler.NewAPIHandler(sy)
	docsHandler := handler.NewDocsHandler(renderer, cfg, docsFS, versionInfo, startTime)
	healthHandler := handler.NewHealthHandler(db, sy, pageCache, versionInfo)

	// Content API rate limiter
	apiLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.APIRateLimit,
		Burst:             cfg.APIRateBurst,
		CleanupInterval:   5 * time.Minute,
	})

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	// Health endpoints (no session)
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public content API (no session, no CSRF, rate limited)
	r.Group(func(r chi.Router) {
		r.Use(apiLimiter.Middleware)
		r.Get(handler.RouteAPIContent, apiHandler.Content)
	})

	// Static assets from the embedded filesystem
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Session-backed pages
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Use(middleware.AdminEntry(gate))

		// Landing page with visit tracking
		r.Group(func(r chi.Router) {
			r.Use(middleware.TrackVisits(sy, gate))
			r.Get(handler.RouteRoot, frontendHandler.Home)
		})

		// Login flow
		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.Post(handler.RouteAdminLogin, authHandler.Login)
		r.Post(handler.RouteAdminLogin+"/cancel", authHandler.Cancel)
		r.Post("/logout", authHandler.Logout)

		// Admin panel
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(gate))

			r.Get(handler.RouteAdmin, adminHandler.Dashboard)
			r.Get(handler.RouteAdminContent, adminHandler.Content)
			r.Post(handler.RouteAdminContent+"/branding", adminHandler.UpdateBranding)
			r.Post(handler.RouteAdminContent+"/hero", adminHandler.UpdateHero)
			r.Post(handler.RouteAdminContent+"/pricing", adminHandler.UpdatePricing)
			r.Post(handler.RouteAdminContent+"/features", adminHandler.UpdateFeatures)
			r.Post(handler.RouteAdminContent+"/process", adminHandler.UpdateProcess)
			r.Post(handler.RouteAdminContent+"/gallery", adminHandler.UpdateGallery)
			r.Post(handler.RouteAdminContent+"/testimonials", adminHandler.UpdateTestimonials)
			r.Post(handler.RouteAdminContent+"/cta", adminHandler.UpdateCTA)
			r.Post(handler.RouteAdminContent+"/footer", adminHandler.UpdateFooter)
			r.Post(handler.RouteAdminContent+"/settings", adminHandler.UpdateSettings)
			r.Post(handler.RouteAdmin+"/upload", adminHandler.Upload)
			r.Post(handler.RouteAdmin+"/sync", adminHandler.SyncNow)
			r.Post(handler.RouteAdmin+"/analytics/reset", adminHandler.ResetAnalytics)
			r.Get(handler.RouteAdminDocs, docsHandler.Overview)
			r.Get(handler.RouteAdminDocs+"/{slug}", docsHandler.Guide)
		})
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Push any locally-saved edits that were still waiting out the debounce.
	if gateway != nil && sy.Ready() {
		flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
		if err := sy.SyncNow(flushCtx); err != nil {
			slog.Warn("final remote sync failed", "error", err)
		}
		cancelFlush()
	}

	slog.Info("server stopped")
	return nil
}
