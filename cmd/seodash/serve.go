// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"seodash/internal/cache"
	"seodash/internal/database"
	"seodash/internal/handlers"
	"seodash/internal/middleware"
	"seodash/internal/render"
	"seodash/internal/router"
	"seodash/internal/seo"
	"seodash/internal/storage"
	"seodash/internal/store"
)

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.RequireProvider(); err != nil {
		return err
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Seed a sample post in development (no-op if posts exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Valkey backs the preview cache and the generation rate limit.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	// Markdown export is optional; the app works without it.
	exporter, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("initialize s3 export: %w", err)
	}
	if exporter != nil {
		slog.Info("s3 export enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	} else {
		slog.Warn("s3 export not configured, posts are kept in the database only")
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	registry := newRegistry(cfg)
	slog.Info("ai providers initialized",
		"active", registry.ActiveName(),
		"available", registry.Available(),
	)

	posts := handlers.NewPosts(
		store.NewPostStore(db),
		seo.NewGenerator(registry),
		optionalExporter(exporter),
		cache.NewPreviewCache(valkeyClient, cache.DefaultPreviewTTL),
	)
	limiter := middleware.NewRateLimiter(valkeyClient, "generate", cfg.GenerateRateLimit, cfg.GenerateRateWindow).
		TrustProxies(cfg.TrustedProxies)

	r := router.New(db, handlers.NewAPI(posts), handlers.NewDashboard(renderer, posts, registry), limiter)

	// WriteTimeout must accommodate generation calls that wait on the model.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// optionalExporter keeps a nil *storage.Exporter from becoming a non-nil
// interface value.
func optionalExporter(e *storage.Exporter) handlers.Exporter {
	if e == nil {
		return nil
	}
	return e
}

func migrateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied")
	return nil
}
