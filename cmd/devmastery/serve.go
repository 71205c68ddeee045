// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"devmastery/internal/auth"
	"devmastery/internal/cache"
	"devmastery/internal/database"
	"devmastery/internal/handlers"
	"devmastery/internal/middleware"
	"devmastery/internal/router"
	"devmastery/internal/store"
	"devmastery/internal/taxonomy"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(a.cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}
			version, err := database.Version(db)
			if err != nil {
				return err
			}
			slog.Info("migrate complete", "version", version)
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var (
		fake     int
		fakeSeed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter taxonomy and content (no-op when topics exist)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Seed(db); err != nil {
				return err
			}
			if fake > 0 {
				if err := database.SeedFake(db, fake, fakeSeed); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&fake, "fake", 0, "also insert this many generated blogs, notes and problems")
	cmd.Flags().Int64Var(&fakeSeed, "fake-seed", time.Now().UnixNano(), "random seed for generated content")
	return cmd
}

// openDB connects to PostgreSQL and applies pending migrations.
func (a *app) openDB() (*sql.DB, error) {
	db, err := database.Connect(a.cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// serve runs the API until SIGINT or SIGTERM, then drains connections.
func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"fetch_timeout", cfg.FetchTimeout,
		"cache_ttl", cfg.CacheTTL,
	)

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// The response cache is optional: without Valkey every request reads
	// the database.
	var respCache *cache.ResponseCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, response cache disabled", "addr", cfg.ValkeyAddr(), "error", err)
	} else {
		defer valkeyClient.Close()
		respCache = cache.NewResponseCache(valkeyClient, cfg.CacheTTL)
	}

	repo := store.NewRepository(db)
	service := taxonomy.NewService(repo, cfg.FetchTimeout)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(
		auth.NewResolver(repo.Users),
		limiter,
		handlers.NewAdmin(repo, respCache),
		handlers.NewPublic(repo, service, respCache),
	)

	// WriteTimeout must cover a topic page, whose three fetches each get up
	// to FetchTimeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
		slog.Info("shutdown requested", "reason", ctx.Err())
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
