// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package main is the entry point for the Signboard server.
//
// Signboard drives fleets of networked signage screens: it stores the current
// content of every screen in an embedded DuckDB database, caches reads in a
// namespaced in-memory TTL cache, and pushes the aggregated screen state to
// connected viewer clients over websockets whenever an operator mutation
// lands.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered config (defaults, YAML file, env vars)
//  2. Database: embedded DuckDB holding screens, states, scenarios, presets
//  3. Cache: namespaced TTL store fronting all reads
//  4. Signage service: read-through accessors, aggregator, broadcaster
//  5. WebSocket hub: viewer registry, wired as the broadcast channel
//  6. HTTP server: chi REST API plus the /ws upgrade endpoint
//
// The hub, a periodic DuckDB checkpoint loop, and the HTTP server run under a
// suture supervisor tree so a crash in one layer restarts in isolation.
//
// # Configuration
//
// Environment variables override the config file, which overrides defaults:
//
//	HTTP_HOST, HTTP_PORT
//	DUCKDB_PATH, SEED_DEMO_DATA
//	CACHE_TTL, CACHE_CLEANUP_INTERVAL
//	CORS_ORIGINS, DISABLE_RATE_LIMIT
//	LOG_LEVEL, LOG_FORMAT
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the hub closes every viewer connection, and the
// database checkpoints before closing.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signboard-dev/signboard/internal/api"
	"github.com/signboard-dev/signboard/internal/cache"
	"github.com/signboard-dev/signboard/internal/config"
	"github.com/signboard-dev/signboard/internal/database"
	"github.com/signboard-dev/signboard/internal/logging"
	"github.com/signboard-dev/signboard/internal/signage"
	"github.com/signboard-dev/signboard/internal/supervisor"
	"github.com/signboard-dev/signboard/internal/supervisor/services"
	ws "github.com/signboard-dev/signboard/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Dur("cache_ttl", cfg.Cache.TTL).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	cacheStore := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	service := signage.NewService(db, cacheStore)

	hub := ws.NewHub()
	service.SetChannel(hub)

	handler := api.NewHandler(cfg, service, hub, db)
	router := api.NewRouter(cfg, handler).Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddBroadcastService(services.NewWebSocketHubService(hub))
	tree.AddBroadcastService(services.NewCheckpointService(db, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("addr", server.Addr).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
