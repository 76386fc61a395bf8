// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package api provides the HTTP surface: Chi routing, the operator REST
// endpoints driving the broadcast core, and the websocket upgrade path for
// viewers.
package api

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/signboard-dev/signboard/internal/config"
	"github.com/signboard-dev/signboard/internal/logging"
	"github.com/signboard-dev/signboard/internal/models"
	"github.com/signboard-dev/signboard/internal/signage"
	ws "github.com/signboard-dev/signboard/internal/websocket"
)

// Pinger is the slice of the database the health endpoints need.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	service   *signage.Service
	hub       *ws.Hub
	db        Pinger
	startedAt time.Time
}

// NewHandler creates a Handler. hub and db may be nil in tests; the
// affected endpoints degrade to SERVICE_UNAVAILABLE.
func NewHandler(cfg *config.Config, service *signage.Service, hub *ws.Hub, db Pinger) *Handler {
	return &Handler{
		cfg:       cfg,
		service:   service,
		hub:       hub,
		db:        db,
		startedAt: time.Now(),
	}
}

// getUpgrader builds the websocket upgrader with origin checking against
// the configured CORS origins. A wildcard origin allows every browser
// client, matching the CORS behavior of the REST endpoints.
func (h *Handler) getUpgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients (the signage players) send no Origin.
				return true
			}
			for _, allowed := range h.cfg.Security.CORSOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// WebSocket upgrades a viewer connection and registers it with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()

	// Push the current state so a freshly connected viewer renders
	// immediately instead of waiting for the next mutation.
	if err := h.service.Broadcast(r.Context()); err != nil {
		logging.Warn().Err(err).Msg("Initial state broadcast for new viewer failed")
	}
}

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "ok"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.GetClientCount()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         status,
			"database":       dbStatus,
			"viewers":        clients,
			"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
			"environment":    h.cfg.Server.Environment,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady is the readiness probe: the store answers queries.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database not ready", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
