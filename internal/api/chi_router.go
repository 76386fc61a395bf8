// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signboard-dev/signboard/internal/config"
	"github.com/signboard-dev/signboard/internal/middleware"
)

// Router assembles the HTTP surface from a handler and the middleware
// factories.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router from the application config.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	return &Router{
		handler: handler,
		chiMiddleware: NewChiMiddleware(&ChiMiddlewareConfig{
			CORSAllowedOrigins: cfg.Security.CORSOrigins,
			CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.Security.RateLimitReqs,
			RateLimitWindow:    cfg.Security.RateLimitWindow,
			RateLimitDisabled:  cfg.Security.RateLimitDisabled,
		}),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints get a permissive rate limit so monitoring can poll
	// frequently without tripping the API limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// Reads
		r.Get("/displays", router.handler.Displays)
		r.Get("/screens", router.handler.Screens)
		r.Get("/states", router.handler.States)
		r.Get("/cache/stats", router.handler.CacheStats)

		// Mutations
		r.Post("/screens/{id}/content", router.handler.SetScreenContent)
		r.Post("/screens/{id}/off", router.handler.TurnOffScreen)
		r.Post("/screens/{id}/scenario", router.handler.TriggerScenario)
		r.Post("/presets/{name}/trigger", router.handler.TriggerPreset)
		r.Post("/state/refresh", router.handler.RefreshState)

		// Viewer connections
		r.Get("/ws", router.handler.WebSocket)
	})

	// Prometheus scrape endpoint, outside the API rate limit.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
