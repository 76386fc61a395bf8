// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package metrics provides Prometheus instrumentation for Signboard:
// cache efficiency, state broadcasts, websocket connections, API latency
// and DuckDB query performance. All metrics are registered via promauto and
// exposed on /metrics by the API router.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_cache_hits_total",
			Help: "Total number of cache hits per namespace",
		},
		[]string{"namespace"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_cache_misses_total",
			Help: "Total number of cache misses per namespace",
		},
		[]string{"namespace"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_cache_evictions_total",
			Help: "Total number of cache entries removed (invalidation + expiry)",
		},
		[]string{"namespace"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signboard_cache_entries",
			Help: "Current number of live cache entries per namespace",
		},
		[]string{"namespace"},
	)

	// Broadcast metrics
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signboard_broadcasts_total",
			Help: "Total number of state broadcasts attempted",
		},
	)

	BroadcastSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_broadcast_sends_total",
			Help: "Per-subscriber send outcomes during state broadcasts",
		},
		[]string{"outcome"}, // "sent", "skipped", "failed"
	)

	BroadcastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signboard_broadcast_duration_seconds",
			Help:    "Duration of aggregate rebuild plus fan-out in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signboard_websocket_connections",
			Help: "Current number of connected websocket viewers",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signboard_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signboard_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signboard_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records one database query and its outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
