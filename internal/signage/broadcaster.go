// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/signboard-dev/signboard/internal/logging"
	"github.com/signboard-dev/signboard/internal/metrics"
)

// Subscriber is one live viewer connection. Send must not block; a
// subscriber that cannot accept the payload returns an error and the
// broadcaster moves on.
type Subscriber interface {
	// Ready reports whether the connection can accept a payload right now.
	Ready() bool
	// Send queues the payload for delivery.
	Send(payload []byte) error
}

// SubscriberRegistry enumerates the current live subscribers. The returned
// slice is a snapshot; the broadcaster never retains it across calls.
type SubscriberRegistry interface {
	Subscribers() []Subscriber
}

// Broadcaster fans a freshly aggregated state snapshot out to every live
// subscriber. The payload is serialized exactly once per broadcast and the
// same bytes go to every ready subscriber.
type Broadcaster struct {
	aggregator *Aggregator

	mu       sync.RWMutex
	registry SubscriberRegistry
}

// NewBroadcaster creates a Broadcaster with no registry installed.
// Broadcast is a logged no-op until SetChannel is called.
func NewBroadcaster(aggregator *Aggregator) *Broadcaster {
	return &Broadcaster{aggregator: aggregator}
}

// SetChannel installs or replaces the subscriber registry. The most recent
// registration wins; tests rely on being able to swap registries between
// cases.
func (b *Broadcaster) SetChannel(registry SubscriberRegistry) {
	b.mu.Lock()
	b.registry = registry
	b.mu.Unlock()
}

// Broadcast aggregates current state and pushes it to every ready
// subscriber. With no registry installed it warns and returns nil; that is
// a valid startup-ordering state. Aggregation errors are returned to the
// caller. Per-subscriber failures are logged and isolated, never returned:
// non-ready subscribers are skipped without retry and one failed send does
// not prevent delivery to the rest.
func (b *Broadcaster) Broadcast(ctx context.Context) error {
	b.mu.RLock()
	registry := b.registry
	b.mu.RUnlock()

	if registry == nil {
		logging.Warn().Msg("Broadcast requested before a subscriber registry was installed")
		return nil
	}

	start := time.Now()
	payload, err := b.aggregator.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate state: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize state payload: %w", err)
	}

	sent, skipped, failed := 0, 0, 0
	for _, sub := range registry.Subscribers() {
		if !sub.Ready() {
			skipped++
			metrics.BroadcastSends.WithLabelValues("skipped").Inc()
			continue
		}
		if err := sub.Send(data); err != nil {
			failed++
			metrics.BroadcastSends.WithLabelValues("failed").Inc()
			logging.Warn().Err(err).Msg("Failed to send state to subscriber")
			continue
		}
		sent++
		metrics.BroadcastSends.WithLabelValues("sent").Inc()
	}

	metrics.BroadcastsTotal.Inc()
	metrics.BroadcastDuration.Observe(time.Since(start).Seconds())

	logging.Debug().
		Int("screens", len(payload.Screens)).
		Int("sent", sent).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("State broadcast complete")

	return nil
}
