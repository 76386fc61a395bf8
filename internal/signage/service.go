// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"

	"github.com/signboard-dev/signboard/internal/cache"
	"github.com/signboard-dev/signboard/internal/models"
)

// Service is the composition root of the broadcast core: it owns the cache
// instance, the read-through accessors, the aggregator and the broadcaster,
// and exposes the reads, mutations and invalidation entry points the rest
// of the system consumes.
type Service struct {
	store       Store
	cache       *cache.Store
	accessors   *Accessors
	aggregator  *Aggregator
	broadcaster *Broadcaster
}

// NewService wires the broadcast core around a store and a cache instance.
func NewService(store Store, cacheStore *cache.Store) *Service {
	accessors := NewAccessors(store, cacheStore)
	aggregator := NewAggregator(accessors)
	return &Service{
		store:       store,
		cache:       cacheStore,
		accessors:   accessors,
		aggregator:  aggregator,
		broadcaster: NewBroadcaster(aggregator),
	}
}

// SetChannel installs the subscriber registry on the broadcaster.
func (s *Service) SetChannel(registry SubscriberRegistry) {
	s.broadcaster.SetChannel(registry)
}

// Broadcast pushes a freshly aggregated snapshot to all subscribers.
func (s *Service) Broadcast(ctx context.Context) error {
	return s.broadcaster.Broadcast(ctx)
}

// Aggregate returns the current wire-level state payload.
func (s *Service) Aggregate(ctx context.Context) (*models.StatePayload, error) {
	return s.aggregator.Aggregate(ctx)
}

// Displays returns all displays with screen counts (cached).
func (s *Service) Displays(ctx context.Context) ([]models.Display, error) {
	return s.accessors.Displays(ctx)
}

// Screens returns screens, optionally filtered by display (cached).
func (s *Service) Screens(ctx context.Context, displayID string) ([]models.Screen, error) {
	return s.accessors.Screens(ctx, displayID)
}

// ScreenState returns one screen's state (cached).
func (s *Service) ScreenState(ctx context.Context, screenID string) (*models.ScreenState, error) {
	return s.accessors.ScreenState(ctx, screenID)
}

// CacheStats returns cache observability counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Invalidation entry points consumed by mutation paths outside the core
// (assignment management, screen CRUD). Each follows the sentinel rule:
// invalidating a specific key also drops that namespace's aggregate.

// InvalidateState drops one screen's cached state, or the whole state
// namespace when screenID is empty.
func (s *Service) InvalidateState(screenID string) {
	if screenID == "" {
		s.cache.InvalidateNamespace(cache.NamespaceState)
		return
	}
	s.cache.Invalidate(cache.NamespaceState, screenID)
}

// InvalidateScenario drops one cached assignment, or the whole scenario
// namespace when either component is empty.
func (s *Service) InvalidateScenario(screenID, scenario string) {
	if screenID == "" || scenario == "" {
		s.cache.InvalidateNamespace(cache.NamespaceScenario)
		return
	}
	s.cache.Invalidate(cache.NamespaceScenario, cache.ScenarioKey(screenID, scenario))
}

// InvalidateScreens drops one display's cached screen list, or the whole
// screens namespace when displayID is empty.
func (s *Service) InvalidateScreens(displayID string) {
	if displayID == "" {
		s.cache.InvalidateNamespace(cache.NamespaceScreens)
		return
	}
	s.cache.Invalidate(cache.NamespaceScreens, displayID)
}

// InvalidateDisplays drops the cached display list.
func (s *Service) InvalidateDisplays() {
	s.cache.InvalidateNamespace(cache.NamespaceDisplays)
}

// InvalidateEverything clears every cache namespace.
func (s *Service) InvalidateEverything() {
	s.cache.InvalidateAll()
}
