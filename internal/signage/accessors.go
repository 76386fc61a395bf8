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

// Accessors are the typed read-through bindings between the cache and the
// durable store. Each accessor fixes a namespace and key shape and closes
// over the same fetch for every call. Store errors propagate unchanged and
// are never cached.
type Accessors struct {
	store Store
	cache *cache.Store
}

// NewAccessors binds a store to a cache instance.
func NewAccessors(store Store, cacheStore *cache.Store) *Accessors {
	return &Accessors{store: store, cache: cacheStore}
}

// AllScreenStates returns every screen's state, cached under the state
// namespace's "all" sentinel.
func (a *Accessors) AllScreenStates(ctx context.Context) ([]models.ScreenState, error) {
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceState, cache.AllKey, 0, a.store.ListScreenStates)
}

// ScreenState returns one screen's state, cached by screen ID.
func (a *Accessors) ScreenState(ctx context.Context, screenID string) (*models.ScreenState, error) {
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceState, screenID, 0,
		func(ctx context.Context) (*models.ScreenState, error) {
			return a.store.GetScreenState(ctx, screenID)
		})
}

// ScenarioAssignment returns the assignment for (screen, scenario), cached
// by the composite key.
func (a *Accessors) ScenarioAssignment(ctx context.Context, screenID, scenario string) (*models.ScenarioAssignment, error) {
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceScenario, cache.ScenarioKey(screenID, scenario), 0,
		func(ctx context.Context) (*models.ScenarioAssignment, error) {
			return a.store.GetScenarioAssignment(ctx, screenID, scenario)
		})
}

// AllScenarioAssignments returns every assignment, cached under the scenario
// namespace's "all" sentinel.
func (a *Accessors) AllScenarioAssignments(ctx context.Context) ([]models.ScenarioAssignment, error) {
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceScenario, cache.AllKey, 0, a.store.ListScenarioAssignments)
}

// Screens returns screens cached by display ID, or all screens under the
// sentinel when displayID is empty.
func (a *Accessors) Screens(ctx context.Context, displayID string) ([]models.Screen, error) {
	key := displayID
	if key == "" {
		key = cache.AllKey
	}
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceScreens, key, 0,
		func(ctx context.Context) ([]models.Screen, error) {
			return a.store.ListScreens(ctx, displayID)
		})
}

// Displays returns all displays with screen counts, cached in the displays
// namespace's single slot.
func (a *Accessors) Displays(ctx context.Context) ([]models.Display, error) {
	return cache.GetOrCompute(ctx, a.cache, cache.NamespaceDisplays, cache.AllKey, 0, a.store.ListDisplays)
}
