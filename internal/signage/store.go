// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package signage implements the screen-state broadcast core: read-through
// accessors over the TTL cache, the state aggregator that builds the wire
// payload, the broadcast channel fanning it out to subscribers, and the
// mutation paths that keep cache and viewers consistent with durable writes.
package signage

import (
	"context"
	"errors"

	"github.com/signboard-dev/signboard/internal/models"
)

// Storage errors the core distinguishes. Everything else coming out of the
// Store is treated as an opaque storage failure and propagated unchanged.
var (
	ErrStateNotFound      = errors.New("screen state not found")
	ErrAssignmentNotFound = errors.New("scenario assignment not found")
	ErrPresetNotFound     = errors.New("preset not found")
)

// Store is the durable-store contract the broadcast core consumes.
// Implementations return their errors uninterpreted; the core only inspects
// the sentinels above.
type Store interface {
	// ListScreenStates returns the state row for every screen that has one.
	ListScreenStates(ctx context.Context) ([]models.ScreenState, error)

	// GetScreenState returns one screen's state, or ErrStateNotFound.
	GetScreenState(ctx context.Context, screenID string) (*models.ScreenState, error)

	// UpsertScreenState creates or updates a screen's state row and
	// refreshes its updated_at timestamp.
	UpsertScreenState(ctx context.Context, screenID string, imageSrc, scenario *string) (*models.ScreenState, error)

	// GetScenarioAssignment returns the assignment for (screen, scenario)
	// with its ordered image list, or ErrAssignmentNotFound.
	GetScenarioAssignment(ctx context.Context, screenID, scenario string) (*models.ScenarioAssignment, error)

	// ListScenarioAssignments returns every assignment with ordered images.
	ListScenarioAssignments(ctx context.Context) ([]models.ScenarioAssignment, error)

	// ListScreens returns screens, filtered by display when displayID is
	// non-empty.
	ListScreens(ctx context.Context, displayID string) ([]models.Screen, error)

	// ListDisplays returns all displays with their screen counts.
	ListDisplays(ctx context.Context) ([]models.Display, error)

	// GetPreset returns a preset with its entries, or ErrPresetNotFound.
	GetPreset(ctx context.Context, name string) (*models.Preset, error)

	// ApplyPreset activates every member whose scenario assignment still
	// exists, as a single transaction. It returns the activation summary
	// and the IDs of the screens whose state changed.
	ApplyPreset(ctx context.Context, name string) (*models.PresetResult, []string, error)
}
