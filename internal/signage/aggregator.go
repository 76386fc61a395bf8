// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"
	"errors"
	"fmt"

	"github.com/signboard-dev/signboard/internal/models"
)

// Aggregator builds the wire-level screen state map by joining current
// screen state with scenario and slideshow metadata. The result is derived
// and never persisted; it is recomputed on every broadcast.
type Aggregator struct {
	accessors *Accessors
}

// NewAggregator creates an Aggregator over the given accessors.
func NewAggregator(accessors *Accessors) *Aggregator {
	return &Aggregator{accessors: accessors}
}

// Aggregate returns the full state payload. Screens whose scenario
// assignment no longer exists degrade to still-image entries without a
// slideshow; that is expected after an assignment deletion, not an error.
// Zero screen states produce an empty (non-nil) screens map.
func (ag *Aggregator) Aggregate(ctx context.Context) (*models.StatePayload, error) {
	states, err := ag.accessors.AllScreenStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load screen states: %w", err)
	}

	screens := make(map[string]models.StateEntry, len(states))
	for _, state := range states {
		entry := models.StateEntry{
			Src:      state.ImageSrc,
			Scenario: state.Scenario,
			Updated:  state.UpdatedAt,
		}

		if state.Scenario != nil {
			assignment, err := ag.accessors.ScenarioAssignment(ctx, state.ScreenID, *state.Scenario)
			switch {
			case errors.Is(err, ErrAssignmentNotFound):
				// Assignment deleted after activation; keep the last
				// persisted image as a still.
			case err != nil:
				return nil, fmt.Errorf("failed to load assignment for %s: %w", state.ScreenID, err)
			case assignment.IntervalMs != nil && len(assignment.Images) > 0:
				entry.Slideshow = &models.Slideshow{
					Images:     assignment.Images,
					IntervalMs: *assignment.IntervalMs,
				}
			}
		}

		screens[state.ScreenID] = entry
	}

	payload := models.NewStatePayload(screens)
	return &payload, nil
}
