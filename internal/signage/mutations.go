// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"
	"fmt"

	"github.com/signboard-dev/signboard/internal/logging"
	"github.com/signboard-dev/signboard/internal/models"
)

// Every mutation follows the same protocol: durable write, then cache
// invalidation for the affected screens, then one broadcast. Invalidation
// must complete before the broadcast starts or the recompute can serve a
// stale cached read. Broadcast failures are logged, not returned; the write
// already succeeded and the notification is best effort.

// SetScreenContent points a screen directly at an asset, clearing any active
// scenario.
func (s *Service) SetScreenContent(ctx context.Context, screenID, src string) (*models.ScreenState, error) {
	state, err := s.store.UpsertScreenState(ctx, screenID, &src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to set screen content: %w", err)
	}

	s.InvalidateState(screenID)
	s.broadcastAfterMutation(ctx, "set_content", screenID)
	return state, nil
}

// TurnOffScreen clears a screen's content and scenario.
func (s *Service) TurnOffScreen(ctx context.Context, screenID string) (*models.ScreenState, error) {
	state, err := s.store.UpsertScreenState(ctx, screenID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to turn off screen: %w", err)
	}

	s.InvalidateState(screenID)
	s.broadcastAfterMutation(ctx, "turn_off", screenID)
	return state, nil
}

// TriggerScenario activates a named scenario on a screen. Returns
// ErrAssignmentNotFound when the scenario has no assignment for that screen.
func (s *Service) TriggerScenario(ctx context.Context, screenID, scenario string) (*models.ScreenState, error) {
	assignment, err := s.accessors.ScenarioAssignment(ctx, screenID, scenario)
	if err != nil {
		return nil, err
	}

	state, err := s.store.UpsertScreenState(ctx, screenID, &assignment.ImagePath, &scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to trigger scenario: %w", err)
	}

	s.InvalidateState(screenID)
	s.broadcastAfterMutation(ctx, "trigger_scenario", screenID)
	return state, nil
}

// TriggerPreset activates every member of a preset whose assignment still
// exists, as one store transaction, then invalidates the touched screens
// and broadcasts exactly once for the whole batch.
func (s *Service) TriggerPreset(ctx context.Context, name string) (*models.PresetResult, error) {
	result, touched, err := s.store.ApplyPreset(ctx, name)
	if err != nil {
		return nil, err
	}

	for _, screenID := range touched {
		s.InvalidateState(screenID)
	}
	s.broadcastAfterMutation(ctx, "trigger_preset", name)

	logging.Info().
		Str("preset", name).
		Int("activated", result.Activated).
		Int("skipped", result.Skipped).
		Msg("Preset triggered")

	return result, nil
}

// broadcastAfterMutation runs the post-write broadcast. Errors here mean
// the recompute fetch failed; subscribers keep their previous snapshot and
// the next successful broadcast catches them up.
func (s *Service) broadcastAfterMutation(ctx context.Context, operation, subject string) {
	if err := s.broadcaster.Broadcast(ctx); err != nil {
		logging.Warn().
			Err(err).
			Str("operation", operation).
			Str("subject", subject).
			Msg("Post-mutation broadcast failed")
	}
}
