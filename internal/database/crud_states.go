// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/signboard-dev/signboard/internal/metrics"
	"github.com/signboard-dev/signboard/internal/models"
	"github.com/signboard-dev/signboard/internal/signage"
)

// ListScreenStates returns the state row for every screen that has one,
// ordered by screen ID for deterministic aggregation.
func (db *DB) ListScreenStates(ctx context.Context) ([]models.ScreenState, error) {
	start := time.Now()

	query := `SELECT screen_id, image_src, scenario, updated_at
		FROM screen_states ORDER BY screen_id`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordDBQuery("list_screen_states", time.Since(start), err)
		return nil, fmt.Errorf("failed to list screen states: %w", err)
	}
	defer closeQuietly(rows)

	states := []models.ScreenState{}
	for rows.Next() {
		var s models.ScreenState
		if err := rows.Scan(&s.ScreenID, &s.ImageSrc, &s.Scenario, &s.UpdatedAt); err != nil {
			metrics.RecordDBQuery("list_screen_states", time.Since(start), err)
			return nil, fmt.Errorf("failed to scan screen state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("list_screen_states", time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate screen states: %w", err)
	}

	metrics.RecordDBQuery("list_screen_states", time.Since(start), nil)
	return states, nil
}

// GetScreenState returns one screen's state row.
func (db *DB) GetScreenState(ctx context.Context, screenID string) (*models.ScreenState, error) {
	start := time.Now()

	query := `SELECT screen_id, image_src, scenario, updated_at
		FROM screen_states WHERE screen_id = ?`

	var s models.ScreenState
	err := db.conn.QueryRowContext(ctx, query, screenID).Scan(&s.ScreenID, &s.ImageSrc, &s.Scenario, &s.UpdatedAt)
	metrics.RecordDBQuery("get_screen_state", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, signage.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screen state: %w", err)
	}

	return &s, nil
}

// UpsertScreenState creates or updates a screen's state row, refreshing
// updated_at. The returned row reflects what was written.
func (db *DB) UpsertScreenState(ctx context.Context, screenID string, imageSrc, scenario *string) (*models.ScreenState, error) {
	start := time.Now()
	now := time.Now().UTC()

	query := `INSERT INTO screen_states (screen_id, image_src, scenario, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (screen_id) DO UPDATE SET
			image_src = excluded.image_src,
			scenario = excluded.scenario,
			updated_at = excluded.updated_at`

	_, err := db.conn.ExecContext(ctx, query, screenID, imageSrc, scenario, now)
	metrics.RecordDBQuery("upsert_screen_state", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert screen state: %w", err)
	}

	return &models.ScreenState{
		ScreenID:  screenID,
		ImageSrc:  imageSrc,
		Scenario:  scenario,
		UpdatedAt: now,
	}, nil
}
