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

// GetScenarioAssignment returns the assignment for (screen, scenario) with
// its image list in playback order.
func (db *DB) GetScenarioAssignment(ctx context.Context, screenID, scenario string) (*models.ScenarioAssignment, error) {
	start := time.Now()

	query := `SELECT screen_id, scenario, image_path, interval_ms
		FROM scenario_assignments WHERE screen_id = ? AND scenario = ?`

	var a models.ScenarioAssignment
	err := db.conn.QueryRowContext(ctx, query, screenID, scenario).Scan(&a.ScreenID, &a.Scenario, &a.ImagePath, &a.IntervalMs)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get_scenario_assignment", time.Since(start), nil)
		return nil, signage.ErrAssignmentNotFound
	}
	if err != nil {
		metrics.RecordDBQuery("get_scenario_assignment", time.Since(start), err)
		return nil, fmt.Errorf("failed to get scenario assignment: %w", err)
	}

	images, err := db.scenarioImages(ctx, screenID, scenario)
	if err != nil {
		metrics.RecordDBQuery("get_scenario_assignment", time.Since(start), err)
		return nil, err
	}
	a.Images = images

	metrics.RecordDBQuery("get_scenario_assignment", time.Since(start), nil)
	return &a, nil
}

// ListScenarioAssignments returns every assignment with ordered images.
func (db *DB) ListScenarioAssignments(ctx context.Context) ([]models.ScenarioAssignment, error) {
	start := time.Now()

	query := `SELECT screen_id, scenario, image_path, interval_ms
		FROM scenario_assignments ORDER BY screen_id, scenario`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordDBQuery("list_scenario_assignments", time.Since(start), err)
		return nil, fmt.Errorf("failed to list scenario assignments: %w", err)
	}
	defer closeQuietly(rows)

	assignments := []models.ScenarioAssignment{}
	for rows.Next() {
		var a models.ScenarioAssignment
		if err := rows.Scan(&a.ScreenID, &a.Scenario, &a.ImagePath, &a.IntervalMs); err != nil {
			metrics.RecordDBQuery("list_scenario_assignments", time.Since(start), err)
			return nil, fmt.Errorf("failed to scan scenario assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("list_scenario_assignments", time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate scenario assignments: %w", err)
	}

	for i := range assignments {
		images, err := db.scenarioImages(ctx, assignments[i].ScreenID, assignments[i].Scenario)
		if err != nil {
			metrics.RecordDBQuery("list_scenario_assignments", time.Since(start), err)
			return nil, err
		}
		assignments[i].Images = images
	}

	metrics.RecordDBQuery("list_scenario_assignments", time.Since(start), nil)
	return assignments, nil
}

// UpsertScenarioAssignment creates or replaces an assignment and its image
// list. The images slice order defines slideshow playback order.
func (db *DB) UpsertScenarioAssignment(ctx context.Context, a *models.ScenarioAssignment) error {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBQuery("upsert_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	query := `INSERT INTO scenario_assignments (screen_id, scenario, image_path, interval_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (screen_id, scenario) DO UPDATE SET
			image_path = excluded.image_path,
			interval_ms = excluded.interval_ms`
	if _, err := tx.ExecContext(ctx, query, a.ScreenID, a.Scenario, a.ImagePath, a.IntervalMs); err != nil {
		metrics.RecordDBQuery("upsert_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to upsert scenario assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenario_images WHERE screen_id = ? AND scenario = ?`, a.ScreenID, a.Scenario); err != nil {
		metrics.RecordDBQuery("upsert_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to clear scenario images: %w", err)
	}
	for i, img := range a.Images {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scenario_images (screen_id, scenario, position, image_path) VALUES (?, ?, ?, ?)`,
			a.ScreenID, a.Scenario, i, img); err != nil {
			metrics.RecordDBQuery("upsert_scenario_assignment", time.Since(start), err)
			return fmt.Errorf("failed to insert scenario image: %w", err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("upsert_scenario_assignment", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit scenario assignment: %w", err)
	}
	return nil
}

// DeleteScenarioAssignment removes an assignment and its images. Missing
// assignments are not an error.
func (db *DB) DeleteScenarioAssignment(ctx context.Context, screenID, scenario string) error {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBQuery("delete_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM scenario_images WHERE screen_id = ? AND scenario = ?`, screenID, scenario); err != nil {
		metrics.RecordDBQuery("delete_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to delete scenario images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenario_assignments WHERE screen_id = ? AND scenario = ?`, screenID, scenario); err != nil {
		metrics.RecordDBQuery("delete_scenario_assignment", time.Since(start), err)
		return fmt.Errorf("failed to delete scenario assignment: %w", err)
	}

	err = tx.Commit()
	metrics.RecordDBQuery("delete_scenario_assignment", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit assignment deletion: %w", err)
	}
	return nil
}

// scenarioImages returns the ordered image list for one assignment.
func (db *DB) scenarioImages(ctx context.Context, screenID, scenario string) ([]string, error) {
	query := `SELECT image_path FROM scenario_images
		WHERE screen_id = ? AND scenario = ? ORDER BY position`

	rows, err := db.conn.QueryContext(ctx, query, screenID, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario images: %w", err)
	}
	defer closeQuietly(rows)

	images := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan scenario image: %w", err)
		}
		images = append(images, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenario images: %w", err)
	}

	return images, nil
}
