// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signboard-dev/signboard/internal/metrics"
	"github.com/signboard-dev/signboard/internal/models"
)

// ListDisplays returns all displays with their screen counts, ordered by
// name.
func (db *DB) ListDisplays(ctx context.Context) ([]models.Display, error) {
	start := time.Now()

	query := `SELECT d.id, d.name, COUNT(s.id) AS screen_count, d.created_at
		FROM displays d
		LEFT JOIN screens s ON s.display_id = d.id
		GROUP BY d.id, d.name, d.created_at
		ORDER BY d.name`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordDBQuery("list_displays", time.Since(start), err)
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	defer closeQuietly(rows)

	displays := []models.Display{}
	for rows.Next() {
		var d models.Display
		if err := rows.Scan(&d.ID, &d.Name, &d.ScreenCount, &d.CreatedAt); err != nil {
			metrics.RecordDBQuery("list_displays", time.Since(start), err)
			return nil, fmt.Errorf("failed to scan display: %w", err)
		}
		displays = append(displays, d)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("list_displays", time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate displays: %w", err)
	}

	metrics.RecordDBQuery("list_displays", time.Since(start), nil)
	return displays, nil
}

// ListScreens returns screens ordered by display and position. A non-empty
// displayID restricts the result to one display.
func (db *DB) ListScreens(ctx context.Context, displayID string) ([]models.Screen, error) {
	start := time.Now()

	query := `SELECT id, display_id, name, position, width, height, created_at
		FROM screens WHERE 1=1`
	args := []any{}
	if displayID != "" {
		query += " AND display_id = ?"
		args = append(args, displayID)
	}
	query += " ORDER BY display_id, position"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery("list_screens", time.Since(start), err)
		return nil, fmt.Errorf("failed to list screens: %w", err)
	}
	defer closeQuietly(rows)

	screens := []models.Screen{}
	for rows.Next() {
		var s models.Screen
		if err := rows.Scan(&s.ID, &s.DisplayID, &s.Name, &s.Position, &s.Width, &s.Height, &s.CreatedAt); err != nil {
			metrics.RecordDBQuery("list_screens", time.Since(start), err)
			return nil, fmt.Errorf("failed to scan screen: %w", err)
		}
		screens = append(screens, s)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("list_screens", time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate screens: %w", err)
	}

	metrics.RecordDBQuery("list_screens", time.Since(start), nil)
	return screens, nil
}

// CreateDisplay inserts a display, generating an ID when absent.
func (db *DB) CreateDisplay(ctx context.Context, d *models.Display) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO displays (id, name, created_at) VALUES (?, ?, ?)`,
		d.ID, d.Name, d.CreatedAt)
	metrics.RecordDBQuery("create_display", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create display: %w", err)
	}
	return nil
}

// CreateScreen inserts a screen, generating an ID when absent.
func (db *DB) CreateScreen(ctx context.Context, s *models.Screen) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO screens (id, display_id, name, position, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.DisplayID, s.Name, s.Position, s.Width, s.Height, s.CreatedAt)
	metrics.RecordDBQuery("create_screen", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	return nil
}
