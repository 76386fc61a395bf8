// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the signage schema. All statements are idempotent so
// startup against an existing database is a no-op.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS displays (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS screens (
			id VARCHAR PRIMARY KEY,
			display_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 1920,
			height INTEGER NOT NULL DEFAULT 1080,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS screen_states (
			screen_id VARCHAR PRIMARY KEY,
			image_src VARCHAR,
			scenario VARCHAR,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS scenario_assignments (
			screen_id VARCHAR NOT NULL,
			scenario VARCHAR NOT NULL,
			image_path VARCHAR NOT NULL,
			interval_ms INTEGER,
			PRIMARY KEY (screen_id, scenario)
		)`,
		`CREATE TABLE IF NOT EXISTS scenario_images (
			screen_id VARCHAR NOT NULL,
			scenario VARCHAR NOT NULL,
			position INTEGER NOT NULL,
			image_path VARCHAR NOT NULL,
			PRIMARY KEY (screen_id, scenario, position)
		)`,
		`CREATE TABLE IF NOT EXISTS presets (
			name VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS preset_entries (
			preset_name VARCHAR NOT NULL,
			screen_id VARCHAR NOT NULL,
			scenario VARCHAR NOT NULL,
			PRIMARY KEY (preset_name, screen_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// createIndexes creates secondary indexes for the hot lookup paths.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_screens_display ON screens (display_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scenario_images_assignment ON scenario_images (screen_id, scenario)`,
		`CREATE INDEX IF NOT EXISTS idx_preset_entries_preset ON preset_entries (preset_name)`,
	}

	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
