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

// GetPreset returns a preset with its entries ordered by screen ID.
func (db *DB) GetPreset(ctx context.Context, name string) (*models.Preset, error) {
	start := time.Now()

	var exists bool
	err := db.conn.QueryRowContext(ctx, `SELECT true FROM presets WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get_preset", time.Since(start), nil)
		return nil, signage.ErrPresetNotFound
	}
	if err != nil {
		metrics.RecordDBQuery("get_preset", time.Since(start), err)
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}

	entries, err := db.presetEntries(ctx, db.conn, name)
	if err != nil {
		metrics.RecordDBQuery("get_preset", time.Since(start), err)
		return nil, err
	}

	metrics.RecordDBQuery("get_preset", time.Since(start), nil)
	return &models.Preset{Name: name, Entries: entries}, nil
}

// CreatePreset inserts a preset and its member entries.
func (db *DB) CreatePreset(ctx context.Context, p *models.Preset) error {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBQuery("create_preset", time.Since(start), err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, `INSERT INTO presets (name, created_at) VALUES (?, ?)`, p.Name, time.Now().UTC()); err != nil {
		metrics.RecordDBQuery("create_preset", time.Since(start), err)
		return fmt.Errorf("failed to create preset: %w", err)
	}
	for _, e := range p.Entries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO preset_entries (preset_name, screen_id, scenario) VALUES (?, ?, ?)`,
			p.Name, e.ScreenID, e.Scenario); err != nil {
			metrics.RecordDBQuery("create_preset", time.Since(start), err)
			return fmt.Errorf("failed to create preset entry: %w", err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("create_preset", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit preset: %w", err)
	}
	return nil
}

// ApplyPreset activates every member whose scenario assignment still exists,
// in one transaction. Members whose assignment was deleted after the preset
// was defined are skipped, not failed. Returns the activation summary and
// the IDs of the screens whose state actually changed.
func (db *DB) ApplyPreset(ctx context.Context, name string) (*models.PresetResult, []string, error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBQuery("apply_preset", time.Since(start), err)
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT true FROM presets WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("apply_preset", time.Since(start), nil)
		return nil, nil, signage.ErrPresetNotFound
	}
	if err != nil {
		metrics.RecordDBQuery("apply_preset", time.Since(start), err)
		return nil, nil, fmt.Errorf("failed to look up preset: %w", err)
	}

	entries, err := db.presetEntries(ctx, tx, name)
	if err != nil {
		metrics.RecordDBQuery("apply_preset", time.Since(start), err)
		return nil, nil, err
	}

	now := time.Now().UTC()
	result := &models.PresetResult{}
	activated := []string{}

	for _, e := range entries {
		var imagePath string
		err := tx.QueryRowContext(ctx,
			`SELECT image_path FROM scenario_assignments WHERE screen_id = ? AND scenario = ?`,
			e.ScreenID, e.Scenario).Scan(&imagePath)
		if errors.Is(err, sql.ErrNoRows) {
			result.Skipped++
			continue
		}
		if err != nil {
			metrics.RecordDBQuery("apply_preset", time.Since(start), err)
			return nil, nil, fmt.Errorf("failed to look up assignment for %s: %w", e.ScreenID, err)
		}

		scenario := e.Scenario
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screen_states (screen_id, image_src, scenario, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (screen_id) DO UPDATE SET
				image_src = excluded.image_src,
				scenario = excluded.scenario,
				updated_at = excluded.updated_at`,
			e.ScreenID, imagePath, scenario, now); err != nil {
			metrics.RecordDBQuery("apply_preset", time.Since(start), err)
			return nil, nil, fmt.Errorf("failed to upsert state for %s: %w", e.ScreenID, err)
		}

		result.Activated++
		activated = append(activated, e.ScreenID)
	}

	err = tx.Commit()
	metrics.RecordDBQuery("apply_preset", time.Since(start), err)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to commit preset activation: %w", err)
	}

	return result, activated, nil
}

// queryer abstracts *sql.DB and *sql.Tx for reads that run inside and
// outside the preset transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// presetEntries returns a preset's member entries ordered by screen ID.
func (db *DB) presetEntries(ctx context.Context, q queryer, name string) ([]models.PresetEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT screen_id, scenario FROM preset_entries WHERE preset_name = ? ORDER BY screen_id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list preset entries: %w", err)
	}
	defer closeQuietly(rows)

	entries := []models.PresetEntry{}
	for rows.Next() {
		var e models.PresetEntry
		if err := rows.Scan(&e.ScreenID, &e.Scenario); err != nil {
			return nil, fmt.Errorf("failed to scan preset entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preset entries: %w", err)
	}

	return entries, nil
}
