// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package database

import (
	"context"
	"fmt"

	"github.com/signboard-dev/signboard/internal/logging"
	"github.com/signboard-dev/signboard/internal/models"
)

// SeedDemoData populates an empty database with a small venue layout:
// two displays, four screens, scenario assignments (one slideshow) and a
// preset covering both lobby screens. Intended for demos and local testing.
// A database that already contains displays is left untouched.
func (db *DB) SeedDemoData(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM displays`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for existing data: %w", err)
	}
	if count > 0 {
		logging.Debug().Msg("Database already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo signage data")

	displays := []models.Display{
		{ID: "lobby", Name: "Main Lobby"},
		{ID: "cafe", Name: "Cafeteria"},
	}
	screens := []models.Screen{
		{ID: "lobby-left", DisplayID: "lobby", Name: "Lobby Left", Position: 0},
		{ID: "lobby-right", DisplayID: "lobby", Name: "Lobby Right", Position: 1},
		{ID: "cafe-menu", DisplayID: "cafe", Name: "Menu Board", Position: 0},
		{ID: "cafe-promo", DisplayID: "cafe", Name: "Promo Screen", Position: 1, Width: 1080, Height: 1920},
	}

	for i := range displays {
		if err := db.CreateDisplay(ctx, &displays[i]); err != nil {
			return err
		}
	}
	for i := range screens {
		if screens[i].Width == 0 {
			screens[i].Width = 1920
		}
		if screens[i].Height == 0 {
			screens[i].Height = 1080
		}
		if err := db.CreateScreen(ctx, &screens[i]); err != nil {
			return err
		}
	}

	welcomeInterval := 8000
	assignments := []models.ScenarioAssignment{
		{
			ScreenID:   "lobby-left",
			Scenario:   "welcome",
			ImagePath:  "/content/welcome-1.png",
			IntervalMs: &welcomeInterval,
			Images:     []string{"/content/welcome-1.png", "/content/welcome-2.png", "/content/welcome-3.png"},
		},
		{
			ScreenID:  "lobby-right",
			Scenario:  "welcome",
			ImagePath: "/content/directions.png",
			Images:    []string{"/content/directions.png"},
		},
		{
			ScreenID:  "cafe-menu",
			Scenario:  "lunch",
			ImagePath: "/content/menu-lunch.png",
			Images:    []string{"/content/menu-lunch.png"},
		},
	}
	for i := range assignments {
		if err := db.UpsertScenarioAssignment(ctx, &assignments[i]); err != nil {
			return err
		}
	}

	preset := &models.Preset{
		Name: "morning",
		Entries: []models.PresetEntry{
			{ScreenID: "lobby-left", Scenario: "welcome"},
			{ScreenID: "lobby-right", Scenario: "welcome"},
		},
	}
	if err := db.CreatePreset(ctx, preset); err != nil {
		return err
	}

	logging.Info().
		Int("displays", len(displays)).
		Int("screens", len(screens)).
		Int("assignments", len(assignments)).
		Msg("Demo data seeded")

	return nil
}
