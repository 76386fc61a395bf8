// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package models defines the domain types shared across Signboard: the
// signage entities stored durably, the wire-level state payload pushed to
// connected viewers, and the HTTP response envelope.
package models

import "time"

// Display is a logical grouping of one or more screens (e.g. a venue).
type Display struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ScreenCount int       `db:"screen_count" json:"screen_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Screen is a physical display surface belonging to one Display.
type Screen struct {
	ID        string    `db:"id" json:"id"`
	DisplayID string    `db:"display_id" json:"display_id"`
	Name      string    `db:"name" json:"name"`
	Position  int       `db:"position" json:"position"`
	Width     int       `db:"width" json:"width"`
	Height    int       `db:"height" json:"height"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScreenState is the currently-displayed content for one screen.
//
// ImageSrc nil means the screen is off. Scenario nil means content was set
// directly rather than via a named scenario. UpdatedAt is monotonically
// non-decreasing per screen; every state-changing write refreshes it.
type ScreenState struct {
	ScreenID  string    `db:"screen_id" json:"screen_id"`
	ImageSrc  *string   `db:"image_src" json:"image_src"`
	Scenario  *string   `db:"scenario" json:"scenario"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScenarioAssignment binds (screen, scenario name) to content. When
// IntervalMs is set and more than one image is associated, the scenario plays
// as a slideshow; image order defines playback order.
//
// Read-only from the broadcast core's perspective; the assignment-management
// routers own mutation and must invalidate the scenario cache afterwards.
type ScenarioAssignment struct {
	ScreenID   string   `db:"screen_id" json:"screen_id"`
	Scenario   string   `db:"scenario" json:"scenario"`
	ImagePath  string   `db:"image_path" json:"image_path"`
	IntervalMs *int     `db:"interval_ms" json:"interval_ms"`
	Images     []string `db:"-" json:"images"`
}

// Preset is a named bundle mapping multiple screens to scenario names,
// activated together as one operator action.
type Preset struct {
	Name    string         `db:"name" json:"name"`
	Entries []PresetEntry  `db:"-" json:"entries"`
}

// PresetEntry is one member of a preset.
type PresetEntry struct {
	ScreenID string `db:"screen_id" json:"screen_id"`
	Scenario string `db:"scenario" json:"scenario"`
}

// PresetResult reports the outcome of a preset trigger: how many member
// screens were activated and how many were skipped because their scenario
// assignment no longer exists.
type PresetResult struct {
	Activated int `json:"activated"`
	Skipped   int `json:"skipped"`
}
