// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package models

import "time"

// StateMessageType is the "type" field of every state broadcast payload.
// Signage clients dispatch on it, so the value is part of the wire contract.
const StateMessageType = "state"

// StatePayload is the wire-level message pushed to every connected viewer:
//
//	{"type":"state","screens":{"<id>":{"src":...,"scenario":...,"updated":...,"slideshow":{...}}}}
//
// Screens is always serialized as an object; zero screens produces
// {"screens":{}} rather than null. Consumers parse this exact shape, so field
// names and nullability here must not change.
type StatePayload struct {
	Type    string                `json:"type"`
	Screens map[string]StateEntry `json:"screens"`
}

// StateEntry is one screen's slice of the aggregate state map.
//
// Src and Scenario serialize as JSON null when absent. Slideshow is present
// only when the screen's active scenario rotates through at least one image
// on an interval.
type StateEntry struct {
	Src       *string    `json:"src"`
	Scenario  *string    `json:"scenario"`
	Updated   time.Time  `json:"updated"`
	Slideshow *Slideshow `json:"slideshow,omitempty"`
}

// Slideshow describes scenario content that rotates through multiple images.
// Image order is playback order.
type Slideshow struct {
	Images     []string `json:"images"`
	IntervalMs int      `json:"intervalMs"`
}

// NewStatePayload wraps a screen map in the broadcast envelope, allocating
// the map when nil so the empty aggregate still serializes as {}.
func NewStatePayload(screens map[string]StateEntry) StatePayload {
	if screens == nil {
		screens = map[string]StateEntry{}
	}
	return StatePayload{Type: StateMessageType, Screens: screens}
}
