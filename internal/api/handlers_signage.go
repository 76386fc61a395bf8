// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/signboard-dev/signboard/internal/signage"
)

// SetContentRequest is the body of POST /screens/{id}/content.
type SetContentRequest struct {
	Src string `json:"src" validate:"required,min=1,max=2048"`
}

// TriggerScenarioRequest is the body of POST /screens/{id}/scenario.
type TriggerScenarioRequest struct {
	Scenario string `json:"scenario" validate:"required,min=1,max=128"`
}

// Displays returns all displays with screen counts.
func (h *Handler) Displays(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	displays, err := h.service.Displays(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load displays", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"displays": displays,
		"count":    len(displays),
	}, start))
}

// Screens returns screens, optionally filtered by the "display" query
// parameter.
func (h *Handler) Screens(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	displayID := r.URL.Query().Get("display")
	screens, err := h.service.Screens(r.Context(), displayID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load screens", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"screens": screens,
		"count":   len(screens),
	}, start))
}

// States returns the aggregated wire-level state map, exactly as the
// websocket broadcast would serialize it.
func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	payload, err := h.service.Aggregate(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to aggregate state", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(payload, start))
}

// SetScreenContent points a screen directly at an asset.
func (h *Handler) SetScreenContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	screenID := chi.URLParam(r, "id")

	var req SetContentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	state, err := h.service.SetScreenContent(r.Context(), screenID, req.Src)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to set screen content", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(state, start))
}

// TurnOffScreen clears a screen's content.
func (h *Handler) TurnOffScreen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	screenID := chi.URLParam(r, "id")

	state, err := h.service.TurnOffScreen(r.Context(), screenID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to turn off screen", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(state, start))
}

// TriggerScenario activates a named scenario on a screen.
func (h *Handler) TriggerScenario(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	screenID := chi.URLParam(r, "id")

	var req TriggerScenarioRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	state, err := h.service.TriggerScenario(r.Context(), screenID, req.Scenario)
	if errors.Is(err, signage.ErrAssignmentNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No scenario assignment for this screen", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to trigger scenario", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(state, start))
}

// TriggerPreset activates a preset for all its member screens.
func (h *Handler) TriggerPreset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")

	result, err := h.service.TriggerPreset(r.Context(), name)
	if errors.Is(err, signage.ErrPresetNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Preset not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to trigger preset", err)
		return
	}

	respondJSON(w, http.StatusOK, successResponse(result, start))
}

// RefreshState recomputes and rebroadcasts the aggregate to all viewers.
func (h *Handler) RefreshState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.service.Broadcast(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to rebroadcast state", err)
		return
	}

	viewers := 0
	if h.hub != nil {
		viewers = h.hub.GetClientCount()
	}
	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"refreshed": true,
		"viewers":   viewers,
	}, start))
}

// CacheStats returns per-namespace cache counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, http.StatusOK, successResponse(h.service.CacheStats(), start))
}
