// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

// Package services wraps Signboard's long-running components as
// suture.Service implementations.
package services

import (
	"context"
)

// ContextHub matches *websocket.Hub's RunWithContext method. The interface
// keeps this package free of a websocket import.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the viewer registry hub under supervision. The
// hub's RunWithContext already follows the suture.Service contract, so this
// wrapper only supplies a name for event logging.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService creates a hub service wrapper.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service. Returns ctx.Err() on normal shutdown.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervisor event logs.
func (w *WebSocketHubService) String() string {
	return w.name
}
