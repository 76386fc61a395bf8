// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package services

import (
	"context"
	"time"

	"github.com/signboard-dev/signboard/internal/logging"
)

// Checkpointer matches *database.DB's Checkpoint method.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically forces a DuckDB WAL checkpoint so the
// database file stays current between restarts. Checkpoint failures are
// logged and retried on the next tick rather than crashing the service.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService creates a checkpoint service wrapper.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		name:     "db-checkpoint",
	}
}

// Serve implements suture.Service. Returns ctx.Err() on normal shutdown.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.db.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Periodic checkpoint failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor event logs.
func (s *CheckpointService) String() string {
	return s.name
}
