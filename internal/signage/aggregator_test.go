// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signboard-dev/signboard/internal/cache"
	"github.com/signboard-dev/signboard/internal/models"
)

func TestAggregateStillImage(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := payload.Screens["A"]
	if !ok {
		t.Fatal("expected entry for screen A")
	}
	if entry.Src == nil || *entry.Src != "/x.png" {
		t.Errorf("src = %v, want /x.png", entry.Src)
	}
	if entry.Scenario != nil {
		t.Errorf("scenario = %v, want nil", entry.Scenario)
	}
	if entry.Slideshow != nil {
		t.Error("slideshow must be absent for direct content")
	}
	if entry.Updated.IsZero() {
		t.Error("updated must carry the state timestamp")
	}
}

func TestAggregateSlideshowAttachment(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/1.png"), strPtr("s1"))
	store.setAssignment(models.ScenarioAssignment{
		ScreenID:   "A",
		Scenario:   "s1",
		ImagePath:  "/1.png",
		IntervalMs: intPtr(5000),
		Images:     []string{"/1.png", "/2.png"},
	})
	svc := newTestService(store)

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := payload.Screens["A"]
	if entry.Slideshow == nil {
		t.Fatal("expected slideshow descriptor")
	}
	if entry.Slideshow.IntervalMs != 5000 {
		t.Errorf("intervalMs = %d, want 5000", entry.Slideshow.IntervalMs)
	}
	if len(entry.Slideshow.Images) != 2 || entry.Slideshow.Images[0] != "/1.png" || entry.Slideshow.Images[1] != "/2.png" {
		t.Errorf("images = %v, want [/1.png /2.png] in order", entry.Slideshow.Images)
	}
}

func TestAggregateNoSlideshowWithoutInterval(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/1.png"), strPtr("s1"))
	store.setAssignment(models.ScenarioAssignment{
		ScreenID:  "A",
		Scenario:  "s1",
		ImagePath: "/1.png",
		Images:    []string{"/1.png", "/2.png"},
	})
	svc := newTestService(store)

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Screens["A"].Slideshow != nil {
		t.Error("slideshow must require intervalMs")
	}
}

func TestAggregateMissingAssignmentDegrades(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/last.png"), strPtr("deleted-scenario"))
	svc := newTestService(store)

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("missing assignment must not be an error, got %v", err)
	}

	entry := payload.Screens["A"]
	if entry.Slideshow != nil {
		t.Error("slideshow must be omitted when the assignment is gone")
	}
	if entry.Src == nil || *entry.Src != "/last.png" {
		t.Errorf("src = %v, want the last persisted image", entry.Src)
	}
	if entry.Scenario == nil || *entry.Scenario != "deleted-scenario" {
		t.Errorf("scenario = %v, want deleted-scenario", entry.Scenario)
	}
}

func TestAggregateEmptyState(t *testing.T) {
	svc := newTestService(newFakeStore())

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Screens == nil {
		t.Fatal("screens map must be non-nil")
	}
	if len(payload.Screens) != 0 {
		t.Errorf("screens = %v, want empty", payload.Screens)
	}
}

func TestAggregateStorageErrorPropagates(t *testing.T) {
	store := newFakeStore()
	storeErr := errors.New("connection refused")
	store.failListStatesError = storeErr
	svc := newTestService(store)

	if _, err := svc.Aggregate(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("got err %v, want wrapped %v", err, storeErr)
	}
}

func TestAggregateUsesCachedStates(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.Aggregate(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if store.listStatesCalls != 1 {
		t.Errorf("store reads = %d, want 1 (aggregate must read through the cache)", store.listStatesCalls)
	}
}

func TestAggregateRefetchesAfterInvalidation(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	cacheStore := cache.NewStatic(time.Minute)
	svc := NewService(store, cacheStore)

	if _, err := svc.Aggregate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.setState("A", strPtr("/y.png"), nil)
	svc.InvalidateState("A")

	payload, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry := payload.Screens["A"]; entry.Src == nil || *entry.Src != "/y.png" {
		t.Errorf("src = %v, want /y.png after invalidation", entry.Src)
	}
	if store.listStatesCalls != 2 {
		t.Errorf("store reads = %d, want 2", store.listStatesCalls)
	}
}
