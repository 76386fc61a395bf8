// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"context"
	"sync"
	"time"

	"github.com/signboard-dev/signboard/internal/cache"
	"github.com/signboard-dev/signboard/internal/models"
)

// fakeStore is an in-memory Store for exercising the broadcast core without
// a database. Call counters let tests assert read-through behavior.
type fakeStore struct {
	mu          sync.Mutex
	states      map[string]models.ScreenState
	assignments map[string]models.ScenarioAssignment
	screens     []models.Screen
	displays    []models.Display
	presets     map[string][]models.PresetEntry

	listStatesCalls     int
	getAssignmentCalls  int
	failListStatesError error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		states:      map[string]models.ScreenState{},
		assignments: map[string]models.ScenarioAssignment{},
		presets:     map[string][]models.PresetEntry{},
	}
}

func (f *fakeStore) setState(screenID string, src, scenario *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[screenID] = models.ScreenState{
		ScreenID:  screenID,
		ImageSrc:  src,
		Scenario:  scenario,
		UpdatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) setAssignment(a models.ScenarioAssignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments[cache.ScenarioKey(a.ScreenID, a.Scenario)] = a
}

func (f *fakeStore) ListScreenStates(ctx context.Context) ([]models.ScreenState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatesCalls++
	if f.failListStatesError != nil {
		return nil, f.failListStatesError
	}
	out := []models.ScreenState{}
	for _, s := range f.states {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) GetScreenState(ctx context.Context, screenID string) (*models.ScreenState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[screenID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return &s, nil
}

func (f *fakeStore) UpsertScreenState(ctx context.Context, screenID string, imageSrc, scenario *string) (*models.ScreenState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.ScreenState{
		ScreenID:  screenID,
		ImageSrc:  imageSrc,
		Scenario:  scenario,
		UpdatedAt: time.Now().UTC(),
	}
	f.states[screenID] = s
	return &s, nil
}

func (f *fakeStore) GetScenarioAssignment(ctx context.Context, screenID, scenario string) (*models.ScenarioAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAssignmentCalls++
	a, ok := f.assignments[cache.ScenarioKey(screenID, scenario)]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	return &a, nil
}

func (f *fakeStore) ListScenarioAssignments(ctx context.Context) ([]models.ScenarioAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ScenarioAssignment{}
	for _, a := range f.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) ListScreens(ctx context.Context, displayID string) ([]models.Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if displayID == "" {
		return f.screens, nil
	}
	out := []models.Screen{}
	for _, s := range f.screens {
		if s.DisplayID == displayID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDisplays(ctx context.Context) ([]models.Display, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.displays, nil
}

func (f *fakeStore) GetPreset(ctx context.Context, name string) (*models.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, ok := f.presets[name]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return &models.Preset{Name: name, Entries: entries}, nil
}

func (f *fakeStore) ApplyPreset(ctx context.Context, name string) (*models.PresetResult, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, ok := f.presets[name]
	if !ok {
		return nil, nil, ErrPresetNotFound
	}

	result := &models.PresetResult{}
	touched := []string{}
	for _, e := range entries {
		a, ok := f.assignments[cache.ScenarioKey(e.ScreenID, e.Scenario)]
		if !ok {
			result.Skipped++
			continue
		}
		scenario := e.Scenario
		f.states[e.ScreenID] = models.ScreenState{
			ScreenID:  e.ScreenID,
			ImageSrc:  &a.ImagePath,
			Scenario:  &scenario,
			UpdatedAt: time.Now().UTC(),
		}
		result.Activated++
		touched = append(touched, e.ScreenID)
	}
	return result, touched, nil
}

// fakeSubscriber records the payloads it receives.
type fakeSubscriber struct {
	mu       sync.Mutex
	ready    bool
	sendErr  error
	payloads [][]byte
}

func (f *fakeSubscriber) Ready() bool { return f.ready }

func (f *fakeSubscriber) Send(payload []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	return nil
}

func (f *fakeSubscriber) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte{}, f.payloads...)
}

// fakeRegistry is a static subscriber set.
type fakeRegistry struct {
	subs []Subscriber
}

func (f *fakeRegistry) Subscribers() []Subscriber { return f.subs }

func newTestService(store Store) *Service {
	return NewService(store, cache.NewStatic(time.Minute))
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
