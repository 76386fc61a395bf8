// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package signage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/signboard-dev/signboard/internal/models"
)

func TestBroadcastWithoutRegistryIsNoop(t *testing.T) {
	svc := newTestService(newFakeStore())

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Errorf("broadcast without a registry must return nil, got %v", err)
	}
}

func TestBroadcastDeliversSameBytesToAllReady(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	subs := []*fakeSubscriber{{ready: true}, {ready: true}, {ready: true}}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{subs[0], subs[1], subs[2]}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var first []byte
	for i, sub := range subs {
		got := sub.received()
		if len(got) != 1 {
			t.Fatalf("subscriber %d received %d payloads, want 1", i, len(got))
		}
		if first == nil {
			first = got[0]
			continue
		}
		if !bytes.Equal(first, got[0]) {
			t.Errorf("subscriber %d received different bytes", i)
		}
	}
}

func TestBroadcastSkipsNotReady(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	ready := &fakeSubscriber{ready: true}
	connecting := &fakeSubscriber{ready: false}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{connecting, ready}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ready.received()) != 1 {
		t.Error("ready subscriber must receive the payload")
	}
	if len(connecting.received()) != 0 {
		t.Error("non-ready subscriber must be skipped")
	}
}

func TestBroadcastIsolatesSendFailures(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	good1 := &fakeSubscriber{ready: true}
	bad := &fakeSubscriber{ready: true, sendErr: errors.New("broken pipe")}
	good2 := &fakeSubscriber{ready: true}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{good1, bad, good2}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("broadcast must not fail on a subscriber error, got %v", err)
	}
	if len(good1.received()) != 1 || len(good2.received()) != 1 {
		t.Error("healthy subscribers must receive the payload despite one failure")
	}
}

func TestBroadcastStorageErrorReturned(t *testing.T) {
	store := newFakeStore()
	storeErr := errors.New("db down")
	store.failListStatesError = storeErr
	svc := newTestService(store)
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{&fakeSubscriber{ready: true}}})

	if err := svc.Broadcast(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("got err %v, want wrapped %v", err, storeErr)
	}
}

func TestSetChannelMostRecentWins(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), nil)
	svc := newTestService(store)

	old := &fakeSubscriber{ready: true}
	replacement := &fakeSubscriber{ready: true}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{old}})
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{replacement}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(old.received()) != 0 {
		t.Error("replaced registry must not receive payloads")
	}
	if len(replacement.received()) != 1 {
		t.Error("active registry must receive the payload")
	}
}

func TestBroadcastWireFormat(t *testing.T) {
	store := newFakeStore()
	store.setState("A", strPtr("/x.png"), strPtr("s1"))
	store.setAssignment(slideshowAssignment())
	svc := newTestService(store)

	sub := &fakeSubscriber{ready: true}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{sub}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(sub.received()[0], &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if string(decoded["type"]) != `"state"` {
		t.Errorf("type = %s, want \"state\"", decoded["type"])
	}

	var screens map[string]struct {
		Src       *string `json:"src"`
		Scenario  *string `json:"scenario"`
		Updated   string  `json:"updated"`
		Slideshow *struct {
			Images     []string `json:"images"`
			IntervalMs int      `json:"intervalMs"`
		} `json:"slideshow"`
	}
	if err := json.Unmarshal(decoded["screens"], &screens); err != nil {
		t.Fatalf("screens is not the expected shape: %v", err)
	}

	entry, ok := screens["A"]
	if !ok {
		t.Fatal("expected screens.A")
	}
	if entry.Src == nil || *entry.Src != "/x.png" {
		t.Errorf("src = %v, want /x.png", entry.Src)
	}
	if entry.Slideshow == nil || entry.Slideshow.IntervalMs != 5000 {
		t.Errorf("slideshow = %+v, want intervalMs 5000", entry.Slideshow)
	}
	if entry.Updated == "" {
		t.Error("updated must be present")
	}
}

func TestBroadcastEmptyStateRoundTrip(t *testing.T) {
	svc := newTestService(newFakeStore())
	sub := &fakeSubscriber{ready: true}
	svc.SetChannel(&fakeRegistry{subs: []Subscriber{sub}})

	if err := svc.Broadcast(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := sub.received()[0]
	var decoded struct {
		Type    string                     `json:"type"`
		Screens map[string]json.RawMessage `json:"screens"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("empty payload must be valid JSON: %v", err)
	}
	if decoded.Screens == nil {
		t.Error(`screens must serialize as {}, not null`)
	}
	if len(decoded.Screens) != 0 {
		t.Errorf("screens = %v, want empty map", decoded.Screens)
	}
	if !bytes.Contains(payload, []byte(`"screens":{}`)) {
		t.Errorf("payload = %s, want literal \"screens\":{}", payload)
	}
}

func slideshowAssignment() models.ScenarioAssignment {
	return models.ScenarioAssignment{
		ScreenID:   "A",
		Scenario:   "s1",
		ImagePath:  "/x.png",
		IntervalMs: intPtr(5000),
		Images:     []string{"/x.png", "/y.png"},
	}
}
