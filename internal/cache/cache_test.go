// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "screen-1", "value-1", 0)

	got, ok := s.Get(NamespaceState, "screen-1")
	if !ok {
		t.Fatal("expected hit for screen-1")
	}
	if got != "value-1" {
		t.Errorf("got %v, want value-1", got)
	}

	if _, ok := s.Get(NamespaceState, "screen-2"); ok {
		t.Error("expected miss for screen-2")
	}
}

func TestStoreNamespaceIsolation(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "k", "state-value", 0)
	s.Set(NamespaceScreens, "k", "screens-value", 0)

	got, ok := s.Get(NamespaceScreens, "k")
	if !ok || got != "screens-value" {
		t.Errorf("got %v %v, want screens-value true", got, ok)
	}

	s.Invalidate(NamespaceScreens, "k")

	if _, ok := s.Get(NamespaceScreens, "k"); ok {
		t.Error("screens entry should be invalidated")
	}
	if _, ok := s.Get(NamespaceState, "k"); !ok {
		t.Error("state entry must survive invalidation of another namespace")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "short", "value", 20*time.Millisecond)

	if _, ok := s.Get(NamespaceState, "short"); !ok {
		t.Fatal("entry should be live before TTL")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := s.Get(NamespaceState, "short"); ok {
		t.Error("entry should have expired")
	}
}

func TestStoreZeroTTLUsesDefault(t *testing.T) {
	s := NewStatic(30 * time.Millisecond)

	s.Set(NamespaceDisplays, AllKey, "displays", 0)

	if _, ok := s.Get(NamespaceDisplays, AllKey); !ok {
		t.Fatal("entry should be live before default TTL")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := s.Get(NamespaceDisplays, AllKey); ok {
		t.Error("entry should expire after default TTL")
	}
}

func TestInvalidateRemovesAllSentinel(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "screen-1", "v1", 0)
	s.Set(NamespaceState, "screen-2", "v2", 0)
	s.Set(NamespaceState, AllKey, "aggregate", 0)

	s.Invalidate(NamespaceState, "screen-1")

	if _, ok := s.Get(NamespaceState, "screen-1"); ok {
		t.Error("screen-1 should be invalidated")
	}
	if _, ok := s.Get(NamespaceState, AllKey); ok {
		t.Error("aggregate sentinel should be invalidated alongside screen-1")
	}
	if _, ok := s.Get(NamespaceState, "screen-2"); !ok {
		t.Error("screen-2 should be untouched")
	}
}

func TestInvalidateMissingKeyIsNoop(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "screen-1", "v1", 0)
	s.Invalidate(NamespaceState, "absent")

	// Sentinel coupling still applies even when the key was absent.
	if _, ok := s.Get(NamespaceState, "screen-1"); !ok {
		t.Error("existing entry should survive invalidation of an absent key")
	}

	stats := s.Stats()
	if stats.Namespaces[NamespaceState].Evictions != 0 {
		t.Errorf("evictions = %d, want 0", stats.Namespaces[NamespaceState].Evictions)
	}
}

func TestInvalidateNamespace(t *testing.T) {
	s := NewStatic(time.Minute)

	for i := 0; i < 5; i++ {
		s.Set(NamespaceScenario, ScenarioKey("screen", fmt.Sprintf("sc-%d", i)), i, 0)
	}
	s.Set(NamespaceState, "screen-1", "v", 0)

	s.InvalidateNamespace(NamespaceScenario)

	stats := s.Stats()
	if got := stats.Namespaces[NamespaceScenario].Entries; got != 0 {
		t.Errorf("scenario entries = %d, want 0", got)
	}
	if got := stats.Namespaces[NamespaceState].Entries; got != 1 {
		t.Errorf("state entries = %d, want 1", got)
	}
	if got := stats.Namespaces[NamespaceScenario].Evictions; got != 5 {
		t.Errorf("scenario evictions = %d, want 5", got)
	}
}

func TestInvalidateAll(t *testing.T) {
	s := NewStatic(time.Minute)

	for _, ns := range Namespaces {
		s.Set(ns, "k", "v", 0)
	}

	s.InvalidateAll()

	stats := s.Stats()
	if stats.TotalEntries != 0 {
		t.Errorf("total entries = %d, want 0", stats.TotalEntries)
	}
}

func TestStatsCounters(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "a", 1, 0)
	s.Get(NamespaceState, "a")
	s.Get(NamespaceState, "a")
	s.Get(NamespaceState, "missing")

	stats := s.Stats()
	ns := stats.Namespaces[NamespaceState]
	if ns.Hits != 2 {
		t.Errorf("hits = %d, want 2", ns.Hits)
	}
	if ns.Misses != 1 {
		t.Errorf("misses = %d, want 1", ns.Misses)
	}
	if ns.Entries != 1 {
		t.Errorf("entries = %d, want 1", ns.Entries)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("total = %d, want 1", stats.TotalEntries)
	}
}

func TestStatsExcludesExpired(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceState, "short", "v", 15*time.Millisecond)
	s.Set(NamespaceState, "long", "v", time.Minute)

	time.Sleep(30 * time.Millisecond)

	stats := s.Stats()
	if got := stats.Namespaces[NamespaceState].Entries; got != 1 {
		t.Errorf("entries = %d, want 1 (expired entry must not count)", got)
	}
}

func TestCleanupSweepsExpired(t *testing.T) {
	s := NewStatic(time.Minute)

	s.Set(NamespaceScreens, "d1", "v", 10*time.Millisecond)
	s.Set(NamespaceScreens, "d2", "v", time.Minute)

	time.Sleep(25 * time.Millisecond)
	s.cleanup()

	stats := s.Stats()
	ns := stats.Namespaces[NamespaceScreens]
	if ns.Entries != 1 {
		t.Errorf("entries = %d, want 1", ns.Entries)
	}
	if ns.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", ns.Evictions)
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	s := NewStatic(time.Minute)
	calls := 0

	fetch := func(context.Context) (string, error) {
		calls++
		return "computed", nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrCompute(context.Background(), s, NamespaceState, "k", 0, fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "computed" {
			t.Errorf("got %q, want computed", got)
		}
	}

	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestGetOrComputeNoNegativeCaching(t *testing.T) {
	s := NewStatic(time.Minute)
	calls := 0
	fetchErr := errors.New("store unavailable")

	fetch := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", fetchErr
		}
		return "recovered", nil
	}

	if _, err := GetOrCompute(context.Background(), s, NamespaceState, "k", 0, fetch); !errors.Is(err, fetchErr) {
		t.Fatalf("got err %v, want %v", err, fetchErr)
	}

	got, err := GetOrCompute(context.Background(), s, NamespaceState, "k", 0, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("got %q, want recovered", got)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (errors must not be cached)", calls)
	}
}

func TestGetOrComputeRefetchesAfterExpiry(t *testing.T) {
	s := NewStatic(time.Minute)
	calls := 0

	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, _ := GetOrCompute(context.Background(), s, NamespaceState, "k", 15*time.Millisecond, fetch)
	if first != 1 {
		t.Fatalf("first = %d, want 1", first)
	}

	time.Sleep(30 * time.Millisecond)

	second, _ := GetOrCompute(context.Background(), s, NamespaceState, "k", 15*time.Millisecond, fetch)
	if second != 2 {
		t.Errorf("second = %d, want 2 (expired entry should refetch)", second)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStatic(time.Minute)
	var wg sync.WaitGroup
	var fetches atomic.Int64

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("screen-%d", n%4)
			for j := 0; j < 100; j++ {
				_, err := GetOrCompute(context.Background(), s, NamespaceState, key, 0, func(context.Context) (string, error) {
					fetches.Add(1)
					return key, nil
				})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if j%10 == 0 {
					s.Invalidate(NamespaceState, key)
				}
			}
		}(i)
	}

	wg.Wait()

	if fetches.Load() == 0 {
		t.Error("expected at least one fetch")
	}
}

func BenchmarkStoreGet(b *testing.B) {
	s := NewStatic(time.Minute)
	s.Set(NamespaceState, "k", "value", 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(NamespaceState, "k")
	}
}

func BenchmarkGetOrComputeHit(b *testing.B) {
	s := NewStatic(time.Minute)
	fetch := func(context.Context) (string, error) { return "v", nil }

	GetOrCompute(context.Background(), s, NamespaceState, "k", 0, fetch)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetOrCompute(context.Background(), s, NamespaceState, "k", 0, fetch)
	}
}
