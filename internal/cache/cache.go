// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/signboard-dev/signboard/internal/metrics"
)

// Namespace partitions the cache by concern. Each namespace is invalidated
// independently and carries its own "all" aggregate sentinel (except
// NamespaceDisplays, which has a single slot keyed by the sentinel itself).
type Namespace string

const (
	// NamespaceState caches screen state, keyed by screen ID.
	NamespaceState Namespace = "state"
	// NamespaceScenario caches scenario assignments, keyed by
	// "<screenID>:<scenarioName>".
	NamespaceScenario Namespace = "scenario"
	// NamespaceScreens caches screen lists, keyed by display ID.
	NamespaceScreens Namespace = "screens"
	// NamespaceDisplays caches the display list in a single slot.
	NamespaceDisplays Namespace = "displays"
)

// AllKey is the per-namespace sentinel under which aggregate ("fetch all")
// results are cached. Invalidating any specific key in a namespace also
// removes this sentinel, because the aggregate is derived from the individual
// entries and would otherwise serve stale joined data.
const AllKey = "all"

// Namespaces lists every namespace the store manages.
var Namespaces = []Namespace{NamespaceState, NamespaceScenario, NamespaceScreens, NamespaceDisplays}

// ScenarioKey builds the scenario-namespace key for one (screen, scenario)
// binding.
func ScenarioKey(screenID, scenario string) string {
	return screenID + ":" + scenario
}

// Entry is a cached value with its insertion time and lifetime.
// An entry is valid iff now - StoredAt <= TTL.
type Entry struct {
	Data     interface{}
	StoredAt time.Time
	TTL      time.Duration
}

// expired reports whether the entry is past its TTL at the given instant.
func (e Entry) expired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.TTL
}

// nsStats tracks per-namespace counters. Guarded by Store.statsMu.
type nsStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// NamespaceStats is a read-only snapshot of one namespace.
type NamespaceStats struct {
	Entries   int64 `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Stats is a read-only snapshot of the whole store. Used for observability,
// not correctness.
type Stats struct {
	Namespaces   map[Namespace]NamespaceStats `json:"namespaces"`
	TotalEntries int64                        `json:"total_entries"`
}

// Store is a thread-safe, namespaced in-memory cache with per-entry TTL.
//
// There is no eviction beyond TTL expiry: the key space is bounded by the
// number of screens, scenarios and displays, all operator-controlled and
// small. Expired entries are dropped lazily on access and swept periodically
// by the background cleanup loop.
type Store struct {
	mu         sync.RWMutex
	namespaces map[Namespace]map[string]Entry
	defaultTTL time.Duration

	statsMu sync.Mutex
	stats   map[Namespace]*nsStats
}

// New creates a Store and starts a background goroutine that sweeps expired
// entries every cleanupInterval. The goroutine runs for the cache lifetime,
// which equals the process lifetime.
func New(defaultTTL, cleanupInterval time.Duration) *Store {
	s := NewStatic(defaultTTL)
	go s.cleanupLoop(cleanupInterval)
	return s
}

// NewStatic creates a Store without the background sweep. Expiry is still
// enforced on every read. Used by tests that want deterministic contents.
func NewStatic(defaultTTL time.Duration) *Store {
	s := &Store{
		namespaces: make(map[Namespace]map[string]Entry, len(Namespaces)),
		defaultTTL: defaultTTL,
		stats:      make(map[Namespace]*nsStats, len(Namespaces)),
	}
	for _, ns := range Namespaces {
		s.namespaces[ns] = make(map[string]Entry)
		s.stats[ns] = &nsStats{}
	}
	return s
}

// DefaultTTL returns the TTL applied when callers pass a zero ttl.
func (s *Store) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Get retrieves a value. Expired entries are removed and counted as misses.
func (s *Store) Get(ns Namespace, key string) (interface{}, bool) {
	s.mu.RLock()
	entry, exists := s.namespaces[ns][key]
	s.mu.RUnlock()

	if !exists {
		s.recordMiss(ns)
		return nil, false
	}

	if entry.expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, ok := s.namespaces[ns][key]; ok && current.StoredAt.Equal(entry.StoredAt) {
			delete(s.namespaces[ns], key)
			s.recordEviction(ns, 1)
		}
		s.mu.Unlock()
		s.recordMiss(ns)
		return nil, false
	}

	s.recordHit(ns)
	return entry.Data, true
}

// Set stores a value with the given TTL; ttl <= 0 uses the store default.
func (s *Store) Set(ns Namespace, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	s.namespaces[ns][key] = Entry{Data: value, StoredAt: time.Now(), TTL: ttl}
	size := len(s.namespaces[ns])
	s.mu.Unlock()

	metrics.CacheEntries.WithLabelValues(string(ns)).Set(float64(size))
}

// Invalidate removes one entry and the namespace's "all" sentinel.
// Safe to call for keys that do not exist.
func (s *Store) Invalidate(ns Namespace, key string) {
	s.mu.Lock()
	removed := int64(0)
	if _, ok := s.namespaces[ns][key]; ok {
		delete(s.namespaces[ns], key)
		removed++
	}
	if key != AllKey {
		if _, ok := s.namespaces[ns][AllKey]; ok {
			delete(s.namespaces[ns], AllKey)
			removed++
		}
	}
	size := len(s.namespaces[ns])
	s.mu.Unlock()

	s.recordEviction(ns, removed)
	metrics.CacheEntries.WithLabelValues(string(ns)).Set(float64(size))
}

// InvalidateNamespace clears every entry in a namespace.
func (s *Store) InvalidateNamespace(ns Namespace) {
	s.mu.Lock()
	removed := int64(len(s.namespaces[ns]))
	s.namespaces[ns] = make(map[string]Entry)
	s.mu.Unlock()

	s.recordEviction(ns, removed)
	metrics.CacheEntries.WithLabelValues(string(ns)).Set(0)
}

// InvalidateAll clears every namespace.
func (s *Store) InvalidateAll() {
	for _, ns := range Namespaces {
		s.InvalidateNamespace(ns)
	}
}

// Stats returns a snapshot of live entry counts and counters. Entries past
// their TTL but not yet swept are excluded from the counts.
func (s *Store) Stats() Stats {
	now := time.Now()

	s.mu.RLock()
	live := make(map[Namespace]int64, len(s.namespaces))
	for ns, entries := range s.namespaces {
		var n int64
		for _, e := range entries {
			if !e.expired(now) {
				n++
			}
		}
		live[ns] = n
	}
	s.mu.RUnlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	out := Stats{Namespaces: make(map[Namespace]NamespaceStats, len(live))}
	for ns, n := range live {
		c := s.stats[ns]
		out.Namespaces[ns] = NamespaceStats{
			Entries:   n,
			Hits:      c.Hits,
			Misses:    c.Misses,
			Evictions: c.Evictions,
		}
		out.TotalEntries += n
	}
	return out
}

// cleanupLoop periodically removes expired entries.
func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup removes all expired entries across every namespace.
func (s *Store) cleanup() {
	now := time.Now()

	s.mu.Lock()
	for ns, entries := range s.namespaces {
		removed := int64(0)
		for key, e := range entries {
			if e.expired(now) {
				delete(entries, key)
				removed++
			}
		}
		if removed > 0 {
			s.recordEviction(ns, removed)
		}
		metrics.CacheEntries.WithLabelValues(string(ns)).Set(float64(len(entries)))
	}
	s.mu.Unlock()
}

func (s *Store) recordHit(ns Namespace) {
	s.statsMu.Lock()
	s.stats[ns].Hits++
	s.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(string(ns)).Inc()
}

func (s *Store) recordMiss(ns Namespace) {
	s.statsMu.Lock()
	s.stats[ns].Misses++
	s.statsMu.Unlock()
	metrics.CacheMisses.WithLabelValues(string(ns)).Inc()
}

func (s *Store) recordEviction(ns Namespace, n int64) {
	if n == 0 {
		return
	}
	s.statsMu.Lock()
	s.stats[ns].Evictions += n
	s.statsMu.Unlock()
	metrics.CacheEvictions.WithLabelValues(string(ns)).Add(float64(n))
}

// GetOrCompute returns the cached value for (ns, key) if present and
// unexpired; otherwise it invokes fetch, stores the result with a fresh
// timestamp, and returns it. Fetch errors propagate to the caller without
// populating the cache (no negative caching).
//
// Two callers racing on the same miss may both invoke fetch; the later Set
// wins. The race is deliberately not deduplicated: fetches are idempotent
// reads and single-flight locking would change latency characteristics.
func GetOrCompute[T any](ctx context.Context, s *Store, ns Namespace, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if raw, ok := s.Get(ns, key); ok {
		if value, ok := raw.(T); ok {
			return value, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.Set(ns, key, value, ttl)
	return value, nil
}
