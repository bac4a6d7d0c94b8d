package ratelimit

import (
	"context"
	"sync"
	"time"
)

// purgeThreshold is the number of keys above which expired entries are dropped on write
const purgeThreshold = 10000

// MemoryStore is a process-local CounterStore. Counters don't survive restarts
// and are not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	count   int
	resetAt time.Time
}

// NewMemoryStore makes an empty in-memory counter store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

// Incr increments key counter, starting a new window if the previous one ended
func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.entries) > purgeThreshold {
		m.purge(now)
	}

	e, ok := m.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = memEntry{resetAt: now.Add(window)}
	}
	e.count++
	m.entries[key] = e
	return e.count, e.resetAt, nil
}

// Len returns number of tracked keys
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// purge drops expired keys, caller holds the lock
func (m *MemoryStore) purge(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.resetAt) {
			delete(m.entries, k)
		}
	}
}
