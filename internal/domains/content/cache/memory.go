// Package cache holds the in-process tier: a single time-boxed copy of the
// snapshot's record list, shared by every concurrent request in the process.
package cache

import (
	"sync"
	"time"

	"content-backend/internal/domains/content/model"
)

// Memory caches the full content list for at most ttl. The clock is injected
// so tests can advance time deterministically instead of sleeping.
type Memory struct {
	mu       sync.Mutex
	records  []model.ContentRecord
	loadedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

// New builds a cache with the given TTL. A nil clock defaults to time.Now.
func New(ttl time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{ttl: ttl, now: now}
}

// Get returns the cached list while it is fresh. The second return is false
// on a miss: never populated, invalidated, or past TTL.
func (m *Memory) Get() ([]model.ContentRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records == nil {
		return nil, false
	}
	if m.now().Sub(m.loadedAt) >= m.ttl {
		return nil, false
	}

	return m.records, true
}

// Set replaces the cached list and resets its age.
func (m *Memory) Set(records []model.ContentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = records
	m.loadedAt = m.now()
}

// Invalidate clears immediately, forcing the next Get to miss regardless of
// TTL.
func (m *Memory) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
}
