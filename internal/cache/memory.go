package cache

import (
	"context"
	"sync"
	"time"

	"pnl-projection-service/internal/domain"
)

// Memory is an in-process ResultCache.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key]*domain.ProjectionResult
	clock   func() time.Time
}

// MemoryOptions contains configuration for creating a Memory cache.
type MemoryOptions struct {
	// Clock overrides the time source. Default: time.Now. Tests inject a
	// fake clock to exercise expiry without sleeping.
	Clock func() time.Time
}

// NewMemory creates an in-process cache.
func NewMemory(opts MemoryOptions) *Memory {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Memory{
		entries: make(map[Key]*domain.ProjectionResult),
		clock:   clock,
	}
}

// Compile-time interface check.
var _ ResultCache = (*Memory)(nil)

// Get returns the cached result, or ErrMiss if absent or expired.
// Expired entries are evicted on read.
func (m *Memory) Get(_ context.Context, key Key) (*domain.ProjectionResult, error) {
	m.mu.RLock()
	result, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}

	if !m.clock().Before(result.CachedUntil) {
		m.mu.Lock()
		// Re-check under the write lock; a fresher entry may have landed.
		if current, ok := m.entries[key]; ok && !m.clock().Before(current.CachedUntil) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}

	return copyResult(result), nil
}

// Set stores the result wholesale. Entries already expired are still stored;
// they simply never produce a hit.
func (m *Memory) Set(_ context.Context, key Key, result *domain.ProjectionResult) error {
	stored := copyResult(result)

	m.mu.Lock()
	m.entries[key] = stored
	m.mu.Unlock()
	return nil
}

// Invalidate removes an entry. Removing an absent key is not an error.
func (m *Memory) Invalidate(_ context.Context, key Key) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Name identifies the backend in metrics.
func (m *Memory) Name() string {
	return "memory"
}

// copyResult deep-copies a result so callers can't mutate cached state.
func copyResult(r *domain.ProjectionResult) *domain.ProjectionResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ExpectedTrajectory = append([]float64(nil), r.ExpectedTrajectory...)
	cp.ConfidenceIntervals.CI95.Lower = append([]float64(nil), r.ConfidenceIntervals.CI95.Lower...)
	cp.ConfidenceIntervals.CI95.Upper = append([]float64(nil), r.ConfidenceIntervals.CI95.Upper...)
	cp.ConfidenceIntervals.CI99.Lower = append([]float64(nil), r.ConfidenceIntervals.CI99.Lower...)
	cp.ConfidenceIntervals.CI99.Upper = append([]float64(nil), r.ConfidenceIntervals.CI99.Upper...)
	return &cp
}
