// Package cache stores computed projections keyed by request parameters.
package cache

import (
	"context"
	"errors"
	"fmt"

	"pnl-projection-service/internal/domain"
)

// ErrMiss is returned when a key is absent or its entry has expired.
var ErrMiss = errors.New("cache miss")

// Key identifies one cached projection by its request parameters.
type Key struct {
	Days        int
	Simulations int
}

// NewKey builds the cache key for a (days, simulations) pair.
func NewKey(days, simulations int) Key {
	return Key{Days: days, Simulations: simulations}
}

// String renders the canonical key form used by external backends.
func (k Key) String() string {
	return fmt.Sprintf("projection:%d:%d", k.Days, k.Simulations)
}

// ResultCache is a TTL cache of projection results. Entries expire at the
// result's CachedUntil timestamp; concurrent writers race benignly, with the
// last write winning.
type ResultCache interface {
	// Get returns the cached result, or ErrMiss if absent or expired.
	Get(ctx context.Context, key Key) (*domain.ProjectionResult, error)
	// Set stores the result wholesale; expiry derives from result.CachedUntil.
	Set(ctx context.Context, key Key, result *domain.ProjectionResult) error
	// Invalidate removes an entry. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key Key) error
	// Name identifies the backend in metrics.
	Name() string
}
