package memory

import (
	"context"
	"sort"
	"sync"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/storage"
)

// ProjectionSnapshotStore is an in-memory implementation of storage.ProjectionSnapshotStore.
type ProjectionSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ProjectionSnapshot // keyed by run_id
}

// NewProjectionSnapshotStore creates a new in-memory projection snapshot store.
func NewProjectionSnapshotStore() *ProjectionSnapshotStore {
	return &ProjectionSnapshotStore{
		data: make(map[string]*domain.ProjectionSnapshot),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if run_id exists.
func (s *ProjectionSnapshotStore) Insert(_ context.Context, snap *domain.ProjectionSnapshot) error {
	if snap == nil || snap.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *snap
	s.data[snap.RunID] = &copy
	return nil
}

// GetByRunID retrieves a snapshot by its run ID. Returns ErrNotFound if not exists.
func (s *ProjectionSnapshotStore) GetByRunID(_ context.Context, runID string) (*domain.ProjectionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *snap
	return &copy, nil
}

// GetRecent retrieves up to limit snapshots, newest first.
func (s *ProjectionSnapshotStore) GetRecent(_ context.Context, limit int) ([]*domain.ProjectionSnapshot, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ProjectionSnapshot, 0, len(s.data))
	for _, snap := range s.data {
		copy := *snap
		result = append(result, &copy)
	}

	// Newest first, run_id as tiebreaker for stable output
	sort.Slice(result, func(i, j int) bool {
		if result[i].CalculatedAt != result[j].CalculatedAt {
			return result[i].CalculatedAt > result[j].CalculatedAt
		}
		return result[i].RunID < result[j].RunID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ storage.ProjectionSnapshotStore = (*ProjectionSnapshotStore)(nil)
