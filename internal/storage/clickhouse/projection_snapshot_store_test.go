package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/storage"
)

func makeSnapshot(runID string, calculatedAt int64) *domain.ProjectionSnapshot {
	return &domain.ProjectionSnapshot{
		RunID:         runID,
		Days:          30,
		Simulations:   1000,
		DataOrigin:    domain.OriginRealData,
		ExpectedFinal: 4250.75,
		Lower95Final:  -1100.25,
		Upper95Final:  9800.50,
		Lower99Final:  -2450.00,
		Upper99Final:  12100.00,
		WinRate:       0.62,
		TradesPerDay:  2.4,
		CalculatedAt:  calculatedAt,
	}
}

func TestProjectionSnapshotStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	snap := makeSnapshot("run-001", 1700000000000)

	err := store.Insert(ctx, snap)
	require.NoError(t, err)

	got, err := store.GetByRunID(ctx, "run-001")
	require.NoError(t, err)

	assert.Equal(t, "run-001", got.RunID)
	assert.Equal(t, 30, got.Days)
	assert.Equal(t, 1000, got.Simulations)
	assert.Equal(t, domain.OriginRealData, got.DataOrigin)
	assert.Equal(t, 4250.75, got.ExpectedFinal)
	assert.Equal(t, -1100.25, got.Lower95Final)
	assert.Equal(t, 9800.50, got.Upper95Final)
	assert.Equal(t, -2450.00, got.Lower99Final)
	assert.Equal(t, 12100.00, got.Upper99Final)
	assert.Equal(t, 0.62, got.WinRate)
	assert.Equal(t, 2.4, got.TradesPerDay)
	assert.Equal(t, int64(1700000000000), got.CalculatedAt)
}

func TestProjectionSnapshotStore_Insert_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	snap := makeSnapshot("run-dup", 1700000000000)

	err := store.Insert(ctx, snap)
	require.NoError(t, err)

	err = store.Insert(ctx, snap)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestProjectionSnapshotStore_Insert_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Insert(ctx, &domain.ProjectionSnapshot{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestProjectionSnapshotStore_GetByRunID_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	_, err := store.GetByRunID(ctx, "missing-run")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProjectionSnapshotStore_GetRecent(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeSnapshot("run-a", 1000)))
	require.NoError(t, store.Insert(ctx, makeSnapshot("run-b", 3000)))
	require.NoError(t, store.Insert(ctx, makeSnapshot("run-c", 2000)))

	// Newest first, capped at limit
	got, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "run-b", got[0].RunID)
	assert.Equal(t, "run-c", got[1].RunID)
}

func TestProjectionSnapshotStore_GetRecent_LimitExceedsCount(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeSnapshot("run-only", 1000)))

	got, err := store.GetRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProjectionSnapshotStore_GetRecent_InvalidLimit(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProjectionSnapshotStore(conn)
	ctx := context.Background()

	_, err := store.GetRecent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.GetRecent(ctx, -5)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
