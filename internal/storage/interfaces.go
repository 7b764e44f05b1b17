package storage

import (
	"context"

	"pnl-projection-service/internal/domain"
)

// TradeRecordStore provides access to trade_records storage.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByTimeRange retrieves trades executed within [from, to] (inclusive),
	// ordered by executed_at ASC.
	GetByTimeRange(ctx context.Context, from, to int64) ([]*domain.TradeRecord, error)

	// GetAll retrieves all trades, ordered by executed_at ASC.
	GetAll(ctx context.Context) ([]*domain.TradeRecord, error)

	// Count returns the number of stored trades.
	Count(ctx context.Context) (int64, error)
}

// ProjectionSnapshotStore provides access to projection_snapshots storage.
type ProjectionSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, s *domain.ProjectionSnapshot) error

	// GetByRunID retrieves a snapshot by its run ID. Returns ErrNotFound if not exists.
	GetByRunID(ctx context.Context, runID string) (*domain.ProjectionSnapshot, error)

	// GetRecent retrieves up to limit snapshots, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.ProjectionSnapshot, error)
}
