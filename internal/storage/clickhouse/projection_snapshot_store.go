package clickhouse

import (
	"context"
	"fmt"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/storage"
)

// ProjectionSnapshotStore implements storage.ProjectionSnapshotStore using ClickHouse.
type ProjectionSnapshotStore struct {
	conn *Conn
}

// NewProjectionSnapshotStore creates a new ProjectionSnapshotStore.
func NewProjectionSnapshotStore(conn *Conn) *ProjectionSnapshotStore {
	return &ProjectionSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProjectionSnapshotStore = (*ProjectionSnapshotStore)(nil)

const snapshotColumns = `
	run_id, days, simulations, data_origin,
	expected_final, lower95_final, upper95_final, lower99_final, upper99_final,
	win_rate, trades_per_day, calculated_at
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if run_id exists.
func (s *ProjectionSnapshotStore) Insert(ctx context.Context, snap *domain.ProjectionSnapshot) error {
	if snap == nil || snap.RunID == "" {
		return storage.ErrInvalidInput
	}

	// Check if exists (ReplacingMergeTree would replace, but we want append-only semantics)
	exists, err := s.exists(ctx, snap.RunID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO projection_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		snap.RunID, uint32(snap.Days), uint32(snap.Simulations), string(snap.DataOrigin),
		snap.ExpectedFinal, snap.Lower95Final, snap.Upper95Final, snap.Lower99Final, snap.Upper99Final,
		snap.WinRate, snap.TradesPerDay, snap.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert projection snapshot: %w", err)
	}
	return nil
}

// GetByRunID retrieves a snapshot by its run ID. Returns ErrNotFound if not exists.
func (s *ProjectionSnapshotStore) GetByRunID(ctx context.Context, runID string) (*domain.ProjectionSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM projection_snapshots FINAL
		WHERE run_id = ?
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, runID)

	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// GetRecent retrieves the most recent snapshots, newest first.
// Returns ErrInvalidInput if limit is not positive.
func (s *ProjectionSnapshotStore) GetRecent(ctx context.Context, limit int) ([]*domain.ProjectionSnapshot, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + snapshotColumns + `
		FROM projection_snapshots FINAL
		ORDER BY calculated_at DESC, run_id ASC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// exists checks if a snapshot with the given run ID exists.
func (s *ProjectionSnapshotStore) exists(ctx context.Context, runID string) (bool, error) {
	query := `
		SELECT count(*) FROM projection_snapshots FINAL
		WHERE run_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRow is the single-row scan surface shared by QueryRow results.
type chRow interface {
	Scan(dest ...interface{}) error
}

// chRows is the multi-row scan surface shared by Query results.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanSnapshot(row chRow) (*domain.ProjectionSnapshot, error) {
	var (
		snap        domain.ProjectionSnapshot
		days        uint32
		simulations uint32
		origin      string
	)

	err := row.Scan(
		&snap.RunID, &days, &simulations, &origin,
		&snap.ExpectedFinal, &snap.Lower95Final, &snap.Upper95Final, &snap.Lower99Final, &snap.Upper99Final,
		&snap.WinRate, &snap.TradesPerDay, &snap.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.Days = int(days)
	snap.Simulations = int(simulations)
	snap.DataOrigin = domain.DataOrigin(origin)
	return &snap, nil
}

func scanSnapshots(rows chRows) ([]*domain.ProjectionSnapshot, error) {
	var snapshots []*domain.ProjectionSnapshot

	for rows.Next() {
		var (
			snap        domain.ProjectionSnapshot
			days        uint32
			simulations uint32
			origin      string
		)

		err := rows.Scan(
			&snap.RunID, &days, &simulations, &origin,
			&snap.ExpectedFinal, &snap.Lower95Final, &snap.Upper95Final, &snap.Lower99Final, &snap.Upper99Final,
			&snap.WinRate, &snap.TradesPerDay, &snap.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		snap.Days = int(days)
		snap.Simulations = int(simulations)
		snap.DataOrigin = domain.DataOrigin(origin)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}
