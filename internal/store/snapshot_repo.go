package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// SnapshotRepo handles persistence for StepSnapshot records.
type SnapshotRepo struct{}

// SaveTx inserts a step snapshot within an existing transaction.
func (r *SnapshotRepo) SaveTx(ctx context.Context, tx *sql.Tx, snap domain.StepSnapshot) error {
	const q = `INSERT INTO step_snapshots (bulk_change_id, step, snapshot_json, created_at)
VALUES (?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		snap.BulkChangeID,
		int(snap.Step),
		snap.SnapshotJSON,
		snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the most recent snapshot for a bulk change and step.
// Returns nil if no snapshot exists.
func (r *SnapshotRepo) GetLatest(ctx context.Context, db *sql.DB, bulkChangeID string, step domain.Step) (*domain.StepSnapshot, error) {
	const q = `SELECT id, bulk_change_id, step, snapshot_json, created_at
FROM step_snapshots
WHERE bulk_change_id = ? AND step = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`

	row := db.QueryRowContext(ctx, q, bulkChangeID, int(step))

	var s domain.StepSnapshot
	var st int
	err := row.Scan(&s.ID, &s.BulkChangeID, &st, &s.SnapshotJSON, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	s.Step = domain.Step(st)
	return &s, nil
}
