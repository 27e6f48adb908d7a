package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// EventRepo handles persistence for WorkflowEvent records.
type EventRepo struct{}

// AppendTx inserts a workflow event within an existing transaction.
func (r *EventRepo) AppendTx(ctx context.Context, tx *sql.Tx, event domain.WorkflowEvent) error {
	const q = `INSERT INTO workflow_events (bulk_change_id, seq_no, step, event_type, payload_json, created_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		event.BulkChangeID,
		event.SeqNo,
		int(event.Step),
		event.EventType,
		event.PayloadJSON,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListByBulkChange returns events with sequence numbers greater than
// sinceSeq, ordered by sequence number ascending.
func (r *EventRepo) ListByBulkChange(ctx context.Context, db *sql.DB, bulkChangeID string, sinceSeq int64) ([]domain.WorkflowEvent, error) {
	const q = `SELECT id, bulk_change_id, seq_no, step, event_type, payload_json, created_at
FROM workflow_events
WHERE bulk_change_id = ? AND seq_no > ?
ORDER BY seq_no ASC`

	rows, err := db.QueryContext(ctx, q, bulkChangeID, sinceSeq)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.WorkflowEvent
	for rows.Next() {
		var e domain.WorkflowEvent
		var step int
		if err := rows.Scan(&e.ID, &e.BulkChangeID, &e.SeqNo, &step, &e.EventType, &e.PayloadJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Step = domain.Step(step)
		events = append(events, e)
	}
	return events, rows.Err()
}
