package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// AuditRepo handles persistence for AuditRecord entries.
type AuditRepo struct{}

// RecordTx inserts an audit record within an existing transaction.
func (r *AuditRepo) RecordTx(ctx context.Context, tx *sql.Tx, rec domain.AuditRecord) error {
	const q = `INSERT INTO audit_records (id, bulk_change_id, category, actor, action, detail_json, severity, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		rec.ID,
		rec.BulkChangeID,
		rec.Category,
		rec.Actor,
		rec.Action,
		rec.DetailJSON,
		rec.Severity,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// ListByBulkChange returns all audit records for a bulk change, ordered
// by creation time.
func (r *AuditRepo) ListByBulkChange(ctx context.Context, db *sql.DB, bulkChangeID string) ([]domain.AuditRecord, error) {
	const q = `SELECT id, bulk_change_id, category, actor, action, detail_json, severity, created_at
FROM audit_records
WHERE bulk_change_id = ?
ORDER BY created_at ASC, id ASC`

	rows, err := db.QueryContext(ctx, q, bulkChangeID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var a domain.AuditRecord
		if err := rows.Scan(&a.ID, &a.BulkChangeID, &a.Category, &a.Actor, &a.Action,
			&a.DetailJSON, &a.Severity, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
