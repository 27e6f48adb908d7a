package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// ApproverRepo handles persistence for ApproverEntry records.
type ApproverRepo struct{}

const approverColumns = `approver_id, bulk_change_id, scope, employee_count,
approver_ref, approver_name, approver_email, backup_name, backup_email,
status, sent_at_unix, due_at_unix, decided_at_unix`

// InsertTx inserts an approver entry within an existing transaction.
func (r *ApproverRepo) InsertTx(ctx context.Context, tx *sql.Tx, a domain.ApproverEntry) error {
	const q = `INSERT INTO approvers (` + approverColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		a.ID,
		a.BulkChangeID,
		a.Scope,
		a.EmployeeCount,
		a.ApproverID,
		a.ApproverName,
		a.ApproverEmail,
		a.BackupName,
		a.BackupEmail,
		string(a.Status),
		a.SentAtUnix,
		a.DueAtUnix,
		a.DecidedAtUnix,
	)
	if err != nil {
		return fmt.Errorf("insert approver: %w", err)
	}
	return nil
}

// UpdateStatusTx records a status change for one approver entry.
func (r *ApproverRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, entryID string, status domain.ApproverStatus, decidedAtUnix int64) error {
	const q = `UPDATE approvers SET status = ?, decided_at_unix = ? WHERE approver_id = ?`
	res, err := tx.ExecContext(ctx, q, string(status), decidedAtUnix, entryID)
	if err != nil {
		return fmt.Errorf("update approver status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrApproverNotFound
	}
	return nil
}

// DeleteByBulkChangeTx removes every approver entry of a bulk change.
func (r *ApproverRepo) DeleteByBulkChangeTx(ctx context.Context, tx *sql.Tx, bulkChangeID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM approvers WHERE bulk_change_id = ?`, bulkChangeID)
	if err != nil {
		return fmt.Errorf("delete approvers: %w", err)
	}
	return nil
}

// ListByBulkChange returns the approver entries of one bulk change in
// insertion order.
func (r *ApproverRepo) ListByBulkChange(ctx context.Context, q Querier, bulkChangeID string) ([]domain.ApproverEntry, error) {
	const query = `SELECT ` + approverColumns + ` FROM approvers
WHERE bulk_change_id = ?
ORDER BY sent_at_unix ASC, approver_id ASC`

	rows, err := q.QueryContext(ctx, query, bulkChangeID)
	if err != nil {
		return nil, fmt.Errorf("list approvers: %w", err)
	}
	defer rows.Close()

	var out []domain.ApproverEntry
	for rows.Next() {
		var a domain.ApproverEntry
		var status string
		if err := rows.Scan(&a.ID, &a.BulkChangeID, &a.Scope, &a.EmployeeCount,
			&a.ApproverID, &a.ApproverName, &a.ApproverEmail, &a.BackupName, &a.BackupEmail,
			&status, &a.SentAtUnix, &a.DueAtUnix, &a.DecidedAtUnix); err != nil {
			return nil, fmt.Errorf("scan approver: %w", err)
		}
		a.Status = domain.ApproverStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
