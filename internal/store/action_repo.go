package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// ActionRepo handles persistence for Action records.
type ActionRepo struct{}

const actionColumns = `action_id, bulk_change_id, action_type, name,
attributes_json, employees_json, employee_count, summary_json, created_at_unix`

// InsertTx inserts an action within an existing transaction.
func (r *ActionRepo) InsertTx(ctx context.Context, tx *sql.Tx, a domain.Action) error {
	attrs, emps, summary, err := marshalAction(a)
	if err != nil {
		return err
	}

	const q = `INSERT INTO actions (` + actionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, q,
		a.ID,
		a.BulkChangeID,
		string(a.Type),
		a.Name,
		attrs,
		emps,
		a.EmployeeCount,
		summary,
		a.CreatedAtUnix,
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// ReplaceTx overwrites an existing action row. Actions are value objects,
// so an update replaces the whole record.
func (r *ActionRepo) ReplaceTx(ctx context.Context, tx *sql.Tx, a domain.Action) error {
	attrs, emps, summary, err := marshalAction(a)
	if err != nil {
		return err
	}

	const q = `UPDATE actions SET
		action_type = ?,
		name = ?,
		attributes_json = ?,
		employees_json = ?,
		employee_count = ?,
		summary_json = ?
	WHERE action_id = ? AND bulk_change_id = ?`

	res, err := tx.ExecContext(ctx, q,
		string(a.Type), a.Name, attrs, emps, a.EmployeeCount, summary,
		a.ID, a.BulkChangeID)
	if err != nil {
		return fmt.Errorf("replace action: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrActionNotFound
	}
	return nil
}

// DeleteTx removes one action within a transaction.
func (r *ActionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, bulkChangeID, actionID string) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM actions WHERE action_id = ? AND bulk_change_id = ?`,
		actionID, bulkChangeID)
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrActionNotFound
	}
	return nil
}

// DeleteByBulkChangeTx removes every action of a bulk change.
func (r *ActionRepo) DeleteByBulkChangeTx(ctx context.Context, tx *sql.Tx, bulkChangeID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE bulk_change_id = ?`, bulkChangeID)
	if err != nil {
		return fmt.Errorf("delete actions: %w", err)
	}
	return nil
}

// ListByBulkChange returns the actions of one bulk change in insertion order.
func (r *ActionRepo) ListByBulkChange(ctx context.Context, q Querier, bulkChangeID string) ([]domain.Action, error) {
	const query = `SELECT ` + actionColumns + ` FROM actions
WHERE bulk_change_id = ?
ORDER BY created_at_unix ASC, action_id ASC`

	rows, err := q.QueryContext(ctx, query, bulkChangeID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []domain.Action
	for rows.Next() {
		var a domain.Action
		var actionType, attrsJSON, empsJSON, summaryJSON string
		if err := rows.Scan(&a.ID, &a.BulkChangeID, &actionType, &a.Name,
			&attrsJSON, &empsJSON, &a.EmployeeCount, &summaryJSON, &a.CreatedAtUnix); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.Type = domain.ActionType(actionType)
		if err := json.Unmarshal([]byte(attrsJSON), &a.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal action attributes: %w", err)
		}
		if err := json.Unmarshal([]byte(empsJSON), &a.Employees); err != nil {
			return nil, fmt.Errorf("unmarshal action employees: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &a.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal action summary: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Querier is satisfied by both *sql.DB and *sql.Tx so reads can run
// inside or outside a transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func marshalAction(a domain.Action) (attrs, emps, summary string, err error) {
	attrBytes, err := json.Marshal(a.Attributes)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal action attributes: %w", err)
	}
	empBytes, err := json.Marshal(a.Employees)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal action employees: %w", err)
	}
	summaryBytes, err := json.Marshal(a.Summary)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal action summary: %w", err)
	}
	return string(attrBytes), string(empBytes), string(summaryBytes), nil
}
