package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// BulkChangeRepo handles persistence for the bulk change root rows.
// Actions and approvers live in their own repos; the workflow engine
// assembles the aggregate.
type BulkChangeRepo struct{}

const bulkChangeColumns = `bulk_change_id, name, description, status, current_step,
completed_steps_json, employee_count, effective_date, reason, validation_json,
state_version, last_event_seq, created_at_unix, updated_at_unix`

// CreateTx inserts a new bulk change root within an existing transaction.
func (r *BulkChangeRepo) CreateTx(ctx context.Context, tx *sql.Tx, bc domain.BulkChange) error {
	steps, err := json.Marshal(bc.CompletedSteps)
	if err != nil {
		return fmt.Errorf("marshal completed steps: %w", err)
	}
	validation, err := marshalValidation(bc.Validation)
	if err != nil {
		return err
	}

	const q = `INSERT INTO bulk_changes (` + bulkChangeColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, q,
		bc.ID,
		bc.Name,
		bc.Description,
		string(bc.Status),
		int(bc.CurrentStep),
		string(steps),
		bc.EmployeeCount,
		bc.EffectiveDate,
		bc.Reason,
		validation,
		bc.StateVersion,
		bc.LastEventSeq,
		bc.CreatedAtUnix,
		bc.UpdatedAtUnix,
	)
	if err != nil {
		return fmt.Errorf("create bulk change: %w", err)
	}
	return nil
}

// UpdateStateTx updates a bulk change root within a transaction using
// optimistic locking. The update only succeeds if the current
// state_version matches the version the caller read.
func (r *BulkChangeRepo) UpdateStateTx(ctx context.Context, tx *sql.Tx, bc domain.BulkChange) error {
	steps, err := json.Marshal(bc.CompletedSteps)
	if err != nil {
		return fmt.Errorf("marshal completed steps: %w", err)
	}
	validation, err := marshalValidation(bc.Validation)
	if err != nil {
		return err
	}

	const q = `UPDATE bulk_changes SET
		name = ?,
		description = ?,
		status = ?,
		current_step = ?,
		completed_steps_json = ?,
		employee_count = ?,
		effective_date = ?,
		reason = ?,
		validation_json = ?,
		state_version = state_version + 1,
		last_event_seq = ?,
		updated_at_unix = ?
	WHERE bulk_change_id = ? AND state_version = ?`

	res, err := tx.ExecContext(ctx, q,
		bc.Name,
		bc.Description,
		string(bc.Status),
		int(bc.CurrentStep),
		string(steps),
		bc.EmployeeCount,
		bc.EffectiveDate,
		bc.Reason,
		validation,
		bc.LastEventSeq,
		bc.UpdatedAtUnix,
		bc.ID,
		bc.StateVersion,
	)
	if err != nil {
		return fmt.Errorf("update bulk change state: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrOptimisticLock
	}
	return nil
}

// DeleteTx removes the root row within a transaction. Child rows are
// removed by the caller alongside.
func (r *BulkChangeRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bulk_changes WHERE bulk_change_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bulk change: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrBulkChangeNotFound
	}
	return nil
}

// GetByID retrieves one bulk change root by its ID.
func (r *BulkChangeRepo) GetByID(ctx context.Context, db *sql.DB, id string) (*domain.BulkChange, error) {
	const q = `SELECT ` + bulkChangeColumns + ` FROM bulk_changes WHERE bulk_change_id = ?`
	row := db.QueryRowContext(ctx, q, id)

	bc, err := scanBulkChange(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBulkChangeNotFound
		}
		return nil, fmt.Errorf("get bulk change: %w", err)
	}
	return bc, nil
}

// List returns every bulk change root, newest first.
func (r *BulkChangeRepo) List(ctx context.Context, db *sql.DB) ([]domain.BulkChange, error) {
	const q = `SELECT ` + bulkChangeColumns + ` FROM bulk_changes
ORDER BY created_at_unix DESC, bulk_change_id DESC`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list bulk changes: %w", err)
	}
	defer rows.Close()

	var out []domain.BulkChange
	for rows.Next() {
		bc, err := scanBulkChange(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan bulk change: %w", err)
		}
		out = append(out, *bc)
	}
	return out, rows.Err()
}

func scanBulkChange(scan func(...any) error) (*domain.BulkChange, error) {
	var bc domain.BulkChange
	var status, stepsJSON, validationJSON string
	var currentStep int

	err := scan(&bc.ID, &bc.Name, &bc.Description, &status, &currentStep,
		&stepsJSON, &bc.EmployeeCount, &bc.EffectiveDate, &bc.Reason, &validationJSON,
		&bc.StateVersion, &bc.LastEventSeq, &bc.CreatedAtUnix, &bc.UpdatedAtUnix)
	if err != nil {
		return nil, err
	}

	bc.Status = domain.Status(status)
	bc.CurrentStep = domain.Step(currentStep)
	if err := json.Unmarshal([]byte(stepsJSON), &bc.CompletedSteps); err != nil {
		return nil, fmt.Errorf("unmarshal completed steps: %w", err)
	}
	if err := json.Unmarshal([]byte(validationJSON), &bc.Validation); err != nil {
		return nil, fmt.Errorf("unmarshal validation: %w", err)
	}
	return &bc, nil
}

func marshalValidation(items []domain.ValidationItem) (string, error) {
	if items == nil {
		items = []domain.ValidationItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal validation: %w", err)
	}
	return string(data), nil
}
