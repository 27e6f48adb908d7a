// Package store provides SQLite-backed persistence for the Bulk Change Engine.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaV1 defines the initial database schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS bulk_changes (
	bulk_change_id       TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	description          TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL DEFAULT 'draft',
	current_step         INTEGER NOT NULL DEFAULT 2,
	completed_steps_json TEXT NOT NULL DEFAULT '[]',
	employee_count       INTEGER NOT NULL DEFAULT 0,
	effective_date       TEXT NOT NULL DEFAULT '',
	reason               TEXT NOT NULL DEFAULT '',
	validation_json      TEXT NOT NULL DEFAULT '[]',
	state_version        INTEGER NOT NULL DEFAULT 1,
	last_event_seq       INTEGER NOT NULL DEFAULT 0,
	created_at_unix      INTEGER NOT NULL DEFAULT 0,
	updated_at_unix      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS actions (
	action_id       TEXT PRIMARY KEY,
	bulk_change_id  TEXT NOT NULL,
	action_type     TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	attributes_json TEXT NOT NULL DEFAULT '[]',
	employees_json  TEXT NOT NULL DEFAULT '[]',
	employee_count  INTEGER NOT NULL DEFAULT 0,
	summary_json    TEXT NOT NULL DEFAULT '{}',
	created_at_unix INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_actions_bulk_change ON actions(bulk_change_id);

CREATE TABLE IF NOT EXISTS approvers (
	approver_id     TEXT PRIMARY KEY,
	bulk_change_id  TEXT NOT NULL,
	scope           TEXT NOT NULL DEFAULT '',
	employee_count  INTEGER NOT NULL DEFAULT 0,
	approver_ref    TEXT NOT NULL DEFAULT '',
	approver_name   TEXT NOT NULL DEFAULT '',
	approver_email  TEXT NOT NULL DEFAULT '',
	backup_name     TEXT NOT NULL DEFAULT '',
	backup_email    TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'pending',
	sent_at_unix    INTEGER NOT NULL DEFAULT 0,
	due_at_unix     INTEGER NOT NULL DEFAULT 0,
	decided_at_unix INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_approvers_bulk_change ON approvers(bulk_change_id);

CREATE TABLE IF NOT EXISTS workflow_events (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	bulk_change_id TEXT NOT NULL,
	seq_no         INTEGER NOT NULL,
	step           INTEGER NOT NULL,
	event_type     TEXT NOT NULL,
	payload_json   TEXT NOT NULL DEFAULT '{}',
	created_at     INTEGER NOT NULL,
	UNIQUE(bulk_change_id, seq_no)
);
CREATE INDEX IF NOT EXISTS idx_events_bc_seq ON workflow_events(bulk_change_id, seq_no);

CREATE TABLE IF NOT EXISTS step_snapshots (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	bulk_change_id TEXT NOT NULL,
	step           INTEGER NOT NULL,
	snapshot_json  TEXT NOT NULL DEFAULT '{}',
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_bc_step ON step_snapshots(bulk_change_id, step);

CREATE TABLE IF NOT EXISTS audit_records (
	id             TEXT PRIMARY KEY,
	bulk_change_id TEXT NOT NULL,
	category       TEXT NOT NULL,
	actor          TEXT NOT NULL DEFAULT '',
	action         TEXT NOT NULL,
	detail_json    TEXT NOT NULL DEFAULT '{}',
	severity       TEXT NOT NULL DEFAULT 'info',
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_bulk_change ON audit_records(bulk_change_id);
`

// NewDB opens a SQLite database at the given path with recommended pragmas
// and runs the V1 schema migration.
func NewDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Limit connections to 1 for SQLite (WAL allows concurrent reads but single writer).
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), schemaV1)
	return err
}
