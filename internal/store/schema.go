package store

import "context"

// schema is applied at startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		company_id    TEXT NOT NULL,
		company_name  TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key ON accounts (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS employees (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT NOT NULL,
		company_id      TEXT NOT NULL,
		employee_code   TEXT NOT NULL,
		department      TEXT NOT NULL DEFAULT 'Unassigned',
		position        TEXT NOT NULL DEFAULT 'Employee',
		encoding        JSONB NOT NULL,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		last_attendance TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employees_company_email_key ON employees (company_id, LOWER(email))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employees_company_code_key ON employees (company_id, employee_code)`,
	`CREATE INDEX IF NOT EXISTS employees_company_idx ON employees (company_id)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		company_id  TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		day         DATE NOT NULL,
		status      TEXT NOT NULL DEFAULT 'present'
	)`,
	`CREATE INDEX IF NOT EXISTS attendance_company_date_idx ON attendance_records (company_id, occurred_at)`,
	// One record per employee per calendar day. The application still performs
	// a pre-insert existence check; this index closes the check-then-insert
	// race under concurrent marks. day is computed by the ledger in the
	// server's local timezone.
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_daily_key ON attendance_records (company_id, employee_id, day)`,
}

// Migrate applies the schema.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
