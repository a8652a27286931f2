package db

import (
	"context"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are written to run on both
// SQLite and Postgres.
func Migrate(db DBTX) error {
	ctx := context.Background()
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// Re-running ALTER TABLE ... ADD COLUMN fails once the column
			// exists: "duplicate column name" on SQLite, "already exists"
			// on Postgres.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id            INTEGER PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		active        INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS processes (
		id            INTEGER PRIMARY KEY,
		product_id    INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		step_no       INTEGER NOT NULL,
		name          TEXT NOT NULL,
		kind          TEXT NOT NULL CHECK(kind IN ('SPM','DAY')),
		rate          DOUBLE PRECISION NOT NULL DEFAULT 0,
		batch_size    INTEGER NOT NULL DEFAULT 0,
		cycle_days    DOUBLE PRECISION NOT NULL DEFAULT 0,
		setup_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
		machine_type  TEXT NOT NULL DEFAULT '',
		UNIQUE(product_id, step_no)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_processes_product ON processes(product_id)`,
	`CREATE TABLE IF NOT EXISTS machines (
		id           INTEGER PRIMARY KEY,
		machine_no   TEXT NOT NULL,
		machine_type TEXT NOT NULL,
		factory      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_machines_type ON machines(machine_type)`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id            INTEGER PRIMARY KEY,
		po_number     TEXT NOT NULL,
		product_id    INTEGER NOT NULL REFERENCES products(id),
		quantity      INTEGER NOT NULL CHECK(quantity >= 0),
		delivery_date TEXT NOT NULL,
		received_date TEXT,
		delivered     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_orders_product ON purchase_orders(product_id)`,
	`CREATE TABLE IF NOT EXISTS finished_products (
		id            INTEGER PRIMARY KEY,
		product_id    INTEGER NOT NULL REFERENCES products(id),
		quantity      INTEGER NOT NULL,
		finished_date TEXT,
		shipped       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_finished_products_product ON finished_products(product_id)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		holiday_date TEXT PRIMARY KEY,
		kind         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_runs (
		id                  TEXT PRIMARY KEY,
		working_hours       INTEGER NOT NULL,
		constrained_count   INTEGER NOT NULL DEFAULT 0,
		unconstrained_count INTEGER NOT NULL DEFAULT 0,
		total_count         INTEGER NOT NULL DEFAULT 0,
		makespan            TEXT,
		warnings            TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id                 TEXT PRIMARY KEY,
		run_id             TEXT NOT NULL REFERENCES schedule_runs(id) ON DELETE CASCADE,
		po_id              INTEGER NOT NULL REFERENCES purchase_orders(id),
		product_id         INTEGER NOT NULL REFERENCES products(id),
		process_id         INTEGER NOT NULL REFERENCES processes(id),
		machine_id         INTEGER REFERENCES machines(id),
		planned_start      TEXT NOT NULL,
		planned_end        TEXT NOT NULL,
		quantity           INTEGER NOT NULL,
		setup_minutes      DOUBLE PRECISION NOT NULL DEFAULT 0,
		processing_minutes DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_entries_machine ON schedule_entries(machine_id, planned_start)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_entries_po ON schedule_entries(po_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_entries_start ON schedule_entries(planned_start)`,

	// Run diagnostics, added after the first release.
	`ALTER TABLE schedule_runs ADD COLUMN iterations INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE schedule_runs ADD COLUMN backfilled_steps INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE schedule_runs ADD COLUMN constrained_types TEXT NOT NULL DEFAULT ''`,
}
