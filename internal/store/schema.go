package store

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations[i] brings a journal from schema version i to i+1. Append only.
var migrations = []string{
	// 1: runs and their days.
	`
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    company_id TEXT NOT NULL,
    company_name TEXT NOT NULL,
    service_name TEXT,
    topic TEXT,
    start_date TEXT NOT NULL,  -- simulated, RFC3339
    created_at TEXT NOT NULL   -- wall clock, RFC3339
);

CREATE TABLE IF NOT EXISTS days (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    users REAL NOT NULL,
    financial_assets REAL NOT NULL,
    valuation REAL NOT NULL,
    capacity REAL NOT NULL,
    remaining_capacity REAL NOT NULL,
    unmaintained INTEGER NOT NULL DEFAULT 0,
    completed TEXT,  -- JSON array of feature names
    settled INTEGER NOT NULL DEFAULT 0,
    revenue REAL,
    salaries REAL,
    hosting_costs REAL,
    PRIMARY KEY (run_id, date)
);
CREATE INDEX IF NOT EXISTS idx_days_run ON days(run_id);
`,
	// 2: ListRuns sorts by creation time.
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at, id);`,
}

// SchemaVersion is the version a journal has after InitSchema.
var SchemaVersion = len(migrations)

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);`

// InitSchema brings db up to SchemaVersion. Existing journals are integrity
// checked before anything is applied to them.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return migrateTo(ctx, db, SchemaVersion)
}

func migrateTo(ctx context.Context, db *sql.DB, target int) error {
	if _, err := db.ExecContext(ctx, schemaVersionTable); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := getSchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > 0 {
		if err := ValidateIntegrity(ctx, db); err != nil {
			return fmt.Errorf("database integrity check failed: %w", err)
		}
	}
	if current > len(migrations) {
		return fmt.Errorf("journal schema version %d is newer than this build (%d)", current, len(migrations))
	}

	for v := current; v < target; v++ {
		if err := applyMigration(ctx, db, v+1, migrations[v]); err != nil {
			return fmt.Errorf("failed to migrate schema to version %d: %w", v+1, err)
		}
	}
	return nil
}

// getSchemaVersion returns the highest applied version, 0 for a new journal.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, stmts string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmts); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		version); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// ValidateIntegrity runs PRAGMA integrity_check and PRAGMA
// foreign_key_check and reports the first problems found.
func ValidateIntegrity(ctx context.Context, db *sql.DB) error {
	var result string
	if err := db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("failed to run integrity_check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity_check failed: %s", result)
	}

	rows, err := db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("failed to run foreign_key_check: %w", err)
	}
	defer rows.Close()

	var orphans []string
	for rows.Next() {
		var table, parent string
		var rowid, fkid sql.NullInt64
		if err := rows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return fmt.Errorf("failed to scan foreign_key_check result: %w", err)
		}
		orphans = append(orphans, fmt.Sprintf("%s row %d -> %s", table, rowid.Int64, parent))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(orphans) > 0 {
		return fmt.Errorf("foreign_key_check failed: %v", orphans)
	}

	return nil
}
