package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSchema_Fresh(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("getSchemaVersion() error = %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}

	for _, table := range []string{"runs", "days", "schema_version"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := InitSchema(ctx, db); err != nil {
			t.Fatalf("InitSchema() call %d error = %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		t.Fatalf("count schema_version: %v", err)
	}
	if count != SchemaVersion {
		t.Errorf("schema_version rows = %d, want %d", count, SchemaVersion)
	}
}

func TestInitSchema_MigratesOlderJournal(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := migrateTo(ctx, db, 1); err != nil {
		t.Fatalf("migrateTo(1) error = %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, company_id, company_name, start_date, created_at) VALUES ('r1', 'c1', 'Acme', '2020-01-01', '2026-01-01')`); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	version, err := getSchemaVersion(ctx, db)
	if err != nil || version != SchemaVersion {
		t.Fatalf("schema version = %d (%v), want %d", version, err, SchemaVersion)
	}

	var name string
	if err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_runs_created'`).Scan(&name); err != nil {
		t.Errorf("idx_runs_created missing after migration: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil || n != 1 {
		t.Errorf("runs after migration = %d (%v), want 1", n, err)
	}
}

func TestInitSchema_RejectsNewerJournal(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion+1); err != nil {
		t.Fatalf("insert version: %v", err)
	}
	if err := InitSchema(ctx, db); err == nil {
		t.Error("expected error for a journal from a newer build")
	}
}

func TestValidateIntegrity(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if err := ValidateIntegrity(ctx, db); err != nil {
		t.Errorf("ValidateIntegrity() error = %v", err)
	}
}

func TestNewSQLiteJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	ctx := context.Background()

	j, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	if j.Path() != path {
		t.Errorf("Path() = %q, want %q", j.Path(), path)
	}
	if err := j.StartRun(ctx, Run{ID: "r1", CompanyName: "Acme"}); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	j, err = NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "r1" {
		t.Errorf("ListRuns() after reopen = %+v", runs)
	}
}
