package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteJournal implements Journal on a single SQLite database file.
type SQLiteJournal struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteJournal opens (or creates) the journal database at dbPath,
// creating parent directories as needed.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteJournal{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (j *SQLiteJournal) Path() string {
	return j.dbPath
}

// StartRun inserts a run. The run ID must be unique.
func (j *SQLiteJournal) StartRun(ctx context.Context, run Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, company_id, company_name, service_name, topic, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CompanyID, run.CompanyName, run.ServiceName, run.Topic,
		formatTime(run.StartDate), formatTime(run.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordDay appends one day to a run.
func (j *SQLiteJournal) RecordDay(ctx context.Context, runID string, day DayRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var exists int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up run %s: %w", runID, err)
	}
	if exists == 0 {
		return fmt.Errorf("recording day for %s: %w", runID, ErrRunNotFound)
	}

	completed, err := json.Marshal(day.Completed)
	if err != nil {
		return fmt.Errorf("failed to marshal completed features: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO days (run_id, date, users, financial_assets, valuation, capacity,
			remaining_capacity, unmaintained, completed, settled, revenue, salaries, hosting_costs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, formatTime(day.Date), day.Users, day.FinancialAssets, day.Valuation, day.Capacity,
		day.RemainingCapacity, day.Unmaintained, string(completed), boolToInt(day.Settled),
		day.Revenue, day.Salaries, day.HostingCosts)
	if err != nil {
		return fmt.Errorf("failed to insert day %s for run %s: %w", formatTime(day.Date), runID, err)
	}
	return nil
}

// ListRuns returns all runs, oldest first.
func (j *SQLiteJournal) ListRuns(ctx context.Context) ([]Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, company_id, company_name, service_name, topic, start_date, created_at
		FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var service, topic sql.NullString
		var start, created string
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.CompanyName, &service, &topic, &start, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ServiceName = service.String
		r.Topic = topic.String
		if r.StartDate, err = parseTime(start); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListDays returns a run's days in date order.
func (j *SQLiteJournal) ListDays(ctx context.Context, runID string) ([]DayRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT date, users, financial_assets, valuation, capacity, remaining_capacity,
			unmaintained, completed, settled, revenue, salaries, hosting_costs
		FROM days WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query days for run %s: %w", runID, err)
	}
	defer rows.Close()

	var days []DayRecord
	for rows.Next() {
		var d DayRecord
		var date string
		var completed sql.NullString
		var settled int
		var revenue, salaries, hosting sql.NullFloat64
		if err := rows.Scan(&date, &d.Users, &d.FinancialAssets, &d.Valuation, &d.Capacity,
			&d.RemainingCapacity, &d.Unmaintained, &completed, &settled,
			&revenue, &salaries, &hosting); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		if d.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if completed.Valid && completed.String != "" {
			if err := json.Unmarshal([]byte(completed.String), &d.Completed); err != nil {
				return nil, fmt.Errorf("failed to unmarshal completed features: %w", err)
			}
		}
		d.Settled = settled != 0
		d.Revenue = revenue.Float64
		d.Salaries = salaries.Float64
		d.HostingCosts = hosting.Float64
		days = append(days, d)
	}
	return days, rows.Err()
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
