package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryJournal implements Journal in memory for tests and for runs that
// opt out of the on-disk journal.
type MemoryJournal struct {
	mu   sync.RWMutex
	runs []Run
	days map[string][]DayRecord
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		runs: make([]Run, 0),
		days: make(map[string][]DayRecord),
	}
}

// StartRun adds a run.
func (j *MemoryJournal) StartRun(ctx context.Context, run Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if _, exists := j.days[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	j.runs = append(j.runs, run)
	j.days[run.ID] = []DayRecord{}
	return nil
}

// RecordDay appends a day to a run.
func (j *MemoryJournal) RecordDay(ctx context.Context, runID string, day DayRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	days, exists := j.days[runID]
	if !exists {
		return fmt.Errorf("recording day for %s: %w", runID, ErrRunNotFound)
	}
	for _, d := range days {
		if d.Date.Equal(day.Date) {
			return fmt.Errorf("day %s already recorded for run %s", day.Date.Format(time.DateOnly), runID)
		}
	}

	day.Completed = append([]string(nil), day.Completed...)
	j.days[runID] = append(days, day)
	return nil
}

// ListRuns returns all runs, oldest first.
func (j *MemoryJournal) ListRuns(ctx context.Context) ([]Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	runs := make([]Run, len(j.runs))
	copy(runs, j.runs)
	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].CreatedAt.Before(runs[b].CreatedAt)
	})
	return runs, nil
}

// ListDays returns a run's days in date order.
func (j *MemoryJournal) ListDays(ctx context.Context, runID string) ([]DayRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	days := make([]DayRecord, len(j.days[runID]))
	copy(days, j.days[runID])
	sort.SliceStable(days, func(a, b int) bool {
		return days[a].Date.Before(days[b].Date)
	})
	return days, nil
}

// Close is a no-op.
func (j *MemoryJournal) Close() error {
	return nil
}
