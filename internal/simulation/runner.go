package simulation

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/store"
	"github.com/nvandessel/corpsim/internal/valuation"
	"github.com/nvandessel/corpsim/internal/world"
)

// Runner orchestrates multi-day simulation experiments against a real World
// and a real SQLite run journal.
type Runner struct {
	t       *testing.T
	journal *store.SQLiteJournal
}

// NewRunner creates a simulation runner with an isolated SQLite journal
// and sandboxed HOME directory.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	j, err := store.NewSQLiteJournal(filepath.Join(tmpDir, store.JournalFileName))
	if err != nil {
		t.Fatalf("NewRunner: failed to create journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	return &Runner{t: t, journal: j}
}

// Journal exposes the runner's journal for assertions.
func (r *Runner) Journal() *store.SQLiteJournal {
	return r.journal
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()
	ctx := context.Background()

	// Phase 1: Build the world.
	start := scenario.Start
	if start.IsZero() {
		start = constants.SimulationEpoch
	}
	w := world.NewAt(start)
	for _, cs := range scenario.Companies {
		w.AddCompany(cs.ToCompany())
	}

	market := scenario.Market
	if market == "" {
		market = valuation.MarketGrowing
	}
	pe := scenario.PERatio
	if pe == 0 {
		pe = constants.DefaultPERatio
	}

	// Phase 2: Open one journal run per company.
	runIDs := make(map[string]string, len(w.Companies))
	for _, c := range w.Companies {
		id := uuid.NewString()
		run := store.Run{ID: id, CompanyID: c.ID, CompanyName: c.Name, StartDate: start}
		if svc := c.PrimaryService(); svc != nil {
			run.ServiceName = svc.Name
		}
		if err := r.journal.StartRun(ctx, run); err != nil {
			r.t.Fatalf("Run(%s): StartRun(%s): %v", scenario.Name, c.Name, err)
		}
		runIDs[c.Name] = id
	}

	// Phase 3: Tick.
	days := make([]DaySnapshot, 0, scenario.Days)
	for i := 0; i < scenario.Days; i++ {
		if scenario.BeforeDay != nil {
			scenario.BeforeDay(i, w)
		}
		report := w.SimulateDay()
		snap := DaySnapshot{
			Index:      i,
			Report:     report,
			Valuations: make(map[string]float64, len(w.Companies)),
		}
		for _, c := range w.Companies {
			v := valuation.Calculate(c, market, pe)
			snap.Valuations[c.Name] = v

			cd, ok := report.Company(c.ID)
			if !ok {
				r.t.Fatalf("Run(%s): day %d: report missing %s", scenario.Name, i, c.Name)
			}
			if err := r.journal.RecordDay(ctx, runIDs[c.Name], store.NewDayRecord(report.Date, cd, v)); err != nil {
				r.t.Fatalf("Run(%s): day %d: RecordDay(%s): %v", scenario.Name, i, c.Name, err)
			}
		}
		days = append(days, snap)
	}

	return SimulationResult{
		Days:   days,
		World:  w,
		RunIDs: runIDs,
		Runner: r,
	}
}

// FormatDayDebug returns a debug string for a day snapshot.
func FormatDayDebug(d DaySnapshot) string {
	s := fmt.Sprintf("Day %d (%s): weekend=%v monthEnd=%v\n",
		d.Index, d.Report.Date.Format("2006-01-02"), d.Report.Weekend, d.Report.MonthEnd)
	for _, cd := range d.Report.Companies {
		s += fmt.Sprintf("  %s: users=%.2f assets=%.2f remaining=%.4f unmaintained=%d completed=%v valuation=%.2f\n",
			cd.CompanyName, cd.Users, cd.FinancialAssets, cd.Development.RemainingCapacity,
			cd.Development.Unmaintained, cd.Development.Completed, d.Valuations[cd.CompanyName])
	}
	return s
}
