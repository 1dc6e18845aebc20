package session

import (
	"context"
	"time"

	"github.com/nvandessel/corpsim/internal/logging"
	"github.com/nvandessel/corpsim/internal/store"
	"github.com/nvandessel/corpsim/internal/valuation"
	"github.com/nvandessel/corpsim/internal/world"
)

// Tick advances the world by one day under the session lock and records
// the result in the journal and day trace.
func (s *Session) Tick(ctx context.Context) (world.DayReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(ctx)
}

// Simulate ticks days times. The lock is released between days so status
// reads and feature planning can interleave.
func (s *Session) Simulate(ctx context.Context, days int) ([]world.DayReport, error) {
	reports := make([]world.DayReport, 0, max(days, 0))
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := s.Tick(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Run ticks once per interval until ctx is done, calling onTick (if not
// nil) with each report outside the lock. Only one Run may be active at a
// time. Cancellation is the normal way to stop and returns nil.
func (s *Session) Run(ctx context.Context, interval time.Duration, onTick func(world.DayReport)) error {
	s.mu.Lock()
	if s.company == nil {
		s.mu.Unlock()
		return ErrNotOnboarded
	}
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("simulation driver started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation driver stopped")
			return nil
		case <-ticker.C:
			// select picks randomly when both cases are ready.
			if ctx.Err() != nil {
				s.logger.Info("simulation driver stopped")
				return nil
			}
			r, err := s.Tick(ctx)
			if err != nil {
				return err
			}
			if onTick != nil {
				onTick(r)
			}
		}
	}
}

// Running reports whether Run is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Session) tickLocked(ctx context.Context) (world.DayReport, error) {
	if s.company == nil {
		return world.DayReport{}, ErrNotOnboarded
	}

	report := s.world.SimulateDay()
	s.last = &report

	valuations := make(map[string]float64, len(s.world.Companies))
	for _, c := range s.world.Companies {
		valuations[c.ID] = valuation.Calculate(c, s.cfg.Market, s.cfg.PERatio)
	}

	if s.journal != nil && s.runID != "" {
		if cd, ok := report.Company(s.company.ID); ok {
			rec := store.NewDayRecord(report.Date, cd, valuations[s.company.ID])
			if err := s.journal.RecordDay(ctx, s.runID, rec); err != nil {
				s.logger.Warn("journal: recording day failed", "date", report.Date.Format(time.DateOnly), "error", err)
			}
		}
	}
	s.trace.RecordDay(s.runID, report, valuations)

	if cd, ok := report.Company(s.company.ID); ok {
		logging.Trace(s.logger, "day simulated",
			"date", report.Date.Format(time.DateOnly),
			"users", cd.Users,
			"assets", cd.FinancialAssets,
			"valuation", valuations[s.company.ID],
			"completed", len(cd.Development.Completed))
		for _, name := range cd.Development.Completed {
			s.logger.Info("feature launched", "feature", name, "date", report.Date.Format(time.DateOnly))
		}
	}

	return report, nil
}
