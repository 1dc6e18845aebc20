// Package store defines the run journal: a write-only record of simulation
// runs and the days they produced.
//
// The journal is observability, not persistence. Nothing in corpsim ever
// rebuilds a World from it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvandessel/corpsim/internal/world"
)

// ErrRunNotFound is returned when a day is recorded against an unknown run.
var ErrRunNotFound = errors.New("run not found")

// Run describes one simulation of one company.
type Run struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	ServiceName string    `json:"service_name,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	StartDate   time.Time `json:"start_date"` // simulated
	CreatedAt   time.Time `json:"created_at"` // wall clock
}

// DayRecord is the journaled outcome of one tick for one company.
type DayRecord struct {
	Date              time.Time `json:"date"`
	Users             float64   `json:"users"`
	FinancialAssets   float64   `json:"financial_assets"`
	Valuation         float64   `json:"valuation"`
	Capacity          float64   `json:"capacity"`
	RemainingCapacity float64   `json:"remaining_capacity"`
	Unmaintained      int       `json:"unmaintained"`
	Completed         []string  `json:"completed,omitempty"`
	Settled           bool      `json:"settled"`
	Revenue           float64   `json:"revenue,omitempty"`
	Salaries          float64   `json:"salaries,omitempty"`
	HostingCosts      float64   `json:"hosting_costs,omitempty"`
}

// Journal records runs and their days.
type Journal interface {
	StartRun(ctx context.Context, run Run) error
	RecordDay(ctx context.Context, runID string, day DayRecord) error

	// ListRuns returns runs oldest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// ListDays returns a run's days in simulated date order.
	ListDays(ctx context.Context, runID string) ([]DayRecord, error)

	Close() error
}

// NewDayRecord flattens a company's entry of a DayReport into a DayRecord.
func NewDayRecord(date time.Time, cd world.CompanyDay, valuation float64) DayRecord {
	rec := DayRecord{
		Date:              date,
		Users:             cd.Users,
		FinancialAssets:   cd.FinancialAssets,
		Valuation:         valuation,
		Capacity:          cd.Development.Capacity,
		RemainingCapacity: cd.Development.RemainingCapacity,
		Unmaintained:      cd.Development.Unmaintained,
		Completed:         cd.Development.Completed,
	}
	if s := cd.Settlement; s != nil {
		rec.Settled = true
		rec.Revenue = s.Revenue
		rec.Salaries = s.Salaries
		rec.HostingCosts = s.HostingCosts
	}
	return rec
}
