// Package world owns simulated time and the companies being simulated, and
// implements the daily update pipeline that advances them.
//
// A World is not safe for concurrent use. Callers that tick from a timer
// must hold a single lock across each whole SimulateDay call.
package world

import (
	"time"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
)

// World is the simulation clock plus the companies it advances.
type World struct {
	CurrentTime time.Time         `json:"current_time"`
	Companies   []*models.Company `json:"companies"`
}

// New creates an empty world at the simulation epoch (2020-01-01).
func New() *World {
	return NewAt(constants.SimulationEpoch)
}

// NewAt creates an empty world starting at t.
func NewAt(t time.Time) *World {
	return &World{
		CurrentTime: t,
		Companies:   []*models.Company{},
	}
}

// AddCompany appends a company to the simulation.
func (w *World) AddCompany(c *models.Company) {
	w.Companies = append(w.Companies, c)
}

// Company returns the company with the given ID.
func (w *World) Company(id string) (*models.Company, bool) {
	for _, c := range w.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// SimulateDay advances the clock by one calendar day and then runs
// development, usage and settlement for every company, in list order.
// Every call advances time; there is no deduplication.
func (w *World) SimulateDay() DayReport {
	w.CurrentTime = w.CurrentTime.AddDate(0, 0, 1)
	day := w.CurrentTime

	report := DayReport{
		Date:      day,
		Weekend:   IsWeekend(day),
		MonthEnd:  IsLastDayOfMonth(day),
		Companies: make([]CompanyDay, 0, len(w.Companies)),
	}

	for _, c := range w.Companies {
		cd := CompanyDay{CompanyID: c.ID, CompanyName: c.Name}
		cd.Development = UpdateFeatureDevelopment(c, day)
		UpdateServiceUsage(c)
		if s, ok := UpdateFinancialAssets(c, day); ok {
			cd.Settlement = &s
		}
		cd.Users = c.TotalUsers()
		cd.FinancialAssets = c.FinancialAssets
		report.Companies = append(report.Companies, cd)
	}

	return report
}

// SimulateDays calls SimulateDay n times and returns every report.
func (w *World) SimulateDays(n int) []DayReport {
	if n <= 0 {
		return nil
	}
	reports := make([]DayReport, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, w.SimulateDay())
	}
	return reports
}
