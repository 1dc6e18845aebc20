package simulation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nvandessel/corpsim/internal/world"
)

const tolerance = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// AssertFeatureCompleted asserts that the named feature was promoted to
// active at some point in the run.
func AssertFeatureCompleted(t *testing.T, result SimulationResult, company, feature string) {
	t.Helper()
	if _, ok := CompletionDate(result, company, feature); !ok {
		t.Errorf("AssertFeatureCompleted: %s never completed %s", company, feature)
	}
}

// AssertFeatureCompletedOn asserts that the named feature was promoted on
// the given simulated date.
func AssertFeatureCompletedOn(t *testing.T, result SimulationResult, company, feature string, want time.Time) {
	t.Helper()
	got, ok := CompletionDate(result, company, feature)
	if !ok {
		t.Errorf("AssertFeatureCompletedOn: %s never completed %s", company, feature)
		return
	}
	if !got.Equal(want) {
		t.Errorf("AssertFeatureCompletedOn: %s completed %s on %s, want %s",
			company, feature, got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

// AssertCompletionOrder asserts that features completed in the given order.
func AssertCompletionOrder(t *testing.T, result SimulationResult, company string, features ...string) {
	t.Helper()
	var prev time.Time
	for i, f := range features {
		d, ok := CompletionDate(result, company, f)
		if !ok {
			t.Errorf("AssertCompletionOrder: %s never completed %s", company, f)
			return
		}
		if i > 0 && d.Before(prev) {
			t.Errorf("AssertCompletionOrder: %s completed %s (%s) before %s (%s)",
				company, f, d.Format("2006-01-02"), features[i-1], prev.Format("2006-01-02"))
		}
		prev = d
	}
}

// AssertNoDevelopmentOnWeekends asserts that every weekend tick skipped the
// development stage for every company.
func AssertNoDevelopmentOnWeekends(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, d := range result.Days {
		for _, cd := range d.Report.Companies {
			if d.Report.Weekend != cd.Development.Skipped {
				t.Errorf("AssertNoDevelopmentOnWeekends: day %d (%s): weekend=%v skipped=%v for %s",
					d.Index, d.Report.Date.Weekday(), d.Report.Weekend, cd.Development.Skipped, cd.CompanyName)
			}
		}
	}
}

// AssertAssetsChangeOnlyAtMonthEnd asserts that financial assets move only
// on month-end ticks, and that every month-end tick settles.
func AssertAssetsChangeOnlyAtMonthEnd(t *testing.T, result SimulationResult, company string, initial float64) {
	t.Helper()
	prev := initial
	for _, d := range result.Days {
		cd, ok := companyDay(d, company)
		if !ok {
			t.Fatalf("AssertAssetsChangeOnlyAtMonthEnd: day %d: no entry for %s", d.Index, company)
		}
		if d.Report.MonthEnd != (cd.Settlement != nil) {
			t.Errorf("AssertAssetsChangeOnlyAtMonthEnd: day %d: monthEnd=%v settled=%v", d.Index, d.Report.MonthEnd, cd.Settlement != nil)
		}
		if !d.Report.MonthEnd && cd.FinancialAssets != prev {
			t.Errorf("AssertAssetsChangeOnlyAtMonthEnd: day %d (%s): assets moved %.2f -> %.2f",
				d.Index, d.Report.Date.Format("2006-01-02"), prev, cd.FinancialAssets)
		}
		if cd.Settlement != nil && !approxEqual(cd.FinancialAssets, prev+cd.Settlement.Net) {
			t.Errorf("AssertAssetsChangeOnlyAtMonthEnd: day %d: assets %.2f != %.2f + net %.2f",
				d.Index, cd.FinancialAssets, prev, cd.Settlement.Net)
		}
		prev = cd.FinancialAssets
	}
}

// AssertFeaturesConserved asserts that a company's active plus planned
// feature count equals want at the end of the run.
func AssertFeaturesConserved(t *testing.T, result SimulationResult, company string, want int) {
	t.Helper()
	c := result.Company(company)
	if c == nil {
		t.Fatalf("AssertFeaturesConserved: no company %s", company)
	}
	n := 0
	for _, s := range c.Services {
		n += len(s.Features) + len(s.PlannedFeatures)
		for _, f := range s.Features {
			if !f.Complete() {
				t.Errorf("AssertFeaturesConserved: active feature %s is incomplete (%.2f/%.2f)",
					f.Name, f.DevelopmentProgress, f.DevelopmentCostDays)
			}
		}
	}
	if n != want {
		t.Errorf("AssertFeaturesConserved: %s has %d features, want %d", company, n, want)
	}
}

// AssertUsersNonNegative asserts that no company's user count ever dipped
// below zero.
func AssertUsersNonNegative(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, d := range result.Days {
		for _, cd := range d.Report.Companies {
			if cd.Users < 0 {
				t.Errorf("AssertUsersNonNegative: day %d: %s has %.4f users", d.Index, cd.CompanyName, cd.Users)
			}
		}
	}
}

// AssertJournalMatches asserts that the journal holds exactly one record per
// day per company, agreeing with the in-memory reports.
func AssertJournalMatches(t *testing.T, result SimulationResult) {
	t.Helper()
	ctx := context.Background()
	for name, runID := range result.RunIDs {
		days, err := result.Runner.Journal().ListDays(ctx, runID)
		if err != nil {
			t.Fatalf("AssertJournalMatches: ListDays(%s): %v", name, err)
		}
		if len(days) != len(result.Days) {
			t.Errorf("AssertJournalMatches: %s has %d journaled days, want %d", name, len(days), len(result.Days))
			continue
		}
		for i, rec := range days {
			snap := result.Days[i]
			cd, _ := companyDay(snap, name)
			if !rec.Date.Equal(snap.Report.Date) {
				t.Errorf("AssertJournalMatches: %s day %d date %v, want %v", name, i, rec.Date, snap.Report.Date)
			}
			if !approxEqual(rec.Users, cd.Users) || !approxEqual(rec.FinancialAssets, cd.FinancialAssets) {
				t.Errorf("AssertJournalMatches: %s day %d users/assets %.2f/%.2f, want %.2f/%.2f",
					name, i, rec.Users, rec.FinancialAssets, cd.Users, cd.FinancialAssets)
			}
			if !approxEqual(rec.Valuation, snap.Valuations[name]) {
				t.Errorf("AssertJournalMatches: %s day %d valuation %.2f, want %.2f", name, i, rec.Valuation, snap.Valuations[name])
			}
			if rec.Settled != (cd.Settlement != nil) {
				t.Errorf("AssertJournalMatches: %s day %d settled=%v", name, i, rec.Settled)
			}
		}
	}
}

// CompletionDate returns the simulated date on which a feature was promoted.
func CompletionDate(result SimulationResult, company, feature string) (time.Time, bool) {
	for _, d := range result.Days {
		cd, ok := companyDay(d, company)
		if !ok {
			continue
		}
		for _, name := range cd.Development.Completed {
			if name == feature {
				return d.Report.Date, true
			}
		}
	}
	return time.Time{}, false
}

// CountUnmaintainedDays counts weekday ticks on which the company left at
// least one active feature unmaintained.
func CountUnmaintainedDays(result SimulationResult, company string) int {
	count := 0
	for _, d := range result.Days {
		if cd, ok := companyDay(d, company); ok && cd.Development.Unmaintained > 0 {
			count++
		}
	}
	return count
}

// FinalValuation returns the company's valuation after the last tick.
func FinalValuation(result SimulationResult, company string) float64 {
	if len(result.Days) == 0 {
		return 0
	}
	return result.Days[len(result.Days)-1].Valuations[company]
}

func companyDay(d DaySnapshot, name string) (world.CompanyDay, bool) {
	for _, cd := range d.Report.Companies {
		if cd.CompanyName == name {
			return cd, true
		}
	}
	return world.CompanyDay{}, false
}
