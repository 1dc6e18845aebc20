package simulation_test

import (
	"math"
	"testing"
	"time"

	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/simulation"
	"github.com/nvandessel/corpsim/internal/valuation"
	"github.com/nvandessel/corpsim/internal/world"
)

// onboarded mirrors a freshly onboarded company: $5M, ten engineers, one
// subscription service with no users yet.
func onboarded(name string, planned ...string) simulation.CompanySpec {
	return simulation.CompanySpec{
		Name:      name,
		Assets:    5_000_000,
		Employees: 10,
		Services: []simulation.ServiceSpec{{
			Name:      name + " Cloud",
			Attrition: 0.01,
			Hosting:   1000,
			Fee:       15,
			Planned:   simulation.Planned(planned...),
		}},
	}
}

// TestDefaultRoadmap runs a freshly onboarded company through four months
// with a three-feature roadmap.
func TestDefaultRoadmap(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:      "default-roadmap",
		Companies: []simulation.CompanySpec{onboarded("Acme", "Search", "Login", "Billing")},
		Days:      120,
	})

	// 30 engineer-days at 5 per weekday: Jan 2, 3, 6, 7, 8, 9.
	simulation.AssertFeatureCompletedOn(t, result, "Acme", "Search", simulation.Date(2020, time.January, 9))
	simulation.AssertCompletionOrder(t, result, "Acme", "Search", "Login", "Billing")
	simulation.AssertNoDevelopmentOnWeekends(t, result)
	simulation.AssertAssetsChangeOnlyAtMonthEnd(t, result, "Acme", 5_000_000)
	simulation.AssertFeaturesConserved(t, result, "Acme", 3)
	simulation.AssertUsersNonNegative(t, result)
	simulation.AssertJournalMatches(t, result)

	if n := simulation.CountUnmaintainedDays(result, "Acme"); n != 0 {
		t.Errorf("ten engineers left features unmaintained on %d days", n)
	}
	if users := result.Company("Acme").TotalUsers(); users <= 0 {
		t.Errorf("users after roadmap = %v, want > 0", users)
	}
}

// TestUnderstaffedMaintenance checks that one engineer (0.5 engineer-days)
// keeps the first three AI features (4/30 each) maintained and loses the rest.
func TestUnderstaffedMaintenance(t *testing.T) {
	r := simulation.NewRunner(t)

	var active []simulation.FeatureSpec
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		active = append(active, simulation.FeatureSpec{Name: n, Kind: models.FeatureKindAI})
	}
	result := r.Run(simulation.Scenario{
		Name: "understaffed",
		Companies: []simulation.CompanySpec{{
			Name:      "Lean",
			Employees: 1,
			Services:  []simulation.ServiceSpec{{Name: "Lean AI", Features: active}},
		}},
		Days: 14,
	})

	// Jan 2 .. Jan 15 holds ten weekdays.
	if n := simulation.CountUnmaintainedDays(result, "Lean"); n != 10 {
		t.Errorf("unmaintained days = %d, want 10", n)
	}

	want := []bool{true, true, true, false, false}
	for i, f := range result.Company("Lean").Services[0].Features {
		if f.Maintained != want[i] {
			t.Errorf("%s.Maintained = %v, want %v", f.Name, f.Maintained, want[i])
		}
	}

	// Three maintained features at 130 users a day, no attrition.
	if got := result.Company("Lean").TotalUsers(); got != 14*390 {
		t.Errorf("users = %v, want %v", got, 14*390)
	}
}

// TestHiringMidRun starts with no staff and hires ten engineers on day 10.
func TestHiringMidRun(t *testing.T) {
	r := simulation.NewRunner(t)

	spec := onboarded("Garage", "MVP")
	spec.Employees = 0

	result := r.Run(simulation.Scenario{
		Name:      "hiring",
		Companies: []simulation.CompanySpec{spec},
		Days:      20,
		BeforeDay: func(i int, w *world.World) {
			if i == 10 {
				w.Companies[0].Employees = models.Employees(10, 100000)
			}
		},
	})

	for _, d := range result.Days[:10] {
		if d.Report.Companies[0].Development.Capacity != 0 {
			t.Fatalf("day %d: capacity %v before hiring", d.Index, d.Report.Companies[0].Development.Capacity)
		}
	}

	// Day 10 is Sunday Jan 12; six weekdays from Mon Jan 13 end on Mon Jan 20.
	simulation.AssertFeatureCompletedOn(t, result, "Garage", "MVP", simulation.Date(2020, time.January, 20))
}

// TestMultipleCompaniesAreIsolated ticks a staffed and an unstaffed company
// through the same days.
func TestMultipleCompaniesAreIsolated(t *testing.T) {
	r := simulation.NewRunner(t)

	idle := onboarded("Idle", "Search")
	idle.Employees = 0

	result := r.Run(simulation.Scenario{
		Name:      "isolation",
		Companies: []simulation.CompanySpec{onboarded("Busy", "Search"), idle},
		Days:      31,
	})

	simulation.AssertFeatureCompleted(t, result, "Busy", "Search")
	if _, ok := simulation.CompletionDate(result, "Idle", "Search"); ok {
		t.Error("company without staff completed a feature")
	}
	if len(result.RunIDs) != 2 {
		t.Errorf("RunIDs = %v, want two runs", result.RunIDs)
	}
	simulation.AssertJournalMatches(t, result)

	// The idle company only pays hosting at the Jan 31 settlement.
	if got := result.Company("Idle").FinancialAssets; got != 5_000_000-1000 {
		t.Errorf("Idle assets = %v, want %v", got, 5_000_000-1000)
	}
}

// TestFreeServiceValuationStaysNegative checks that a company with payroll
// and no revenue is never valued positively.
func TestFreeServiceValuationStaysNegative(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name: "free",
		Companies: []simulation.CompanySpec{{
			Name:      "Gratis",
			Assets:    1_000_000,
			Employees: 4,
			Services: []simulation.ServiceSpec{{
				Name:     "Gratis App",
				Billing:  models.BillingFree,
				Fee:      15,
				Hosting:  500,
				Features: []simulation.FeatureSpec{{Name: "Feed"}},
			}},
		}},
		Days: 62,
	})

	for _, d := range result.Days {
		if v := d.Valuations["Gratis"]; v >= 0 {
			t.Fatalf("day %d: valuation %v, want negative", d.Index, v)
		}
	}
	for _, d := range result.Days {
		if cd := d.Report.Companies[0]; cd.Settlement != nil && cd.Settlement.Revenue != 0 {
			t.Errorf("day %d: free service earned %v", d.Index, cd.Settlement.Revenue)
		}
	}
}

// TestMarketConditionScalesValuation runs the same company in a growing and
// a shrinking market.
func TestMarketConditionScalesValuation(t *testing.T) {
	run := func(m valuation.MarketCondition) float64 {
		r := simulation.NewRunner(t)
		result := r.Run(simulation.Scenario{
			Name:      "market-" + string(m),
			Companies: []simulation.CompanySpec{onboarded("Acme", "Search")},
			Days:      45,
			Market:    m,
		})
		return simulation.FinalValuation(result, "Acme")
	}

	growing := run(valuation.MarketGrowing)
	shrinking := run(valuation.MarketShrinking)

	if growing == 0 || shrinking == 0 {
		t.Fatalf("valuations = %v / %v, want non-zero", growing, shrinking)
	}
	if ratio := growing / shrinking; math.Abs(ratio-1.1/0.9) > 1e-9 {
		t.Errorf("growing/shrinking = %v, want %v", ratio, 1.1/0.9)
	}
}
