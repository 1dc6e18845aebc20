// Package simulation provides a multi-day test harness for validating the
// emergent behavior of the daily update pipeline.
//
// The harness exercises the real World, the valuation function and a SQLite
// run journal; there are no mocks. Scenarios are Go builders that describe
// companies, services and feature queues declaratively, run a number of
// simulated days, and capture every DayReport plus per-company valuations for
// property-based assertions.
//
// Each test gets an isolated SQLite journal via t.TempDir() and a sandboxed
// HOME to prevent touching user data.
//
// Usage:
//
//	func TestHiringUnblocksRoadmap(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:      "hiring",
//	        Companies: []simulation.CompanySpec{...},
//	        Days:      90,
//	    })
//	    simulation.AssertFeatureCompleted(t, result, "Acme", "Search")
//	}
package simulation
