package simulation

import (
	"time"

	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/valuation"
	"github.com/nvandessel/corpsim/internal/world"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name      string
	Start     time.Time // zero = simulation epoch
	Companies []CompanySpec
	Days      int

	Market  valuation.MarketCondition // empty = growing
	PERatio float64                   // 0 = constants.DefaultPERatio

	// BeforeDay, when non-nil, is called before each tick executes. Use it
	// to plan features or change headcount mid-run, the way a player would.
	BeforeDay func(dayIndex int, w *world.World)
}

// CompanySpec is a flat builder for a company and its services.
type CompanySpec struct {
	Name      string
	Assets    float64
	Employees int
	Salary    float64 // 0 = 100000
	Services  []ServiceSpec
}

// ServiceSpec describes one service. Fee is only attached for subscription
// billing, matching models.NewService.
type ServiceSpec struct {
	Name      string
	Billing   models.BillingModel // empty = subscription
	Users     float64
	Attrition float64
	Hosting   float64
	Fee       float64
	Features  []FeatureSpec // already active
	Planned   []FeatureSpec // development queue, in order
}

// FeatureSpec describes a feature built from a template. Non-zero overrides
// replace the template's values.
type FeatureSpec struct {
	Name         string
	Kind         models.FeatureKind // empty = conventional
	CostDays     float64
	MaintDays    float64
	Popularity   float64
	Unmaintained bool
}

// DaySnapshot captures the outcome of a single simulated day.
type DaySnapshot struct {
	Index      int
	Report     world.DayReport
	Valuations map[string]float64 // company name -> valuation
}

// SimulationResult captures every day and the final world state.
type SimulationResult struct {
	Days   []DaySnapshot
	World  *world.World
	RunIDs map[string]string // company name -> journal run ID
	Runner *Runner
}

// Company returns the final state of the named company, or nil.
func (r SimulationResult) Company(name string) *models.Company {
	for _, c := range r.World.Companies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
