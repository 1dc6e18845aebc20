package world

import "time"

// DayReport is the diagnostic result of one tick. It carries the values the
// pipeline computes but does not store on the domain model.
type DayReport struct {
	Date      time.Time    `json:"date"`
	Weekend   bool         `json:"weekend"`
	MonthEnd  bool         `json:"month_end"`
	Companies []CompanyDay `json:"companies"`
}

// CompanyDay summarizes what one tick did to one company.
type CompanyDay struct {
	CompanyID       string      `json:"company_id"`
	CompanyName     string      `json:"company_name"`
	Development     Development `json:"development"`
	Settlement      *Settlement `json:"settlement,omitempty"`
	Users           float64     `json:"users"`
	FinancialAssets float64     `json:"financial_assets"`
}

// Development is the outcome of the feature development stage.
type Development struct {
	// Skipped is true on weekends, when no engineering happens.
	Skipped bool `json:"skipped"`

	// Capacity is the engineer-days available at the start of the day.
	Capacity float64 `json:"capacity"`

	// RemainingCapacity is what was left after maintenance, before new
	// development. It is negative when maintenance was under-staffed.
	RemainingCapacity float64 `json:"remaining_capacity"`

	// Unmaintained counts active features whose upkeep was not covered.
	Unmaintained int `json:"unmaintained"`

	// Completed names the features promoted from planned to active.
	Completed []string `json:"completed,omitempty"`
}

// Settlement is the outcome of a month-end financial settlement.
type Settlement struct {
	Revenue      float64 `json:"revenue"`
	Salaries     float64 `json:"salaries"`
	HostingCosts float64 `json:"hosting_costs"`
	Net          float64 `json:"net"`
}

// Company returns the entry for the given company ID.
func (r DayReport) Company(id string) (CompanyDay, bool) {
	for _, c := range r.Companies {
		if c.CompanyID == id {
			return c, true
		}
	}
	return CompanyDay{}, false
}
