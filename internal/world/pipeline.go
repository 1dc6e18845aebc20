package world

import (
	"math"
	"time"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
)

// UpdateFeatureDevelopment spends the day's engineering capacity, first on
// maintaining active features and then on building planned ones.
//
// Nothing happens on weekends. Maintenance depletes capacity strictly in
// order (services, then features): once the running capacity goes negative,
// that feature and every later one are unmaintained for the day.
func UpdateFeatureDevelopment(c *models.Company, day time.Time) Development {
	if IsWeekend(day) {
		return Development{Skipped: true}
	}

	capacity := float64(len(c.Employees)) * constants.EngineeringFraction
	remaining := capacity
	unmaintained := 0

	for _, s := range c.Services {
		for _, f := range s.Features {
			remaining -= f.MaintenanceCostDaysPerMonth / constants.MaintenanceDaysPerMonth
			f.Maintained = remaining >= 0
			if !f.Maintained {
				unmaintained++
			}
		}
	}

	dev := Development{
		Capacity:          capacity,
		RemainingCapacity: remaining,
		Unmaintained:      unmaintained,
	}

	for _, s := range c.Services {
		var done []*models.Feature
		for _, f := range s.PlannedFeatures {
			if remaining <= 0 {
				break
			}
			applied := math.Min(remaining, f.RemainingDevelopment())
			remaining -= applied
			f.DevelopmentProgress += applied
			if f.Complete() {
				done = append(done, f)
			}
		}
		if len(done) > 0 {
			promote(s, done)
			for _, f := range done {
				dev.Completed = append(dev.Completed, f.Name)
			}
		}
	}

	return dev
}

// promote moves the done features from the planned queue to the end of the
// active list. The queue is rebuilt in one pass rather than spliced by index,
// so several completions in the same tick cannot skip entries.
func promote(s *models.Service, done []*models.Feature) {
	finished := make(map[*models.Feature]bool, len(done))
	for _, f := range done {
		finished[f] = true
	}
	pending := make([]*models.Feature, 0, len(s.PlannedFeatures)-len(done))
	for _, f := range s.PlannedFeatures {
		if !finished[f] {
			pending = append(pending, f)
		}
	}
	s.PlannedFeatures = pending
	s.Features = append(s.Features, done...)
}

// UpdateServiceUsage applies daily attrition and then adds the users each
// maintained feature attracts. Attrition only sees the pre-tick user count.
func UpdateServiceUsage(c *models.Company) {
	for _, s := range c.Services {
		s.Users -= s.Users * s.DailyAttritionRate
		for _, f := range s.Features {
			if f.Maintained {
				s.Users += f.PopularityMetric
			}
		}
	}
}

// UpdateFinancialAssets settles a month of revenue, salaries and hosting on
// the last day of each month. It returns false on every other day.
func UpdateFinancialAssets(c *models.Company, day time.Time) (Settlement, bool) {
	if !IsLastDayOfMonth(day) {
		return Settlement{}, false
	}

	var hosting float64
	for _, s := range c.Services {
		hosting += s.HostingCost
		for _, f := range s.Features {
			hosting += f.PerUserHostingCost * s.Users
			hosting += f.PerUserLicenseCost * s.Users
		}
	}

	var revenue float64
	for _, s := range c.Services {
		if s.HasSubscriptionFee() {
			revenue += s.Fee() * s.Users
		}
	}

	var salaries float64
	for _, e := range c.Employees {
		salaries += e.Salary / constants.MonthsPerYear
	}

	c.FinancialAssets = c.FinancialAssets + revenue - salaries - hosting

	return Settlement{
		Revenue:      revenue,
		Salaries:     salaries,
		HostingCosts: hosting,
		Net:          revenue - salaries - hosting,
	}, true
}
