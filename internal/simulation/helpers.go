package simulation

import (
	"time"

	"github.com/nvandessel/corpsim/internal/models"
)

const defaultSalary = 100000

// ToFeature converts a FeatureSpec into a models.Feature, applying the
// template for its kind and then any overrides.
func (s FeatureSpec) ToFeature() *models.Feature {
	tmpl := models.ConventionalFeatureTemplate()
	if s.Kind == models.FeatureKindAI {
		tmpl = models.AIFeatureTemplate()
	}
	if s.CostDays != 0 {
		tmpl.DevelopmentCostDays = s.CostDays
	}
	if s.MaintDays != 0 {
		tmpl.MaintenanceCostDaysPerMonth = s.MaintDays
	}
	if s.Popularity != 0 {
		tmpl.PopularityMetric = s.Popularity
	}
	f := models.NewFeature(s.Name, tmpl)
	f.Maintained = !s.Unmaintained
	return f
}

// ToService converts a ServiceSpec into a models.Service. Active features are
// marked fully developed.
func (s ServiceSpec) ToService() *models.Service {
	billing := s.Billing
	if billing == "" {
		billing = models.BillingSubscription
	}
	svc := models.NewService(s.Name, models.ServiceTemplate{
		BillingModel:       billing,
		Users:              s.Users,
		DailyAttritionRate: s.Attrition,
		HostingCost:        s.Hosting,
		SubscriptionFee:    s.Fee,
	})
	for _, fs := range s.Features {
		f := fs.ToFeature()
		f.DevelopmentProgress = f.DevelopmentCostDays
		svc.Features = append(svc.Features, f)
	}
	for _, fs := range s.Planned {
		svc.PlanFeature(fs.ToFeature())
	}
	return svc
}

// ToCompany converts a CompanySpec into a models.Company.
func (s CompanySpec) ToCompany() *models.Company {
	salary := s.Salary
	if salary == 0 {
		salary = defaultSalary
	}
	services := make([]*models.Service, 0, len(s.Services))
	for _, ss := range s.Services {
		services = append(services, ss.ToService())
	}
	return models.NewCompany(s.Name, s.Assets, models.Employees(s.Employees, salary), services...)
}

// Planned builds conventional FeatureSpecs for the given names.
func Planned(names ...string) []FeatureSpec {
	specs := make([]FeatureSpec, len(names))
	for i, n := range names {
		specs[i] = FeatureSpec{Name: n}
	}
	return specs
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
