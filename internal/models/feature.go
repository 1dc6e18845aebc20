package models

// Feature is a unit of product work. It is planned into a service's
// development queue, built with engineer-days and, once complete, kept
// alive by a monthly maintenance budget.
type Feature struct {
	Name string `json:"name" yaml:"name"`

	// PerUserHostingCost is the cost to host this feature, in dollars per user per month.
	PerUserHostingCost float64 `json:"per_user_hosting_cost" yaml:"per_user_hosting_cost"`

	// PerUserLicenseCost is the third party license cost, in dollars per user per month.
	PerUserLicenseCost float64 `json:"per_user_license_cost" yaml:"per_user_license_cost"`

	// PopularityMetric is the number of users who sign up per day while
	// the feature is available and maintained.
	PopularityMetric float64 `json:"popularity_metric" yaml:"popularity_metric"`

	// DevelopmentCostDays is the number of engineer-days needed to build the feature.
	DevelopmentCostDays float64 `json:"development_cost_days" yaml:"development_cost_days"`

	// DevelopmentProgress is the number of engineer-days invested so far.
	DevelopmentProgress float64 `json:"development_progress" yaml:"development_progress"`

	// MaintenanceCostDaysPerMonth is the engineer-days per month needed to
	// keep the feature maintained.
	MaintenanceCostDaysPerMonth float64 `json:"maintenance_cost_days_per_month" yaml:"maintenance_cost_days_per_month"`

	// Maintained reports whether upkeep was covered on the most recent weekday.
	Maintained bool `json:"maintained" yaml:"maintained"`
}

// Complete reports whether development has reached the feature's cost.
func (f *Feature) Complete() bool {
	return f.DevelopmentProgress >= f.DevelopmentCostDays
}

// RemainingDevelopment returns the engineer-days still needed to finish.
func (f *Feature) RemainingDevelopment() float64 {
	return f.DevelopmentCostDays - f.DevelopmentProgress
}

// PerUserCost is the combined hosting and license cost per user per month.
func (f *Feature) PerUserCost() float64 {
	return f.PerUserHostingCost + f.PerUserLicenseCost
}

// FeatureKind selects the economics a newly planned feature gets.
type FeatureKind string

const (
	FeatureKindConventional FeatureKind = "conventional"
	FeatureKindAI           FeatureKind = "ai"
)

// Valid returns true if the kind is a recognized value.
func (k FeatureKind) Valid() bool {
	switch k {
	case FeatureKindConventional, FeatureKindAI:
		return true
	}
	return false
}

// FeatureTemplate holds the default economic parameters applied when a
// feature is created from a bare name.
type FeatureTemplate struct {
	DevelopmentCostDays         float64 `json:"development_cost_days" yaml:"development_cost_days"`
	PerUserHostingCost          float64 `json:"per_user_hosting_cost" yaml:"per_user_hosting_cost"`
	PerUserLicenseCost          float64 `json:"per_user_license_cost" yaml:"per_user_license_cost"`
	PopularityMetric            float64 `json:"popularity_metric" yaml:"popularity_metric"`
	MaintenanceCostDaysPerMonth float64 `json:"maintenance_cost_days_per_month" yaml:"maintenance_cost_days_per_month"`
}

// ConventionalFeatureTemplate returns the economics of an ordinary product feature.
func ConventionalFeatureTemplate() FeatureTemplate {
	return FeatureTemplate{
		DevelopmentCostDays:         30,
		PerUserHostingCost:          0.03,
		PerUserLicenseCost:          0.01,
		PopularityMetric:            100,
		MaintenanceCostDaysPerMonth: 2,
	}
}

// AIFeatureTemplate returns the economics of an AI-powered feature: slower to
// build and pricier to run, but more popular.
func AIFeatureTemplate() FeatureTemplate {
	return FeatureTemplate{
		DevelopmentCostDays:         60,
		PerUserHostingCost:          0.09,
		PerUserLicenseCost:          0.03,
		PopularityMetric:            130,
		MaintenanceCostDaysPerMonth: 4,
	}
}

// NewFeature creates an unstarted, maintained feature from a template.
func NewFeature(name string, tmpl FeatureTemplate) *Feature {
	return &Feature{
		Name:                        name,
		PerUserHostingCost:          tmpl.PerUserHostingCost,
		PerUserLicenseCost:          tmpl.PerUserLicenseCost,
		PopularityMetric:            tmpl.PopularityMetric,
		DevelopmentCostDays:         tmpl.DevelopmentCostDays,
		DevelopmentProgress:         0,
		MaintenanceCostDaysPerMonth: tmpl.MaintenanceCostDaysPerMonth,
		Maintained:                  true,
	}
}
