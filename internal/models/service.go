package models

import "fmt"

// BillingModel describes how a service charges its users.
type BillingModel string

const (
	BillingFree         BillingModel = "free"
	BillingFreemium     BillingModel = "freemium"
	BillingSubscription BillingModel = "subscription"
)

// Valid returns true if the billing model is a recognized value.
func (b BillingModel) Valid() bool {
	switch b {
	case BillingFree, BillingFreemium, BillingSubscription:
		return true
	}
	return false
}

// ParseBillingModel converts a string into a BillingModel.
func ParseBillingModel(s string) (BillingModel, error) {
	b := BillingModel(s)
	if !b.Valid() {
		return "", fmt.Errorf("invalid billing model: %s (valid: free, freemium, subscription)", s)
	}
	return b, nil
}

// Service is a single product offered by a company.
type Service struct {
	Name         string       `json:"name" yaml:"name"`
	BillingModel BillingModel `json:"billing_model" yaml:"billing_model"`

	// Users may be fractional; attrition is applied as a rate.
	Users float64 `json:"users" yaml:"users"`

	// DailyAttritionRate is the fraction of current users lost per day.
	DailyAttritionRate float64 `json:"daily_attrition_rate" yaml:"daily_attrition_rate"`

	// HostingCost is the baseline hosting cost per month, regardless of features.
	HostingCost float64 `json:"hosting_cost" yaml:"hosting_cost"`

	// SubscriptionFee is the amount paid per user per month. Nil unless the
	// service bills by subscription.
	SubscriptionFee *float64 `json:"subscription_fee,omitempty" yaml:"subscription_fee,omitempty"`

	// Features are the active features, in completion order.
	Features []*Feature `json:"features" yaml:"features"`

	// PlannedFeatures is the FIFO development queue.
	PlannedFeatures []*Feature `json:"planned_features" yaml:"planned_features"`
}

// HasSubscriptionFee reports whether a non-zero fee is defined.
func (s *Service) HasSubscriptionFee() bool {
	return s.SubscriptionFee != nil && *s.SubscriptionFee != 0
}

// Fee returns the subscription fee, or 0 when none is defined.
func (s *Service) Fee() float64 {
	if s.SubscriptionFee == nil {
		return 0
	}
	return *s.SubscriptionFee
}

// PlanFeature queues a feature for development. The feature restarts from
// zero progress and is considered maintained until the next weekday tick
// says otherwise.
func (s *Service) PlanFeature(f *Feature) {
	f.DevelopmentProgress = 0
	f.Maintained = true
	s.PlannedFeatures = append(s.PlannedFeatures, f)
}

// FeatureNames returns the names of the active features in order.
func (s *Service) FeatureNames() []string {
	return featureNames(s.Features)
}

// PlannedFeatureNames returns the names of the planned features in queue order.
func (s *Service) PlannedFeatureNames() []string {
	return featureNames(s.PlannedFeatures)
}

// AllFeatureNames returns active then planned feature names.
func (s *Service) AllFeatureNames() []string {
	names := make([]string, 0, len(s.Features)+len(s.PlannedFeatures))
	names = append(names, s.FeatureNames()...)
	return append(names, s.PlannedFeatureNames()...)
}

func featureNames(fs []*Feature) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// SubscriptionFee returns a fee pointer for building subscription services.
func SubscriptionFee(v float64) *float64 {
	return &v
}

// ServiceTemplate holds the default parameters for a newly onboarded service.
type ServiceTemplate struct {
	BillingModel       BillingModel `json:"billing_model" yaml:"billing_model"`
	Users              float64      `json:"users" yaml:"users"`
	DailyAttritionRate float64      `json:"daily_attrition_rate" yaml:"daily_attrition_rate"`
	HostingCost        float64      `json:"hosting_cost" yaml:"hosting_cost"`
	SubscriptionFee    float64      `json:"subscription_fee" yaml:"subscription_fee"`
}

// DefaultServiceTemplate returns the parameters every onboarded service starts with.
func DefaultServiceTemplate() ServiceTemplate {
	return ServiceTemplate{
		BillingModel:       BillingSubscription,
		Users:              0,
		DailyAttritionRate: 0.01,
		HostingCost:        1000,
		SubscriptionFee:    15,
	}
}

// NewService creates a service with no features. A fee is only attached
// when the template bills by subscription.
func NewService(name string, tmpl ServiceTemplate) *Service {
	s := &Service{
		Name:               name,
		BillingModel:       tmpl.BillingModel,
		Users:              tmpl.Users,
		DailyAttritionRate: tmpl.DailyAttritionRate,
		HostingCost:        tmpl.HostingCost,
		Features:           []*Feature{},
		PlannedFeatures:    []*Feature{},
	}
	if tmpl.BillingModel == BillingSubscription {
		s.SubscriptionFee = SubscriptionFee(tmpl.SubscriptionFee)
	}
	return s
}
