package session

import (
	"context"
	"fmt"
	"time"

	"github.com/nvandessel/corpsim/internal/imagegen"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/valuation"
)

// FeatureStatus is the display form of one feature.
type FeatureStatus struct {
	Name                string  `json:"name"`
	DevelopmentProgress float64 `json:"development_progress"`
	DevelopmentCostDays float64 `json:"development_cost_days"`
	PopularityMetric    float64 `json:"popularity_metric"`
	Maintained          bool    `json:"maintained"`
}

// Status is a snapshot of the session for presentation. It never aliases
// engine state.
type Status struct {
	Date               time.Time `json:"date"`
	RunID              string    `json:"run_id,omitempty"`
	CompanyID          string    `json:"company_id"`
	CompanyName        string    `json:"company_name"`
	ServiceName        string    `json:"service_name"`
	ServiceDescription string    `json:"service_description"`

	Users           float64                   `json:"users"`
	FinancialAssets float64                   `json:"financial_assets"`
	Employees       int                       `json:"employees"`
	Valuation       float64                   `json:"valuation"`
	Market          valuation.MarketCondition `json:"market"`
	PERatio         float64                   `json:"pe_ratio"`

	Features        []FeatureStatus `json:"features"`
	PlannedFeatures []FeatureStatus `json:"planned_features"`

	ConventionalBuffer []string `json:"conventional_buffer"`
	AIBuffer           []string `json:"ai_buffer"`

	// RemainingCapacity is the engineer-days left after maintenance on the
	// most recent tick. Nil before the first tick.
	RemainingCapacity *float64 `json:"remaining_capacity,omitempty"`
	Unmaintained      int      `json:"unmaintained"`
}

// Status returns a snapshot of the onboarded company.
func (s *Session) Status() (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.company == nil {
		return nil, ErrNotOnboarded
	}
	return s.statusLocked(), nil
}

func (s *Session) statusLocked() *Status {
	c := s.company
	st := &Status{
		Date:               s.world.CurrentTime,
		RunID:              s.runID,
		CompanyID:          c.ID,
		CompanyName:        c.Name,
		ServiceDescription: s.idea.ServiceDescription,
		Users:              c.TotalUsers(),
		FinancialAssets:    c.FinancialAssets,
		Employees:          len(c.Employees),
		Valuation:          valuation.Calculate(c, s.cfg.Market, s.cfg.PERatio),
		Market:             s.cfg.Market,
		PERatio:            s.cfg.PERatio,
		Features:           []FeatureStatus{},
		PlannedFeatures:    []FeatureStatus{},
		ConventionalBuffer: append([]string{}, s.buffers[models.FeatureKindConventional]...),
		AIBuffer:           append([]string{}, s.buffers[models.FeatureKindAI]...),
	}
	if svc := c.PrimaryService(); svc != nil {
		st.ServiceName = svc.Name
		st.Features = featureStatuses(svc.Features)
		st.PlannedFeatures = featureStatuses(svc.PlannedFeatures)
	}
	if s.last != nil {
		if cd, ok := s.last.Company(c.ID); ok && !cd.Development.Skipped {
			remaining := cd.Development.RemainingCapacity
			st.RemainingCapacity = &remaining
			st.Unmaintained = cd.Development.Unmaintained
		}
	}
	return st
}

func featureStatuses(fs []*models.Feature) []FeatureStatus {
	out := make([]FeatureStatus, len(fs))
	for i, f := range fs {
		out[i] = FeatureStatus{
			Name:                f.Name,
			DevelopmentProgress: f.DevelopmentProgress,
			DevelopmentCostDays: f.DevelopmentCostDays,
			PopularityMetric:    f.PopularityMetric,
			Maintained:          f.Maintained,
		}
	}
	return out
}

// Valuation explains the current valuation under the given market and P/E
// ratio. It does not change the session's configured valuation settings.
func (s *Session) Valuation(market valuation.MarketCondition, peRatio float64) (valuation.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.company == nil {
		return valuation.Breakdown{}, ErrNotOnboarded
	}
	return valuation.Explain(s.company, market, peRatio), nil
}

// Logo writes a logo prompt for the onboarded service and renders it.
// The idea generator and image model are called without holding the lock.
func (s *Session) Logo(ctx context.Context) (*imagegen.LogoResult, error) {
	if s.images == nil {
		return nil, ErrNoImageGenerator
	}
	idea, err := s.Idea()
	if err != nil {
		return nil, err
	}
	res, err := imagegen.Logo(ctx, s.gen, s.images, idea.ServiceName, idea.ServiceDescription)
	if err != nil {
		return nil, fmt.Errorf("logo for %s: %w", idea.ServiceName, err)
	}

	s.mu.Lock()
	s.trace.Event("logo", s.runID, map[string]any{"prompt": res.Prompt, "url": res.URL})
	s.mu.Unlock()
	s.logger.Info("logo generated", "service", idea.ServiceName, "url", res.URL)
	return res, nil
}
