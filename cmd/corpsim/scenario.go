package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/config"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/world"
)

// defaultTopic seeds the idea generator when no topic is given.
const defaultTopic = "software"

// scenario describes a company to onboard, the features to plan for it and
// how long to run it before reporting.
type scenario struct {
	topic      string
	features   int
	aiFeatures int
	days       int
}

func addScenarioFlags(cmd *cobra.Command, sc *scenario, days int) {
	cmd.Flags().StringVar(&sc.topic, "topic", "", "Topic the company is inspired by (default \""+defaultTopic+"\")")
	cmd.Flags().IntVar(&sc.features, "features", 0, "Conventional features to plan after onboarding")
	cmd.Flags().IntVar(&sc.aiFeatures, "ai-features", 0, "AI features to plan after onboarding")
	cmd.Flags().IntVar(&sc.days, "days", days, "Days to simulate")
	cmd.Flags().String("market", "", "Market condition for valuation: growing or shrinking")
	cmd.Flags().Float64("pe", 0, "Price/earnings ratio for valuation")
}

// applyValuationFlags copies --market and --pe onto cfg when the command
// defines and sets them.
func applyValuationFlags(cmd *cobra.Command, cfg *config.CorpsimConfig) {
	if f := cmd.Flags().Lookup("market"); f != nil && f.Changed {
		cfg.Simulation.Market = f.Value.String()
	}
	if f := cmd.Flags().Lookup("pe"); f != nil && f.Changed {
		if pe, err := cmd.Flags().GetFloat64("pe"); err == nil {
			cfg.Simulation.PERatio = pe
		}
	}
}

func (sc scenario) validate() error {
	if sc.features < 0 || sc.aiFeatures < 0 {
		return fmt.Errorf("feature counts must be non-negative")
	}
	if sc.days < 0 {
		return fmt.Errorf("--days must be non-negative, got %d", sc.days)
	}
	return nil
}

func (sc scenario) topicOrDefault() string {
	if sc.topic == "" {
		return defaultTopic
	}
	return sc.topic
}

// start onboards the scenario's company and plans its features. It returns
// the names actually planned, which may be fewer than asked for when the
// idea buffers run dry.
func (sc scenario) start(ctx context.Context, s *session.Session) ([]string, error) {
	if _, err := s.Onboard(ctx, sc.topicOrDefault()); err != nil {
		return nil, err
	}

	var planned []string
	plan := func(kind models.FeatureKind, n int) error {
		for i := 0; i < n; i++ {
			name, ok, err := s.AddFeatureOfKind(ctx, kind)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			planned = append(planned, name)
		}
		return nil
	}
	if err := plan(models.FeatureKindConventional, sc.features); err != nil {
		return planned, err
	}
	if err := plan(models.FeatureKindAI, sc.aiFeatures); err != nil {
		return planned, err
	}
	return planned, nil
}

// launched collects the features completed across reports for companyID.
func launched(reports []world.DayReport, companyID string) []string {
	names := []string{}
	for _, r := range reports {
		if cd, ok := r.Company(companyID); ok {
			names = append(names, cd.Development.Completed...)
		}
	}
	return names
}
