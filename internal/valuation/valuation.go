// Package valuation computes a company's market valuation from its current
// simulated state.
package valuation

import (
	"fmt"
	"strings"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
)

// MarketCondition is the market trend applied to a valuation.
type MarketCondition string

const (
	MarketGrowing   MarketCondition = "growing"
	MarketShrinking MarketCondition = "shrinking"
)

// ParseMarketCondition maps a string to a MarketCondition (case-insensitive).
func ParseMarketCondition(s string) (MarketCondition, error) {
	switch MarketCondition(strings.ToLower(strings.TrimSpace(s))) {
	case MarketGrowing:
		return MarketGrowing, nil
	case MarketShrinking:
		return MarketShrinking, nil
	}
	return "", fmt.Errorf("invalid market condition: %q (valid: growing, shrinking)", s)
}

// Multiplier returns the valuation adjustment for the condition.
// Unrecognized conditions leave the valuation unchanged.
func (m MarketCondition) Multiplier() float64 {
	switch m {
	case MarketGrowing:
		return constants.GrowingMarketMultiplier
	case MarketShrinking:
		return constants.ShrinkingMarketMultiplier
	}
	return 1
}

// Breakdown exposes the intermediate terms of a valuation.
type Breakdown struct {
	AnnualRevenue        float64 `json:"annual_revenue"`
	AnnualCost           float64 `json:"annual_cost"`
	Profit               float64 `json:"profit"`
	PERatio              float64 `json:"pe_ratio"`
	MarketMultiplier     float64 `json:"market_multiplier"`
	PopularityMultiplier float64 `json:"popularity_multiplier"`
	Valuation            float64 `json:"valuation"`
}

// Calculate returns the company's valuation. It is pure.
func Calculate(c *models.Company, market MarketCondition, peRatio float64) float64 {
	return Explain(c, market, peRatio).Valuation
}

// Explain computes the valuation and returns every intermediate term.
//
// Popularity compounding multiplies the running valuation once per active
// feature, services then features, so the result is reproducible bit for bit.
func Explain(c *models.Company, market MarketCondition, peRatio float64) Breakdown {
	var revenue, cost float64

	for _, s := range c.Services {
		if s.BillingModel == models.BillingSubscription && s.HasSubscriptionFee() {
			revenue += s.Fee() * constants.MonthsPerYear * s.Users
		}
		cost += s.HostingCost
		for _, f := range s.Features {
			cost += f.PerUserHostingCost * constants.MonthsPerYear * s.Users
			cost += f.PerUserLicenseCost * constants.MonthsPerYear * s.Users
		}
	}

	for _, e := range c.Employees {
		cost += e.Salary
	}

	profit := revenue - cost
	v := profit * peRatio
	v *= market.Multiplier()

	popularity := 1.0
	for _, s := range c.Services {
		for _, f := range s.Features {
			m := 1 + f.PopularityMetric/constants.PopularityPercent
			v *= m
			popularity *= m
		}
	}

	return Breakdown{
		AnnualRevenue:        revenue,
		AnnualCost:           cost,
		Profit:               profit,
		PERatio:              peRatio,
		MarketMultiplier:     market.Multiplier(),
		PopularityMultiplier: popularity,
		Valuation:            v,
	}
}
