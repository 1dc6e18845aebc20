// Package constants provides named constants used throughout the corpsim codebase.
// This centralizes the simulation's magic numbers for better maintainability and documentation.
package constants

import "time"

// Workforce constants
const (
	// EngineeringFraction is the share of headcount allocated to engineering.
	// Each engineer contributes one engineer-day per weekday.
	EngineeringFraction = 0.5

	// MaintenanceDaysPerMonth converts a feature's monthly maintenance cost
	// into a daily burden.
	MaintenanceDaysPerMonth = 30.0

	// MonthsPerYear annualizes monthly fees and de-annualizes salaries.
	MonthsPerYear = 12.0
)

// Valuation constants
const (
	// GrowingMarketMultiplier is applied to valuation in a growing market.
	GrowingMarketMultiplier = 1.1

	// ShrinkingMarketMultiplier is applied to valuation in a shrinking market.
	ShrinkingMarketMultiplier = 0.9

	// PopularityPercent is the divisor turning a feature's popularity metric
	// into a valuation multiplier (1 + popularity/100).
	PopularityPercent = 100.0

	// DefaultPERatio is the price/earnings ratio used for display.
	DefaultPERatio = 0.1
)

// Feature buffer constants
const (
	// FeatureBufferLowWater is the buffer size below which more feature
	// suggestions are requested from the idea generator.
	FeatureBufferLowWater = 20

	// SuggestionCount is the number of features requested per suggestion call.
	SuggestionCount = 20

	// DuplicateFeatureThreshold is the minimum word similarity at which a
	// suggested feature is treated as a duplicate of an existing one.
	DuplicateFeatureThreshold = 0.8
)

// Driver constants
const (
	// DefaultTickInterval is the wall-clock cadence of the simulation driver.
	DefaultTickInterval = 200 * time.Millisecond
)

// SimulationEpoch is the instant every new world starts at.
var SimulationEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
