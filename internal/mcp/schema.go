package mcp

import (
	"time"

	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/store"
	"github.com/nvandessel/corpsim/internal/valuation"
)

// OnboardInput defines the input for the corpsim_onboard tool.
type OnboardInput struct {
	Topic string `json:"topic" jsonschema:"Theme the generated company should be inspired by"`
}

// OnboardOutput defines the output for the corpsim_onboard tool.
type OnboardOutput struct {
	Status  *session.Status `json:"status" jsonschema:"The freshly onboarded company"`
	Message string          `json:"message" jsonschema:"Human-readable result message"`
}

// AddFeatureInput defines the input for the corpsim_add_feature tool.
type AddFeatureInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"Feature kind: conventional (default) or ai"`
	Count int    `json:"count,omitempty" jsonschema:"How many features to plan (default 1)"`
}

// AddFeatureOutput defines the output for the corpsim_add_feature tool.
type AddFeatureOutput struct {
	Kind     string   `json:"kind" jsonschema:"Feature kind that was planned"`
	Planned  []string `json:"planned" jsonschema:"Names of the features added to the development queue"`
	Buffered int      `json:"buffered" jsonschema:"Ideas of this kind still waiting in the buffer"`
	Message  string   `json:"message" jsonschema:"Human-readable result message"`
}

// SimulateInput defines the input for the corpsim_simulate tool.
type SimulateInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days to simulate (default 1)"`
}

// DaySummary is one simulated day as reported by corpsim_simulate.
type DaySummary struct {
	Date              string   `json:"date"`
	Users             float64  `json:"users"`
	FinancialAssets   float64  `json:"financial_assets"`
	RemainingCapacity float64  `json:"remaining_capacity"`
	Weekend           bool     `json:"weekend,omitempty"`
	Settled           bool     `json:"settled,omitempty"`
	Completed         []string `json:"completed,omitempty"`
}

// SimulateOutput defines the output for the corpsim_simulate tool.
type SimulateOutput struct {
	Days     []DaySummary    `json:"days" jsonschema:"One entry per simulated day"`
	Launched []string        `json:"launched" jsonschema:"Features completed during the simulated days"`
	Status   *session.Status `json:"status" jsonschema:"Company state after the last day"`
	Message  string          `json:"message" jsonschema:"Human-readable result message"`
}

// StatusInput defines the input for the corpsim_status tool.
type StatusInput struct{}

// StatusOutput defines the output for the corpsim_status tool.
type StatusOutput struct {
	Status *session.Status `json:"status" jsonschema:"Current company state"`
}

// ValuationInput defines the input for the corpsim_valuation tool.
type ValuationInput struct {
	Market  string  `json:"market,omitempty" jsonschema:"Market condition: growing or shrinking (default: configured market)"`
	PERatio float64 `json:"pe_ratio,omitempty" jsonschema:"Price to earnings ratio (default: configured ratio)"`
}

// ValuationOutput defines the output for the corpsim_valuation tool.
type ValuationOutput struct {
	Market    valuation.MarketCondition `json:"market" jsonschema:"Market condition applied"`
	Breakdown valuation.Breakdown       `json:"breakdown" jsonschema:"Every intermediate term of the valuation"`
}

// LogoInput defines the input for the corpsim_logo tool.
type LogoInput struct{}

// LogoOutput defines the output for the corpsim_logo tool.
type LogoOutput struct {
	Prompt string `json:"prompt" jsonschema:"Text-to-image prompt written for the service"`
	URL    string `json:"url" jsonschema:"URL of the generated image"`
}

// HistoryInput defines the input for the corpsim_history tool.
type HistoryInput struct {
	RunID string `json:"run_id,omitempty" jsonschema:"Run to list days for; omit to list runs"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum entries to return, most recent last (default 30)"`
}

// RunListItem provides a list view of a journaled run.
type RunListItem struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	ServiceName string    `json:"service_name,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryOutput defines the output for the corpsim_history tool.
type HistoryOutput struct {
	Runs  []RunListItem     `json:"runs,omitempty" jsonschema:"Journaled runs, oldest first"`
	Days  []store.DayRecord `json:"days,omitempty" jsonschema:"Journaled days of the requested run"`
	Count int               `json:"count" jsonschema:"Number of items returned"`
}
