package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/ratelimit"
	"github.com/nvandessel/corpsim/internal/sanitize"
	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/valuation"
)

const (
	// MaxSimulateDays caps one corpsim_simulate call at ten simulated years.
	MaxSimulateDays = 3650

	// MaxFeaturesPerCall caps one corpsim_add_feature call.
	MaxFeaturesPerCall = 20

	defaultHistoryLimit = 30

	statusResourceURI = "corpsim://status"
)

// registerTools registers all corpsim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolOnboard,
		Description: "Invent a company inspired by a topic and start a fresh simulation of it, discarding any previous one",
	}, s.handleOnboard)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolAddFeature,
		Description: "Plan the next buffered feature idea (conventional or ai) into the development queue",
	}, s.handleAddFeature)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolSimulate,
		Description: "Advance the simulation by a number of days and report what happened",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolStatus,
		Description: "Show the company's date, users, assets, valuation, features and idea buffers",
	}, s.handleStatus)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolValuation,
		Description: "Explain the company's valuation, optionally under a different market condition or P/E ratio",
	}, s.handleValuation)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolLogo,
		Description: "Generate a logo image for the onboarded service",
	}, s.handleLogo)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolHistory,
		Description: "List journaled simulation runs, or the recorded days of one run",
	}, s.handleHistory)
}

// registerResources registers the live status resource.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         statusResourceURI,
		Name:        "corpsim-status",
		Description: "Current state of the simulated company as JSON.",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

func (s *Server) handleStatusResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	text := `{"onboarded": false}`
	if st, err := s.session.Status(); err == nil {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling status: %w", err)
		}
		text = string(data)
	}
	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{URI: statusResourceURI, MIMEType: "application/json", Text: text},
		},
	}, nil
}

func (s *Server) handleOnboard(ctx context.Context, req *sdk.CallToolRequest, args OnboardInput) (_ *sdk.CallToolResult, _ OnboardOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolOnboard, start, retErr, sanitizeToolParams(map[string]any{"topic": args.Topic}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolOnboard); err != nil {
		return nil, OnboardOutput{}, err
	}

	topic := sanitize.Description(args.Topic)
	if strings.TrimSpace(topic) == "" {
		return nil, OnboardOutput{}, fmt.Errorf("'topic' parameter is required")
	}

	st, err := s.session.Onboard(ctx, topic)
	if err != nil {
		return nil, OnboardOutput{}, err
	}

	return nil, OnboardOutput{
		Status: st,
		Message: fmt.Sprintf("Onboarded %s, maker of %s, with %d feature ideas buffered.",
			st.CompanyName, st.ServiceName, len(st.ConventionalBuffer)),
	}, nil
}

func (s *Server) handleAddFeature(ctx context.Context, req *sdk.CallToolRequest, args AddFeatureInput) (_ *sdk.CallToolResult, _ AddFeatureOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolAddFeature, start, retErr, sanitizeToolParams(map[string]any{
			"kind": args.Kind, "count": args.Count,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolAddFeature); err != nil {
		return nil, AddFeatureOutput{}, err
	}

	kind := models.FeatureKindConventional
	if args.Kind != "" {
		kind = models.FeatureKind(strings.ToLower(args.Kind))
		if !kind.Valid() {
			return nil, AddFeatureOutput{}, fmt.Errorf("invalid kind %q (valid: conventional, ai)", args.Kind)
		}
	}
	count := args.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > MaxFeaturesPerCall {
		return nil, AddFeatureOutput{}, fmt.Errorf("count must be between 1 and %d", MaxFeaturesPerCall)
	}

	planned := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, ok, err := s.session.AddFeatureOfKind(ctx, kind)
		if err != nil {
			return nil, AddFeatureOutput{}, err
		}
		if !ok {
			break
		}
		planned = append(planned, name)
	}

	out := AddFeatureOutput{
		Kind:     string(kind),
		Planned:  planned,
		Buffered: len(s.session.Buffered(kind)),
	}
	switch {
	case len(planned) == 0:
		out.Message = fmt.Sprintf("No %s feature ideas were buffered; more have been requested, try again.", kind)
	case len(planned) < count:
		out.Message = fmt.Sprintf("Planned %d of %d %s features; the buffer ran out.", len(planned), count, kind)
	default:
		out.Message = fmt.Sprintf("Planned %d %s feature(s).", len(planned), kind)
	}
	return nil, out, nil
}

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (_ *sdk.CallToolResult, _ SimulateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolSimulate, start, retErr, sanitizeToolParams(map[string]any{"days": args.Days}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolSimulate); err != nil {
		return nil, SimulateOutput{}, err
	}

	days := args.Days
	if days == 0 {
		days = 1
	}
	if days < 0 || days > MaxSimulateDays {
		return nil, SimulateOutput{}, fmt.Errorf("days must be between 1 and %d", MaxSimulateDays)
	}

	reports, err := s.session.Simulate(ctx, days)
	if err != nil {
		return nil, SimulateOutput{}, err
	}
	st, err := s.session.Status()
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	out := SimulateOutput{
		Days:     make([]DaySummary, 0, len(reports)),
		Launched: []string{},
		Status:   st,
	}
	for _, r := range reports {
		cd, ok := r.Company(st.CompanyID)
		if !ok {
			continue
		}
		out.Days = append(out.Days, DaySummary{
			Date:              r.Date.Format(time.DateOnly),
			Users:             cd.Users,
			FinancialAssets:   cd.FinancialAssets,
			RemainingCapacity: cd.Development.RemainingCapacity,
			Weekend:           r.Weekend,
			Settled:           cd.Settlement != nil,
			Completed:         cd.Development.Completed,
		})
		out.Launched = append(out.Launched, cd.Development.Completed...)
	}
	out.Message = fmt.Sprintf("Simulated %d day(s) to %s: %.0f users, $%.2f assets, valuation $%.2f.",
		len(reports), st.Date.Format(time.DateOnly), st.Users, st.FinancialAssets, st.Valuation)
	return nil, out, nil
}

func (s *Server) handleStatus(ctx context.Context, req *sdk.CallToolRequest, args StatusInput) (_ *sdk.CallToolResult, _ StatusOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolStatus, start, retErr, sanitizeToolParams(map[string]any{}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolStatus); err != nil {
		return nil, StatusOutput{}, err
	}

	st, err := s.session.Status()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: st}, nil
}

func (s *Server) handleValuation(ctx context.Context, req *sdk.CallToolRequest, args ValuationInput) (_ *sdk.CallToolResult, _ ValuationOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolValuation, start, retErr, sanitizeToolParams(map[string]any{
			"market": args.Market, "pe_ratio": args.PERatio,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolValuation); err != nil {
		return nil, ValuationOutput{}, err
	}

	st, err := s.session.Status()
	if err != nil {
		return nil, ValuationOutput{}, err
	}

	market := st.Market
	if args.Market != "" {
		if market, err = valuation.ParseMarketCondition(args.Market); err != nil {
			return nil, ValuationOutput{}, err
		}
	}
	pe := st.PERatio
	if args.PERatio != 0 {
		if args.PERatio < 0 {
			return nil, ValuationOutput{}, fmt.Errorf("pe_ratio must be positive, got %v", args.PERatio)
		}
		pe = args.PERatio
	}

	b, err := s.session.Valuation(market, pe)
	if err != nil {
		return nil, ValuationOutput{}, err
	}
	return nil, ValuationOutput{Market: market, Breakdown: b}, nil
}

func (s *Server) handleLogo(ctx context.Context, req *sdk.CallToolRequest, args LogoInput) (_ *sdk.CallToolResult, _ LogoOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolLogo, start, retErr, sanitizeToolParams(map[string]any{}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolLogo); err != nil {
		return nil, LogoOutput{}, err
	}

	res, err := s.session.Logo(ctx)
	if errors.Is(err, session.ErrNoImageGenerator) {
		return nil, LogoOutput{}, fmt.Errorf("%w: set REPLICATE_API_TOKEN or image.provider", err)
	}
	if err != nil {
		return nil, LogoOutput{}, err
	}
	return nil, LogoOutput{Prompt: res.Prompt, URL: res.URL}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, args HistoryInput) (_ *sdk.CallToolResult, _ HistoryOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolHistory, start, retErr, sanitizeToolParams(map[string]any{
			"run_id": args.RunID, "limit": args.Limit,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolHistory); err != nil {
		return nil, HistoryOutput{}, err
	}
	if s.journal == nil {
		return nil, HistoryOutput{}, fmt.Errorf("the run journal is disabled")
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	if args.RunID == "" {
		runs, err := s.journal.ListRuns(ctx)
		if err != nil {
			return nil, HistoryOutput{}, fmt.Errorf("listing runs: %w", err)
		}
		runs = runs[max(0, len(runs)-limit):]
		items := make([]RunListItem, len(runs))
		for i, r := range runs {
			items[i] = RunListItem{
				ID:          r.ID,
				CompanyName: r.CompanyName,
				ServiceName: r.ServiceName,
				Topic:       r.Topic,
				CreatedAt:   r.CreatedAt,
			}
		}
		return nil, HistoryOutput{Runs: items, Count: len(items)}, nil
	}

	days, err := s.journal.ListDays(ctx, args.RunID)
	if err != nil {
		return nil, HistoryOutput{}, fmt.Errorf("listing days: %w", err)
	}
	days = days[max(0, len(days)-limit):]
	return nil, HistoryOutput{Days: days, Count: len(days)}, nil
}
