package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/valuation"
)

func newValuationCmd() *cobra.Command {
	var sc scenario

	cmd := &cobra.Command{
		Use:   "valuation",
		Short: "Show how a company's valuation is computed",
		Long: `Onboard a company, run it for --days and break its valuation down into
revenue, cost, profit, P/E ratio, market and popularity terms.

Examples:
  corpsim valuation --topic "pet grooming" --features 2 --days 60
  corpsim valuation --market shrinking --pe 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sc.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := sc.start(ctx, a.session); err != nil {
				return err
			}
			if _, err := a.session.Simulate(ctx, sc.days); err != nil {
				return err
			}

			market, err := a.cfg.Simulation.MarketCondition()
			if err != nil {
				return err
			}
			b, err := a.session.Valuation(market, a.cfg.Simulation.PERatio)
			if err != nil {
				return err
			}
			st, err := a.session.Status()
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, struct {
					Company   string                    `json:"company"`
					Date      string                    `json:"date"`
					Market    valuation.MarketCondition `json:"market"`
					Breakdown valuation.Breakdown       `json:"breakdown"`
				}{st.CompanyName, st.Date.Format(time.DateOnly), market, b})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s:\n", st.CompanyName, st.Date.Format(time.DateOnly))
			printBreakdown(out, b, market)
			return nil
		},
	}

	addScenarioFlags(cmd, &sc, 0)
	return cmd
}
