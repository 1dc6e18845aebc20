package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/valuation"
)

var printer = message.NewPrinter(language.English)

func jsonOutput(cmd *cobra.Command) bool {
	jsonOut, _ := cmd.Flags().GetBool("json")
	return jsonOut
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// money formats v as dollars with thousands separators: "-$1,234.50".
func money(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", math.Abs(v))
	}
	return printer.Sprintf("$%.2f", v)
}

// count formats a fractional headcount as a whole number: "12,346".
func count(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func printStatus(w io.Writer, st *session.Status) {
	fmt.Fprintf(w, "%s (%s)\n", st.CompanyName, st.ServiceName)
	if st.ServiceDescription != "" {
		fmt.Fprintf(w, "  %s\n", st.ServiceDescription)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Date:       %s\n", st.Date.Format(time.DateOnly))
	fmt.Fprintf(w, "  Users:      %s\n", count(st.Users))
	fmt.Fprintf(w, "  Assets:     %s\n", money(st.FinancialAssets))
	fmt.Fprintf(w, "  Employees:  %d\n", st.Employees)
	fmt.Fprintf(w, "  Valuation:  %s (%s market, P/E %g)\n", money(st.Valuation), st.Market, st.PERatio)
	if st.RemainingCapacity != nil {
		fmt.Fprintf(w, "  Capacity:   %.2f engineer-days left after maintenance\n", *st.RemainingCapacity)
	}
	if st.Unmaintained > 0 {
		fmt.Fprintf(w, "  Warning:    %d feature(s) unmaintained\n", st.Unmaintained)
	}

	if len(st.Features) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Active features:")
		for _, f := range st.Features {
			fmt.Fprintf(w, "  - %s (popularity %.1f%%)\n", f.Name, f.PopularityMetric)
		}
	}
	if len(st.PlannedFeatures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "In development:")
		for _, f := range st.PlannedFeatures {
			fmt.Fprintf(w, "  - %s (%.1f / %.0f days)\n", f.Name, f.DevelopmentProgress, f.DevelopmentCostDays)
		}
	}
	if len(st.ConventionalBuffer) > 0 || len(st.AIBuffer) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Ideas: %s\n", strings.Join(st.ConventionalBuffer, ", "))
		fmt.Fprintf(w, "AI ideas: %s\n", strings.Join(st.AIBuffer, ", "))
	}
}

func printBreakdown(w io.Writer, b valuation.Breakdown, market valuation.MarketCondition) {
	fmt.Fprintf(w, "  Annual revenue:         %s\n", money(b.AnnualRevenue))
	fmt.Fprintf(w, "  Annual cost:            %s\n", money(b.AnnualCost))
	fmt.Fprintf(w, "  Profit:                 %s\n", money(b.Profit))
	fmt.Fprintf(w, "  P/E ratio:              %g\n", b.PERatio)
	fmt.Fprintf(w, "  Market multiplier:      x%g (%s)\n", b.MarketMultiplier, market)
	fmt.Fprintf(w, "  Popularity multiplier:  x%.4f\n", b.PopularityMultiplier)
	fmt.Fprintf(w, "  Valuation:              %s\n", money(b.Valuation))
}
