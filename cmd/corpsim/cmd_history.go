package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/store"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show journaled runs and their days",
		Long: `List the runs recorded in the journal, or the days of one run.

Examples:
  corpsim history                  # All runs, oldest first
  corpsim history <run-id> -n 10   # Last 10 days of a run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("the journal is disabled (corpsim config set journal.enabled true)")
			}
			journal, err := openJournal(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer journal.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				runs, err := journal.ListRuns(ctx)
				if err != nil {
					return err
				}
				runs = lastN(runs, limit)
				if jsonOutput(cmd) {
					return writeJSON(cmd, map[string]interface{}{"runs": runs, "count": len(runs)})
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet.")
					return nil
				}
				for _, r := range runs {
					fmt.Fprintf(out, "%s  %s  %s (%s)", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.CompanyName, r.ServiceName)
					if r.Topic != "" {
						fmt.Fprintf(out, "  topic %q", r.Topic)
					}
					fmt.Fprintln(out)
				}
				return nil
			}

			days, err := journal.ListDays(ctx, args[0])
			if err != nil {
				return err
			}
			days = lastN(days, limit)
			if jsonOutput(cmd) {
				return writeJSON(cmd, map[string]interface{}{"run_id": args[0], "days": days, "count": len(days)})
			}
			if len(days) == 0 {
				fmt.Fprintf(out, "No days recorded for run %s.\n", args[0])
				return nil
			}
			for _, d := range days {
				printRecord(cmd, d)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 30, "Show at most this many of the most recent entries (0 for all)")
	return cmd
}

func printRecord(cmd *cobra.Command, d store.DayRecord) {
	line := fmt.Sprintf("%s  users %s  assets %s  valuation %s",
		d.Date.Format(time.DateOnly), count(d.Users), money(d.FinancialAssets), money(d.Valuation))
	if d.Settled {
		line += fmt.Sprintf("  settled %s", money(d.Revenue-d.Salaries-d.HostingCosts))
	}
	for _, name := range d.Completed {
		line += "  launched " + name
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

// lastN keeps the final n entries of s; n == 0 keeps everything.
func lastN[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
