package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/pathutil"
	"github.com/nvandessel/corpsim/internal/session"
	"github.com/nvandessel/corpsim/internal/world"
)

// simulateResult is the JSON form of a finished simulate command.
type simulateResult struct {
	Planned  []string        `json:"planned"`
	Launched []string        `json:"launched"`
	Days     int             `json:"days"`
	Status   *session.Status `json:"status"`
}

func newSimulateCmd() *cobra.Command {
	var (
		sc       scenario
		interval time.Duration
		live     bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Onboard a company and run it day by day",
		Long: `Onboard a company, plan features into development and advance the world.

By default the days are simulated back to back. With --live (or an explicit
--interval) one day passes per tick of the wall clock until the day budget
is spent or the command is interrupted; --days 0 runs until Ctrl-C.

Examples:
  corpsim simulate --topic "pet grooming" --features 3 --days 90
  corpsim simulate --topic "space tourism" --ai-features 2 --live
  corpsim simulate --interval 200ms --days 0 --output status.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sc.validate(); err != nil {
				return err
			}
			if interval < 0 {
				return fmt.Errorf("--interval must be non-negative, got %v", interval)
			}
			if output != "" {
				p, err := pathutil.ExpandHome(output)
				if err != nil {
					return fmt.Errorf("--output: %w", err)
				}
				output = p
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			planned, err := sc.start(ctx, a.session)
			if err != nil {
				return err
			}

			if live && interval == 0 {
				interval = a.cfg.Simulation.TickInterval
			}

			var reports []world.DayReport
			if interval > 0 {
				reports, err = runLive(ctx, cmd, a.session, sc.days, interval, output)
			} else {
				reports, err = a.session.Simulate(ctx, sc.days)
			}
			if err != nil {
				return err
			}

			st, err := a.session.Status()
			if err != nil {
				return err
			}
			if output != "" {
				if err := session.WriteStatus(output, st); err != nil {
					return err
				}
			}

			result := simulateResult{
				Planned:  nonNil(planned),
				Launched: launched(reports, st.CompanyID),
				Days:     len(reports),
				Status:   st,
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			printStatus(out, st)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Simulated %d day(s); planned %d feature(s), launched %d.\n",
				result.Days, len(result.Planned), len(result.Launched))
			return nil
		},
	}

	addScenarioFlags(cmd, &sc, 30)
	cmd.Flags().DurationVar(&interval, "interval", 0, "Wall-clock time per simulated day (0 simulates immediately)")
	cmd.Flags().BoolVar(&live, "live", false, "Tick at simulation.tick_interval")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the status snapshot to this JSON file after every day")

	return cmd
}

// runLive ticks the session every interval until days have passed (forever
// when days is 0) or the process is interrupted.
func runLive(ctx context.Context, cmd *cobra.Command, s *session.Session, days int, interval time.Duration, output string) ([]world.DayReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	progress := cmd.ErrOrStderr()
	if jsonOutput(cmd) {
		progress = io.Discard
	}

	var reports []world.DayReport
	var writeErr error
	err := s.Run(ctx, interval, func(r world.DayReport) {
		reports = append(reports, r)
		if output != "" {
			if st, err := s.Status(); err == nil {
				if err := session.WriteStatus(output, st); err != nil && writeErr == nil {
					writeErr = err
					cancel()
				}
			}
		}
		printDay(progress, r)
		if days > 0 && len(reports) >= days {
			cancel()
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return reports, err
	}
	return reports, writeErr
}

func printDay(w io.Writer, r world.DayReport) {
	for _, cd := range r.Companies {
		line := fmt.Sprintf("%s  users %s  assets %s", r.Date.Format(time.DateOnly), count(cd.Users), money(cd.FinancialAssets))
		if r.Weekend {
			line += "  (weekend)"
		}
		if cd.Settlement != nil {
			line += "  settled " + money(cd.Settlement.Net)
		}
		for _, name := range cd.Development.Completed {
			line += "  launched " + name
		}
		fmt.Fprintln(w, line)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
