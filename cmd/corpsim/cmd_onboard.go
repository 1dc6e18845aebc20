package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newOnboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard <topic>",
		Short: "Invent a company inspired by a topic",
		Long: `Ask the idea generator for a company, its service and a launch roadmap.

Nothing is simulated; use this to preview what a topic produces.

Examples:
  corpsim onboard "pet grooming"
  corpsim onboard "urban beekeeping" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.session.Onboard(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, st)
			}
			out := cmd.OutOrStdout()
			printStatus(out, st)
			if len(st.ConventionalBuffer) == 0 {
				fmt.Fprintln(out, "\nNo launch features were suggested.")
			}
			return nil
		},
	}
}
