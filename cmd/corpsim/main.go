package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corpsim",
		Short: "Corporate simulation - grow a startup one simulated day at a time",
		Long: `corpsim simulates a software company day by day.

An idea generator invents a company and its feature roadmap. You plan
features into development, engineers build and maintain them, users
sign up and churn, and the books settle at the end of every month.

Examples:
  corpsim onboard "pet grooming"
  corpsim simulate --topic "pet grooming" --features 3 --days 90
  corpsim simulate --topic "space tourism" --interval 200ms
  corpsim history`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadDotEnv()
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.corpsim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newOnboardCmd(),
		newSimulateCmd(),
		newValuationCmd(),
		newLogoCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}
