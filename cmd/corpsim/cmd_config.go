package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage corpsim configuration",
		Long: `View and modify corpsim configuration settings.

Configuration is stored in ~/.corpsim/config.yaml unless --config is given.
Environment variables (ANTHROPIC_API_KEY, REPLICATE_API_TOKEN, CORPSIM_*)
override the file when commands run but are never written back.

Examples:
  corpsim config list                            # Show all settings
  corpsim config get llm.provider                # Get a specific setting
  corpsim config set llm.provider anthropic      # Set a setting
  corpsim config set simulation.market shrinking`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				values := make(map[string]interface{}, len(config.Keys()))
				for _, key := range config.Keys() {
					values[key], _ = cfg.Get(key)
				}
				return writeJSON(cmd, values)
			}

			path, _ := configPath(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration (%s):\n\n", path)
			for _, key := range config.Keys() {
				value, _ := cfg.Get(key)
				fmt.Fprintf(out, "  %-38s %v\n", key+":", valueOrDefault(fmt.Sprint(value), "(not set)"))
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, found := cfg.Get(key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			path, err := configPath(cmd)
			if err != nil {
				return err
			}

			// Start from the file alone so environment overrides are not persisted.
			cfg := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				cfg, err = config.LoadFromFile(path)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			}

			if err := cfg.Set(key, value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			stored, _ := cfg.Get(key)
			if jsonOutput(cmd) {
				return writeJSON(cmd, map[string]interface{}{
					"key":   key,
					"value": stored,
					"saved": path,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, stored)
			return nil
		},
	}
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
