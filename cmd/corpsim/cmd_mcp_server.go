package main

import (
	"github.com/spf13/cobra"

	"github.com/nvandessel/corpsim/internal/mcp"
	"github.com/nvandessel/corpsim/internal/store"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the simulation to an agent over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout.

The agent can onboard a company, plan features, advance days, read the
valuation breakdown, render a logo and browse the journal. Tool calls are
rate limited and audited to ~/.corpsim/audit.jsonl.

Register it with an MCP client, for example:
  {"mcpServers": {"corpsim": {"command": "corpsim", "args": ["mcp-server"]}}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			auditDir, _ := store.GlobalCorpsimPath()
			server, err := mcp.NewServer(&mcp.Config{
				Name:     "corpsim",
				Version:  version,
				Session:  a.session,
				Journal:  a.journal,
				AuditDir: auditDir,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}
}
