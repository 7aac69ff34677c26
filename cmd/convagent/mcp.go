package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the built-in tools over MCP stdio",
	Long: `Serve the built-in conversion tools to MCP clients over stdio.

No chat backend is needed. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := newLogger(cfg, os.Stderr)

		return mcp.ServeStdio(buildRegistry(cfg),
			mcp.WithName("convagent"),
			mcp.WithVersion(version),
			mcp.WithLogger(log),
		)
	},
}
