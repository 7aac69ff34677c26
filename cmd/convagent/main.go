// Command convagent runs the unit and currency conversion agent.
//
// Configuration comes from the environment, an optional .env file and an
// optional YAML file (--config or CONVAGENT_CONFIG):
//
//	MODEL_PROVIDER       - google-genai (default), openai, anthropic, openrouter or ollama
//	MODEL                - model name (default: gemini-1.5-flash)
//	HOST, PORT           - listen address for serve (default: 0.0.0.0:8000)
//	FREECURRENCY_API_KEY - enables live exchange rates
//	GOOGLE_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY
//
// Usage:
//
//	convagent serve
//	convagent ask "how many miles is 10 km?"
//	convagent mcp
//	convagent tools
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "convagent",
	Short:         "Conversion agent for units, currencies and calculations",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides $CONVAGENT_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
