package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/tool"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their parameter schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return writeTools(cmd.OutOrStdout(), buildRegistry(cfg))
	},
}

func writeTools(w io.Writer, reg *tool.Registry) error {
	for _, t := range reg.Tools() {
		fmt.Fprintf(w, "%s\n  %s\n", toolStyle.Render(t.Name), t.Description)

		var schema bytes.Buffer
		if err := json.Indent(&schema, t.Parameters, "  ", "  "); err != nil {
			return fmt.Errorf("tool %s: %w", t.Name, err)
		}
		fmt.Fprintf(w, "  %s\n\n", schema.String())
	}
	return nil
}
