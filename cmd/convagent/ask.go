package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/convagent/agent"
	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/stream"
)

var (
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask one question and print the streamed answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := newLogger(cfg, os.Stderr)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := buildAgent(ctx, cfg, log, nil)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		return ask(ctx, cmd.OutOrStdout(), a.NewConversation(""), query)
	},
}

// ask prints content fragments as they arrive and one styled line per tool
// execution. The agent's failure, if any, is printed and returned.
func ask(ctx context.Context, w io.Writer, conv *agent.Conversation, query string) error {
	var (
		failure   error
		midstream bool
	)
	for ev := range conv.Ask(ctx, query) {
		switch ev.Type {
		case agent.EventContent:
			fmt.Fprint(w, ev.Delta)
			midstream = true
		case agent.EventToolResult:
			if midstream {
				fmt.Fprintln(w)
				midstream = false
			}
			fmt.Fprintln(w, renderTool(ev.Execution))
		case agent.EventError:
			if midstream {
				fmt.Fprintln(w)
				midstream = false
			}
			failure = ev.Err
			fmt.Fprintln(w, errorStyle.Render("error: "+ev.Err.Error()))
		}
	}
	if midstream {
		fmt.Fprintln(w)
	}
	return failure
}

func renderTool(exec *agent.ToolExecution) string {
	args := stream.OrderedArgs(exec)
	parts := make([]string, 0, args.Len())
	for pair := args.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, fmt.Sprintf("%s=%v", pair.Key, pair.Value))
	}
	call := fmt.Sprintf("%s(%s)", exec.Name, strings.Join(parts, ", "))
	return toolStyle.Render("▸ "+call) + " " + resultStyle.Render("→ "+exec.Result)
}
