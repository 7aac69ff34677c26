package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/internal/server"
	"github.com/spetersoncode/convagent/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion stream over HTTP",
	Long: `Serve the conversion agent over HTTP.

Endpoints:
  GET  /api/v1/convert?query=...       server-sent events
  GET  /api/v1/ws?query=...            the same events over WebSocket
  GET  /api/v1/agui/convert?query=...  AG-UI events (POST accepts RunAgentInput)
  GET  /api/v1/health
  GET  /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := newLogger(cfg, nil)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rec := metrics.New()
		a, err := buildAgent(ctx, cfg, log, rec)
		if err != nil {
			return err
		}

		return server.New(a, rec, log).ListenAndServe(ctx, cfg.Addr())
	},
}
