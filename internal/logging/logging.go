// Package logging builds the service's zerolog logger through httplog so the
// request middleware and application code share one configuration.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
)

// ServiceName tags every log line.
const ServiceName = "ai-agent-backend"

// Options configures New.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Unknown values fall back to info.
	Level string

	// JSON switches from console output to one JSON object per line.
	JSON bool

	// Output overrides the destination. The mcp command logs to stderr
	// because stdout carries the protocol.
	Output io.Writer
}

// New returns a logger for the service.
func New(opts Options) zerolog.Logger {
	level := normalizeLevel(opts.Level)
	l := httplog.NewLogger(ServiceName, httplog.Options{
		LogLevel: level,
		JSON:     opts.JSON,
		Concise:  !opts.JSON,
	})
	if opts.Output != nil {
		var w io.Writer = opts.Output
		if !opts.JSON {
			w = zerolog.ConsoleWriter{Out: opts.Output, TimeFormat: time.Kitchen}
		}
		l = l.Output(w)
	}
	return l
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	if _, err := zerolog.ParseLevel(level); err != nil || level == "" {
		return "info"
	}
	return level
}
