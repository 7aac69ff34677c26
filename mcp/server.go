package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  zerolog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger logs each tool call. Stdio servers must log to stderr.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.logger = l
	}
}

// NewServer creates an MCP server that exposes every tool in the registry.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "convagent",
		version: "1.0.0",
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
	)

	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), callHandler(registry, t.Name, cfg.logger))
	}

	return s
}

// callHandler routes an MCP call through Registry.Execute so handler
// failures reach the client as error results rather than protocol errors.
func callHandler(registry *tool.Registry, name string, logger zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			args = string(data)
		}

		call := ai.ToolCall{ID: "mcp_" + uuid.NewString(), Name: name, Arguments: args}
		result, err := registry.Execute(ctx, call)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		logger.Debug().Str("tool", name).Bool("error", result.IsError).Msg("mcp tool call")
		return ToMCPCallToolResult(result), nil
	}
}

// ServeStdio serves the registry over stdin/stdout until the input closes.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
