// Package mcp exposes a convagent tool registry over the Model Context Protocol,
// so MCP clients such as desktop assistants can call the conversion tools directly.
//
//	registry := toolset.New(toolset.Config{Rates: rates})
//	if err := mcp.ServeStdio(registry, mcp.WithName("convagent")); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/convagent"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ToMCPTool converts a Tool to an MCP Tool, using its JSON schema as the raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = emptyObjectSchema
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// ToMCPCallToolResult converts a ToolResult to an MCP CallToolResult.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
