package tool

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/spetersoncode/convagent"
)

type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// Tools can only be added, so a registry built at startup can be shared
// by concurrent conversations. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{tool: tool, handler: handler}
	r.order = append(r.order, tool.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Add registers one or more tools to the registry.
// Panics if any tool is already registered.
// Returns the registry for fluent chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}

// Tools returns all registered tool definitions in registration order.
// This is used to pass the tools to the ChatProvider.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Names returns the names of all registered tools in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for a tool call and returns a ToolResult.
// If the tool is not found, returns ErrToolNotFound.
// If the handler returns an error, the error is captured in ToolResult.IsError
// and the error message is returned as the content (allowing the model to recover).
// A panicking handler is reported the same way instead of unwinding the caller.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (result ai.ToolResult, err error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = ai.ToolResult{
				ToolCallID: call.ID,
				Content:    fmt.Sprintf("tool %s panicked: %v", call.Name, rec),
				IsError:    true,
			}
			err = nil
		}
	}()

	content, err := rt.handler(ctx, call)
	if err != nil {
		return ai.ToolResult{
			ToolCallID: call.ID,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}

	return ai.ToolResult{
		ToolCallID: call.ID,
		Content:    content,
	}, nil
}
