package tool

import (
	"context"
	"encoding/json"

	ai "github.com/spetersoncode/convagent"
)

// Handler is a function that executes a tool call and returns a result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is automatically unmarshaled from the tool call's JSON arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration with automatic schema generation from the typed handler.
// Panics if schema generation fails.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  ai.MustSchemaFor[T](),
		},
		Handler: typed(name, fn),
	}
}

func typed[T any](name string, fn TypedHandler[T]) Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", &ErrInvalidArguments{Name: name, Err: err}
			}
		}
		return fn(ctx, args)
	}
}
