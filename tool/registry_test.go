package tool

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	ai "github.com/spetersoncode/convagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type distanceArgs struct {
	Value    float64 `json:"value" desc:"Value to convert" required:"true"`
	FromUnit string  `json:"from_unit" enum:"km,miles" required:"true"`
}

type exprArgs struct {
	Expression string `json:"expression" required:"true"`
}

func echoDistance(ctx context.Context, args distanceArgs) (string, error) {
	return args.FromUnit, nil
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers single tool with Func", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("convert_distance", "Convert distance", echoDistance),
		)

		assert.Equal(t, 1, registry.Len())
		tools := registry.Tools()
		require.Len(t, tools, 1)
		assert.Equal(t, "convert_distance", tools[0].Name)
		assert.Equal(t, "Convert distance", tools[0].Description)
	})

	t.Run("keeps registration order", func(t *testing.T) {
		registry := NewRegistry().
			Add(Func("convert_weight", "w", echoDistance)).
			Add(Func("convert_distance", "d", echoDistance), Func("calculator", "c",
				func(ctx context.Context, args exprArgs) (string, error) { return "", nil }))

		assert.Equal(t, []string{"convert_weight", "convert_distance", "calculator"}, registry.Names())

		tools := registry.Tools()
		require.Len(t, tools, 3)
		assert.Equal(t, "calculator", tools[2].Name)
	})

	t.Run("panics on duplicate tool name", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRegistry().Add(
				Func("dupe", "First", echoDistance),
				Func("dupe", "Duplicate", echoDistance),
			)
		})
	})

	t.Run("Register reports duplicates", func(t *testing.T) {
		registry := NewRegistry()
		reg := Func("dupe", "First", echoDistance)
		require.NoError(t, registry.Register(reg.Tool, reg.Handler))

		err := registry.Register(reg.Tool, reg.Handler)
		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "dupe", dup.Name)
	})
}

func TestFunc(t *testing.T) {
	t.Run("generates schema from struct tags", func(t *testing.T) {
		reg := Func("convert_distance", "Convert distance", echoDistance)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(reg.Tool.Parameters, &schema))
		props := schema["properties"].(map[string]any)
		assert.Equal(t, []any{"km", "miles"}, props["from_unit"].(map[string]any)["enum"])
		assert.Equal(t, []any{"value", "from_unit"}, schema["required"])
	})

	t.Run("handler unmarshals arguments", func(t *testing.T) {
		reg := Func("convert_distance", "d", echoDistance)

		result, err := reg.Handler(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      "convert_distance",
			Arguments: `{"value": 10, "from_unit": "km"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "km", result)
	})

	t.Run("handler accepts empty arguments", func(t *testing.T) {
		reg := Func("list", "l", func(ctx context.Context, args struct{}) (string, error) {
			return "ok", nil
		})

		result, err := reg.Handler(context.Background(), ai.ToolCall{Name: "list"})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	})

	t.Run("handler returns ErrInvalidArguments on invalid JSON", func(t *testing.T) {
		reg := Func("convert_distance", "d", echoDistance)

		_, err := reg.Handler(context.Background(), ai.ToolCall{
			Name:      "convert_distance",
			Arguments: `{invalid json}`,
		})

		var invalid *ErrInvalidArguments
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "convert_distance", invalid.Name)
	})
}

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry().Add(
		Func("calculator", "Evaluate", func(ctx context.Context, args exprArgs) (string, error) {
			if args.Expression == "boom" {
				return "", errors.New("could not evaluate")
			}
			return "= " + args.Expression, nil
		}),
	)

	t.Run("success", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_123",
			Name:      "calculator",
			Arguments: `{"expression": "2+2"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, "call_123", result.ToolCallID)
		assert.Equal(t, "= 2+2", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("handler error becomes error result", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_124",
			Name:      "calculator",
			Arguments: `{"expression": "boom"}`,
		})

		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "could not evaluate", result.Content)
	})

	t.Run("panicking handler becomes error result", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("rates", "r", func(ctx context.Context, args struct{}) (string, error) {
				var cache map[string]float64
				cache["USD"] = 1
				return "", nil
			}),
		)

		var result ai.ToolResult
		var err error
		require.NotPanics(t, func() {
			result, err = registry.Execute(context.Background(), ai.ToolCall{ID: "call_125", Name: "rates"})
		})

		require.NoError(t, err)
		assert.Equal(t, "call_125", result.ToolCallID)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "tool rates panicked")
		assert.Contains(t, result.Content, "nil map")
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), ai.ToolCall{ID: "x", Name: "teleport"})

		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "tool: not found: teleport", err.Error())
	})
}

func TestRegistryConcurrentExecute(t *testing.T) {
	registry := NewRegistry().Add(Func("convert_distance", "d", echoDistance))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := registry.Execute(context.Background(), ai.ToolCall{
				Name:      "convert_distance",
				Arguments: `{"value": 1, "from_unit": "miles"}`,
			})
			assert.NoError(t, err)
			assert.Equal(t, "miles", result.Content)
		}()
	}
	wg.Wait()
}
