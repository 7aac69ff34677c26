package google

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	ai "github.com/spetersoncode/convagent"
)

func TestConvertMessages(t *testing.T) {
	call1 := ai.ToolCall{ID: "c1", Name: "convert_distance", Arguments: `{"value":10,"from_unit":"km","to_unit":"miles"}`}
	call2 := ai.ToolCall{ID: "c2", Name: "calculator", Arguments: `{"expression":"1+1"}`}

	system, contents := convertMessages([]ai.Message{
		ai.NewSystemMessage("be precise"),
		ai.NewUserMessage("10 km?"),
		ai.NewAssistantMessage("", []ai.ToolCall{call1, call2}),
		ai.NewToolMessage(call1, "6.21371"),
		ai.NewToolMessage(call2, `{"value":2}`),
		ai.NewAssistantMessage("About 6.2 miles.", nil),
	})

	require.NotNil(t, system)
	require.Len(t, system.Parts, 1)
	assert.Equal(t, "be precise", system.Parts[0].Text)

	require.Len(t, contents, 4)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "10 km?", contents[0].Parts[0].Text)

	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[1].Parts, 2)
	fc := contents[1].Parts[0].FunctionCall
	require.NotNil(t, fc)
	assert.Equal(t, "c1", fc.ID)
	assert.Equal(t, "convert_distance", fc.Name)
	assert.Equal(t, map[string]any{"value": float64(10), "from_unit": "km", "to_unit": "miles"}, fc.Args)

	// both responses merged into a single user content
	assert.Equal(t, "user", contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	fr := contents[2].Parts[0].FunctionResponse
	assert.Equal(t, "convert_distance", fr.Name)
	assert.Equal(t, "c1", fr.ID)
	assert.Equal(t, map[string]any{"result": "6.21371"}, fr.Response)
	assert.Equal(t, map[string]any{"value": float64(2)}, contents[2].Parts[1].FunctionResponse.Response)

	assert.Equal(t, "model", contents[3].Role)
	assert.Equal(t, "About 6.2 miles.", contents[3].Parts[0].Text)
}

func TestConvertMessages_NoSystem(t *testing.T) {
	system, contents := convertMessages([]ai.Message{ai.NewUserMessage("hi")})
	assert.Nil(t, system)
	assert.Len(t, contents, 1)
}

func TestExtractToolCalls(t *testing.T) {
	parts := []*genai.Part{
		{Text: "thinking"},
		{FunctionCall: &genai.FunctionCall{Name: "calculator", Args: map[string]any{"expression": "2^3"}}},
		{FunctionCall: &genai.FunctionCall{ID: "given", Name: "get_supported_currencies"}},
	}

	calls := extractToolCalls(parts)
	require.Len(t, calls, 2)
	assert.Equal(t, "call_1_calculator", calls[0].ID)
	assert.JSONEq(t, `{"expression":"2^3"}`, calls[0].Arguments)
	assert.Equal(t, "given", calls[1].ID)
	assert.Equal(t, "{}", calls[1].Arguments)
}

func TestConvertSchema(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"value": {"type": "number", "description": "The value"},
			"from_unit": {"type": "string", "enum": ["km", "miles"]}
		},
		"required": ["value", "from_unit"]
	}`)

	s := convertSchema(raw)
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["value"].Type)
	assert.Equal(t, "The value", s.Properties["value"].Description)
	assert.Equal(t, []string{"km", "miles"}, s.Properties["from_unit"].Enum)
	assert.Equal(t, []string{"value", "from_unit"}, s.Required)

	assert.Nil(t, convertSchema(nil))
}

func TestWrapError(t *testing.T) {
	err := wrapError(genai.APIError{Code: 429, Message: "quota"})
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 429, ai.StatusCodeOf(err))

	err = wrapError(genai.APIError{Code: 401, Message: "bad key"})
	assert.True(t, ai.IsPermanent(err))

	plain := errors.New("dial tcp")
	assert.Same(t, plain, wrapError(plain))
	assert.Nil(t, wrapError(nil))
}
