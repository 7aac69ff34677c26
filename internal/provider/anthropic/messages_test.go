package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/convagent"
)

func TestConvertMessages(t *testing.T) {
	c1 := ai.ToolCall{ID: "toolu_1", Name: "convert_weight", Arguments: `{"value":1,"from_unit":"kg","to_unit":"lbs"}`}
	c2 := ai.ToolCall{ID: "toolu_2", Name: "get_supported_currencies"}

	msgs, system := convertMessages([]ai.Message{
		ai.NewSystemMessage("sys"),
		ai.NewUserMessage("1 kg in lbs and currencies"),
		ai.NewAssistantMessage("Let me check.", []ai.ToolCall{c1, c2}),
		ai.NewToolMessage(c1, "2.20462"),
		ai.NewToolMessage(c2, "list"),
		ai.NewAssistantMessage("", nil),
		ai.NewAssistantMessage("Done.", nil),
	})

	require.Len(t, system, 1)
	assert.Equal(t, "sys", system[0].Text)

	require.Len(t, msgs, 4)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)

	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	require.Len(t, msgs[1].Content, 3)
	require.NotNil(t, msgs[1].Content[1].OfToolUse)
	assert.Equal(t, "toolu_1", msgs[1].Content[1].OfToolUse.ID)
	assert.Equal(t, map[string]any{}, msgs[1].Content[2].OfToolUse.Input)

	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	require.Len(t, msgs[2].Content, 2, "tool results share one user turn")
	assert.Equal(t, "toolu_1", msgs[2].Content[0].OfToolResult.ToolUseID)
	assert.Equal(t, "toolu_2", msgs[2].Content[1].OfToolResult.ToolUseID)

	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[3].Role)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]ai.Tool{{
		Name:        "calculator",
		Description: "Evaluate",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"expression":{"type":"string"}},"required":["expression"]}`),
	}})
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].OfTool)
	assert.Equal(t, "calculator", tools[0].OfTool.Name)
	assert.Equal(t, []string{"expression"}, tools[0].OfTool.InputSchema.Required)
}

func TestExtractToolCalls(t *testing.T) {
	var msg anthropic.Message
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
		"stop_reason": "tool_use",
		"content": [
			{"type": "text", "text": "Checking"},
			{"type": "tool_use", "id": "toolu_7", "name": "calculator", "input": {"expression": "3*3"}}
		],
		"usage": {"input_tokens": 5, "output_tokens": 2}
	}`), &msg))

	resp := toResponse(&msg)
	assert.Equal(t, "Checking", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_7", resp.ToolCalls[0].ID)
	assert.JSONEq(t, `{"expression":"3*3"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, 5, resp.Usage.InputTokens)
}
