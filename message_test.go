package convagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("system"), RoleSystem)
	assert.Equal(t, Role("tool"), RoleTool)
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: RoleSystem, Content: "be precise"}, NewSystemMessage("be precise"))
	assert.Equal(t, Message{Role: RoleUser, Content: "10 km in miles"}, NewUserMessage("10 km in miles"))

	calls := []ToolCall{{ID: "call_1", Name: "convert_distance", Arguments: `{"value":10}`}}
	msg := NewAssistantMessage("", calls)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Empty(t, msg.Content)
	assert.Equal(t, calls, msg.ToolCalls)
}

func TestNewToolMessage(t *testing.T) {
	call := ToolCall{ID: "call_9", Name: "calculator", Arguments: `{"expression":"2+2"}`}

	msg := NewToolMessage(call, "4")

	assert.Equal(t, RoleTool, msg.Role)
	assert.Equal(t, "4", msg.Content)
	assert.Equal(t, "call_9", msg.ToolCallID)
	assert.Equal(t, "calculator", msg.Name)
}

func TestToolCallArgs(t *testing.T) {
	t.Run("decodes object", func(t *testing.T) {
		args, err := ToolCall{Name: "convert_weight", Arguments: `{"value":1,"from_unit":"kg"}`}.Args()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": float64(1), "from_unit": "kg"}, args)
	})

	t.Run("empty arguments", func(t *testing.T) {
		args, err := ToolCall{Name: "get_supported_currencies"}.Args()
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("malformed arguments", func(t *testing.T) {
		_, err := ToolCall{Name: "calculator", Arguments: `{"expression":`}.Args()
		assert.ErrorContains(t, err, "calculator")
	})
}

func TestResponseHasToolCalls(t *testing.T) {
	var nilResp *Response
	assert.False(t, nilResp.HasToolCalls())
	assert.False(t, (&Response{Content: "done"}).HasToolCalls())
	assert.True(t, (&Response{ToolCalls: []ToolCall{{ID: "1"}}}).HasToolCalls())
}
