package openai

import (
	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/convagent"
)

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content != "" {
				result = append(result, openai.SystemMessage(msg.Content))
			}
		case ai.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				// The loop records empty assistant turns; the API rejects them.
				if msg.Content != "" {
					result = append(result, openai.AssistantMessage(msg.Content))
				}
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				calls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: argumentsOrEmpty(tc.Arguments),
					},
				}
			}
			assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case ai.RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func argumentsOrEmpty(args string) string {
	if args == "" {
		return "{}"
	}
	return args
}

func extractToolCalls(toolCalls []openai.ChatCompletionMessageToolCall) []ai.ToolCall {
	if len(toolCalls) == 0 {
		return nil
	}
	result := make([]ai.ToolCall, len(toolCalls))
	for i, tc := range toolCalls {
		result[i] = ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return result
}
