package google

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/convagent"
)

// convertMessages splits the history into Gemini's system instruction and
// contents. Consecutive tool messages are merged into one user content so
// that all function responses of a turn travel together.
func convertMessages(messages []ai.Message) (*genai.Content, []*genai.Content) {
	var (
		system   *genai.Content
		contents []*genai.Content
	)

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if msg.Content == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})

		case ai.RoleTool:
			part := &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.Name,
				Response: functionResponse(msg.Content),
			}}
			if n := len(contents); n > 0 && isFunctionResponses(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})

		case ai.RoleAssistant:
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args, _ := tc.Args()
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: args,
				}})
			}
			if len(parts) > 0 {
				contents = append(contents, &genai.Content{Role: "model", Parts: parts})
			}

		default:
			if msg.Content != "" {
				contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
			}
		}
	}

	return system, contents
}

func isFunctionResponses(c *genai.Content) bool {
	if c.Role != "user" || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

// functionResponse uses a JSON object result as is and wraps anything else.
func functionResponse(content string) map[string]any {
	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil || result == nil {
		result = map[string]any{"result": content}
	}
	return result
}

// extractToolCalls converts function calls into tool calls. Gemini may omit
// call ids, in which case one is derived from the position and name.
func extractToolCalls(parts []*genai.Part) []ai.ToolCall {
	var calls []ai.ToolCall
	for i, part := range parts {
		if part.FunctionCall == nil {
			continue
		}
		args, _ := json.Marshal(part.FunctionCall.Args)
		if part.FunctionCall.Args == nil {
			args = []byte("{}")
		}
		id := part.FunctionCall.ID
		if id == "" {
			id = fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name)
		}
		calls = append(calls, ai.ToolCall{
			ID:        id,
			Name:      part.FunctionCall.Name,
			Arguments: string(args),
		})
	}
	return calls
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
