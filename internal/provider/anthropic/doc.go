// Package anthropic adapts the Anthropic Messages API to [convagent.ChatProvider].
//
// System messages are sent as the request's system blocks, and consecutive
// tool messages are grouped into a single user turn of tool_result blocks,
// which the API requires after an assistant turn with tool_use blocks.
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"),
//	    anthropic.WithModel("claude-3-5-haiku-latest"))
package anthropic
