// Package ollama adapts a local Ollama server to convagent.ChatProvider
// through langchaingo's llms abstraction.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	ai "github.com/spetersoncode/convagent"
)

const (
	// DefaultServerURL is where a local Ollama listens by default.
	DefaultServerURL = "http://localhost:11434"
	// DefaultModel is used when no model is configured.
	DefaultModel = "llama3.1"
)

// Client implements ai.ChatProvider over any langchaingo llms.Model.
type Client struct {
	llm   llms.Model
	model string
}

// ClientOption configures the client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model     string
	serverURL string
}

// WithModel sets the Ollama model name.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithServerURL sets the Ollama server address.
func WithServerURL(url string) ClientOption {
	return func(c *clientConfig) {
		if url != "" {
			c.serverURL = url
		}
	}
}

// New connects to an Ollama server.
func New(opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{model: DefaultModel, serverURL: DefaultServerURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	llm, err := ollama.New(ollama.WithModel(cfg.model), ollama.WithServerURL(cfg.serverURL))
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return &Client{llm: llm, model: cfg.model}, nil
}

// NewWithModel wraps an existing llms.Model.
func NewWithModel(llm llms.Model, model string) *Client {
	return &Client{llm: llm, model: model}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, err := c.llm.GenerateContent(ctx, convertMessages(messages), callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return toResponse(resp)
}

// ChatStream runs the generation in the background and relays each
// streamed chunk as a delta. The final event carries the full response.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	ch := make(chan ai.StreamEvent)
	send := func(ev ai.StreamEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	callOpts := append(callOptions(opts), llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		if !send(ai.StreamEvent{Delta: string(chunk)}) {
			return ctx.Err()
		}
		return nil
	}))

	go func() {
		defer close(ch)
		resp, err := c.llm.GenerateContent(ctx, convertMessages(messages), callOpts...)
		if err != nil {
			send(ai.StreamEvent{Err: err})
			return
		}
		out, err := toResponse(resp)
		if err != nil {
			send(ai.StreamEvent{Err: err})
			return
		}
		send(ai.StreamEvent{Done: true, Response: out})
	}()

	return ch, nil
}

func callOptions(opts []ai.Option) []llms.CallOption {
	options := ai.ApplyOptions(opts...)
	var out []llms.CallOption
	if options.Model != "" {
		out = append(out, llms.WithModel(options.Model))
	}
	if options.MaxTokens > 0 {
		out = append(out, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Temperature != nil {
		out = append(out, llms.WithTemperature(*options.Temperature))
	}
	if len(options.Tools) > 0 {
		out = append(out, llms.WithTools(convertTools(options.Tools)))
	}
	return out
}

func convertMessages(messages []ai.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			result = append(result, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case ai.RoleAssistant:
			if msg.Content == "" && len(msg.ToolCalls) == 0 {
				continue
			}
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			result = append(result, mc)
		case ai.RoleTool:
			result = append(result, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.Name,
					Content:    msg.Content,
				}},
			})
		default:
			result = append(result, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		}
	}
	return result
}

func convertTools(tools []ai.Tool) []llms.Tool {
	result := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		var params map[string]any
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &params); err != nil {
				params = nil
			}
		}
		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

func toResponse(resp *llms.ContentResponse) (*ai.Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ai.ErrEmptyResponse
	}
	choice := resp.Choices[0]
	out := &ai.Response{
		Content:      choice.Content,
		FinishReason: choice.StopReason,
	}
	for i, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d_%s", i, tc.FunctionCall.Name)
		}
		args := tc.FunctionCall.Arguments
		if args == "" {
			args = "{}"
		}
		out.ToolCalls = append(out.ToolCalls, ai.ToolCall{ID: id, Name: tc.FunctionCall.Name, Arguments: args})
	}
	if info := choice.GenerationInfo; info != nil {
		out.Usage = ai.Usage{InputTokens: intOf(info["PromptTokens"]), OutputTokens: intOf(info["CompletionTokens"])}
	}
	return out, nil
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

var _ ai.ChatProvider = (*Client)(nil)
