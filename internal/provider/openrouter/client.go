// Package openrouter adapts any OpenAI-compatible chat endpoint, OpenRouter
// by default, to convagent.ChatProvider using the go-openai client.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"

	"github.com/sashabaranov/go-openai"

	ai "github.com/spetersoncode/convagent"
)

const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is used when neither the client nor the request names a model.
	DefaultModel = "google/gemini-flash-1.5"
)

// Client implements ai.ChatProvider over an OpenAI-compatible API.
type Client struct {
	client *openai.Client
	model  string
}

// ClientOption configures the client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := clientConfig{model: DefaultModel, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = cfg.baseURL
	return &Client{client: openai.NewClientWithConfig(config), model: cfg.model}
}

// Model returns the client's default model.
func (c *Client) Model() string { return c.model }

func (c *Client) request(messages []ai.Message, opts []ai.Option) openai.ChatCompletionRequest {
	options := ai.ApplyOptions(opts...)
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: convertMessages(messages),
	}
	if options.Model != "" {
		req.Model = options.Model
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.Temperature != nil {
		req.Temperature = float32(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		req.Tools = convertTools(options.Tools)
		req.ToolChoice = "auto"
	}
	return req
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages, opts))
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: ai.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Tool call fragments are merged by index and delivered on the final event.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	req := c.request(messages, opts)
	req.Stream = true
	req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, wrapError(err)
	}

	ch := make(chan ai.StreamEvent)
	send := func(ev ai.StreamEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)
		defer stream.Close()

		resp := &ai.Response{}
		calls := make(map[int]*ai.ToolCall)
		var content []byte

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}
			if chunk.Usage != nil {
				resp.Usage = ai.Usage{
					InputTokens:  chunk.Usage.PromptTokens,
					OutputTokens: chunk.Usage.CompletionTokens,
				}
			}
			if len(chunk.Choices) == 0 {
				continue
			}

			choice := chunk.Choices[0]
			if choice.FinishReason != "" {
				resp.FinishReason = string(choice.FinishReason)
			}
			if d := choice.Delta.Content; d != "" {
				content = append(content, d...)
				if !send(ai.StreamEvent{Delta: d}) {
					return
				}
			}
			mergeToolCallDeltas(calls, choice.Delta.ToolCalls)
		}

		resp.Content = string(content)
		resp.ToolCalls = orderedToolCalls(calls)
		send(ai.StreamEvent{Done: true, Response: resp})
	}()

	return ch, nil
}

func mergeToolCallDeltas(calls map[int]*ai.ToolCall, deltas []openai.ToolCall) {
	for i, tc := range deltas {
		idx := i
		if tc.Index != nil {
			idx = *tc.Index
		}
		existing, ok := calls[idx]
		if !ok {
			calls[idx] = &ai.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments}
			continue
		}
		existing.Arguments += tc.Function.Arguments
		if tc.Function.Name != "" {
			existing.Name = tc.Function.Name
		}
		if tc.ID != "" {
			existing.ID = tc.ID
		}
	}
}

func orderedToolCalls(calls map[int]*ai.ToolCall) []ai.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	indices := make([]int, 0, len(calls))
	for idx := range calls {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	result := make([]ai.ToolCall, 0, len(indices))
	for _, idx := range indices {
		result = append(result, *calls[idx])
	}
	return result
}

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == ai.RoleAssistant && msg.Content == "" && len(msg.ToolCalls) == 0 {
			continue
		}
		m := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			args := tc.Arguments
			if args == "" {
				args = "{}"
			}
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		result = append(result, m)
	}
	return result
}

func convertTools(tools []ai.Tool) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		var params any = json.RawMessage(`{"type":"object","properties":{}}`)
		if len(t.Parameters) > 0 {
			params = t.Parameters
		}
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

func extractToolCalls(calls []openai.ToolCall) []ai.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]ai.ToolCall, len(calls))
	for i, tc := range calls {
		result[i] = ai.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments}
	}
	return result
}

// wrapError categorizes API and HTTP errors by status code.
func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return ai.NewStatusError(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return ai.NewStatusError(reqErr.HTTPStatusCode, err)
	}
	return err
}

var _ ai.ChatProvider = (*Client)(nil)
