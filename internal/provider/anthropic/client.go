package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/spetersoncode/convagent"
)

// DefaultModel is used when neither the client nor the request names a model.
const DefaultModel = "claude-3-5-haiku-latest"

// defaultMaxTokens is required by the Messages API.
const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the client's default model.
func (c *Client) Model() string { return c.model }

func (c *Client) params(messages []ai.Message, opts []ai.Option) anthropic.MessageNewParams {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, err := c.client.Messages.New(ctx, c.params(messages, opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return toResponse(resp), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	stream := c.client.Messages.NewStreaming(ctx, c.params(messages, opts))
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
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			if err := acc.Accumulate(event); err != nil {
				send(ai.StreamEvent{Err: err})
				return
			}

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if text := delta.Delta.AsTextDelta(); text.Type == "text_delta" && text.Text != "" {
					if !send(ai.StreamEvent{Delta: text.Text}) {
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ai.StreamEvent{Err: wrapError(err)})
			return
		}

		send(ai.StreamEvent{Done: true, Response: toResponse(&acc)})
	}()

	return ch, nil
}

func toResponse(msg *anthropic.Message) *ai.Response {
	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	return &ai.Response{
		Content:      content.String(),
		FinishReason: string(msg.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		ToolCalls: extractToolCalls(msg.Content),
	}
}

var _ ai.ChatProvider = (*Client)(nil)
