package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/spetersoncode/convagent"
)

// DefaultModel is used when neither the client nor the request names a model.
const DefaultModel = "gpt-4o-mini"

// Client wraps the OpenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

// ClientOption configures the OpenAI client.
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

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(reqOpts...)
	return &Client{client: &client, model: cfg.model}
}

// Model returns the client's default model.
func (c *Client) Model() string { return c.model }

func (c *Client) params(messages []ai.Message, opts []ai.Option) openai.ChatCompletionNewParams {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(messages, opts))
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
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Tool call fragments are accumulated and delivered on the final event.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params := c.params(messages, opts)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
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
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !send(ai.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ai.StreamEvent{Err: wrapError(err)})
			return
		}
		if len(acc.Choices) == 0 {
			send(ai.StreamEvent{Err: ai.ErrEmptyResponse})
			return
		}

		completion := acc.Choices[0]
		send(ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      completion.Message.Content,
				FinishReason: string(completion.FinishReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.PromptTokens),
					OutputTokens: int(acc.Usage.CompletionTokens),
				},
				ToolCalls: extractToolCalls(completion.Message.ToolCalls),
			},
		})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
