// Package google implements convagent.ChatProvider on the Gemini API.
package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/convagent"
)

// DefaultModel is used when neither the client nor the request names a model.
const DefaultModel = "gemini-1.5-flash"

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) prepare(messages []ai.Message, opts []ai.Option) (string, []*genai.Content, *genai.GenerateContentConfig) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	system, contents := convertMessages(messages)
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
	}
	return model, contents, config
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	model, contents, config := c.prepare(messages, opts)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	if len(resp.Candidates) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	cand := resp.Candidates[0]
	var parts []*genai.Part
	if cand.Content != nil {
		parts = cand.Content.Parts
	}
	return &ai.Response{
		Content:      textOf(parts),
		FinishReason: string(cand.FinishReason),
		Usage:        usageOf(resp.UsageMetadata),
		ToolCalls:    extractToolCalls(parts),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	model, contents, config := c.prepare(messages, opts)

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)

		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var (
			content      string
			finishReason string
			usage        ai.Usage
			allParts     []*genai.Part
			chunks       int
		)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			chunks++
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				send(ai.StreamEvent{Err: &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}})
				return
			}
			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					allParts = append(allParts, part)
					if part.Text != "" {
						content += part.Text
						if !send(ai.StreamEvent{Delta: part.Text}) {
							return
						}
					}
				}
				finishReason = string(resp.Candidates[0].FinishReason)
			}
			if resp.UsageMetadata != nil {
				usage = usageOf(resp.UsageMetadata)
			}
		}

		if chunks == 0 {
			send(ai.StreamEvent{Err: fmt.Errorf("google: stream returned no data: %w", ai.ErrEmptyResponse)})
			return
		}

		send(ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content,
				FinishReason: finishReason,
				Usage:        usage,
				ToolCalls:    extractToolCalls(allParts),
			},
		})
	}()

	return ch, nil
}

func textOf(parts []*genai.Part) string {
	var s string
	for _, p := range parts {
		if p.Text != "" {
			s += p.Text
		}
	}
	return s
}

func usageOf(md *genai.GenerateContentResponseUsageMetadata) ai.Usage {
	if md == nil {
		return ai.Usage{}
	}
	return ai.Usage{
		InputTokens:  int(md.PromptTokenCount),
		OutputTokens: int(md.CandidatesTokenCount),
	}
}

var _ ai.ChatProvider = (*Client)(nil)
