package ollama

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	ai "github.com/spetersoncode/convagent"
)

type fakeModel struct {
	chunks   []string
	resp     *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.opts.StreamingFunc != nil {
		for _, c := range f.chunks {
			if err := f.opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
	}
	return f.resp, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestConvertMessages(t *testing.T) {
	call := ai.ToolCall{ID: "c1", Name: "convert_temperature", Arguments: `{"value":100}`}
	got := convertMessages([]ai.Message{
		ai.NewSystemMessage("sys"),
		ai.NewUserMessage("100C in F"),
		ai.NewAssistantMessage("", []ai.ToolCall{call}),
		ai.NewToolMessage(call, "212"),
		ai.NewAssistantMessage("", nil),
	})

	require.Len(t, got, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, got[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, got[1].Role)
	require.Len(t, got[2].Parts, 1)
	tc, ok := got[2].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.Equal(t, "convert_temperature", tc.FunctionCall.Name)
	resp, ok := got[3].Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, llms.ToolCallResponse{ToolCallID: "c1", Name: "convert_temperature", Content: "212"}, resp)
}

func TestClient_ChatStream(t *testing.T) {
	fake := &fakeModel{
		chunks: []string{"100°C ", "is 212°F."},
		resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
			Content:        "100°C is 212°F.",
			StopReason:     "stop",
			GenerationInfo: map[string]any{"PromptTokens": 10, "CompletionTokens": 4},
		}}},
	}
	c := NewWithModel(fake, "llama3.1")

	ch, err := c.ChatStream(context.Background(), []ai.Message{ai.NewUserMessage("100C")},
		ai.WithTools([]ai.Tool{{Name: "convert_temperature"}}), ai.WithTemperature(0))
	require.NoError(t, err)

	var deltas []string
	var final *ai.Response
	for ev := range ch {
		require.NoError(t, ev.Err)
		if ev.Done {
			final = ev.Response
		} else {
			deltas = append(deltas, ev.Delta)
		}
	}

	assert.Equal(t, []string{"100°C ", "is 212°F."}, deltas)
	require.NotNil(t, final)
	assert.Equal(t, "100°C is 212°F.", final.Content)
	assert.Equal(t, ai.Usage{InputTokens: 10, OutputTokens: 4}, final.Usage)
	require.Len(t, fake.opts.Tools, 1)
	assert.Equal(t, "convert_temperature", fake.opts.Tools[0].Function.Name)
}

func TestClient_ChatToolCalls(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{FunctionCall: &llms.FunctionCall{Name: "calculator", Arguments: `{"expression":"1+1"}`}}},
	}}}}

	resp, err := NewWithModel(fake, "m").Chat(context.Background(), []ai.Message{ai.NewUserMessage("1+1")})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_0_calculator", resp.ToolCalls[0].ID)
	assert.Nil(t, fake.opts.StreamingFunc)
}

func TestClient_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewWithModel(&fakeModel{err: boom}, "m").Chat(context.Background(), nil)
	assert.ErrorIs(t, err, boom)

	_, err = NewWithModel(&fakeModel{resp: &llms.ContentResponse{}}, "m").Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}
