package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/agent"
	"github.com/spetersoncode/convagent/client"
	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/toolset"
)

type mockProvider struct {
	mu        sync.Mutex
	responses []ai.Response
	err       error
}

func (m *mockProvider) next() (*ai.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &ai.Response{Content: "done"}, nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return &r, nil
}

func (m *mockProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return m.next()
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	r, err := m.next()
	if err != nil {
		return nil, err
	}
	ch := make(chan ai.StreamEvent, 2)
	if r.Content != "" {
		ch <- ai.StreamEvent{Delta: r.Content}
	}
	ch <- ai.StreamEvent{Done: true, Response: r}
	close(ch)
	return ch, nil
}

func TestBuildRegistry(t *testing.T) {
	cfg := config.Default()

	reg := buildRegistry(cfg)
	assert.Equal(t, 9, reg.Len())
	assert.Contains(t, reg.Names(), toolset.WebSearch)
	assert.Contains(t, reg.Names(), toolset.ConvertCurrency)

	cfg.EnableSearchTools = false
	reg = buildRegistry(cfg)
	assert.Equal(t, 7, reg.Len())
	assert.NotContains(t, reg.Names(), toolset.WebSearch)
	assert.NotContains(t, reg.Names(), toolset.SearchConversionInfo)
}

func TestBuildAgent_MissingKey(t *testing.T) {
	cfg := config.Default()

	_, err := buildAgent(context.Background(), cfg, zerolog.Nop(), nil)

	var missing *client.ErrMissingAPIKey
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, ai.ProviderGoogle, missing.Provider)
}

func TestAsk(t *testing.T) {
	p := &mockProvider{responses: []ai.Response{
		{ToolCalls: []ai.ToolCall{{
			ID:        "call_1",
			Name:      toolset.ConvertDistance,
			Arguments: `{"value":10,"from_unit":"km","to_unit":"miles"}`,
		}}},
		{Content: "10 km is about 6.21 miles."},
	}}
	conv := agent.New(p, toolset.New(toolset.Config{})).NewConversation("")

	var out bytes.Buffer
	err := ask(context.Background(), &out, conv, "10 km in miles")
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "convert_distance(value=10, from_unit=km, to_unit=miles)")
	assert.Contains(t, got, "→ 6.2137")
	assert.Contains(t, got, "10 km is about 6.21 miles.\n")
}

func TestAsk_BackendFailure(t *testing.T) {
	p := &mockProvider{err: errors.New("backend down")}
	conv := agent.New(p, toolset.New(toolset.Config{})).NewConversation("")

	var out bytes.Buffer
	err := ask(context.Background(), &out, conv, "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Contains(t, out.String(), "error: ")
}

func TestWriteTools(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeTools(&out, toolset.New(toolset.Config{})))

	got := out.String()
	assert.Contains(t, got, toolset.ConvertDistance)
	assert.Contains(t, got, "Convert distance between kilometers and miles")
	assert.Contains(t, got, `"enum": [`)
	assert.Contains(t, got, `"required": [`)
}
