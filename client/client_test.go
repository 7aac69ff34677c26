package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/internal/provider/anthropic"
	"github.com/spetersoncode/convagent/internal/provider/ollama"
	"github.com/spetersoncode/convagent/internal/provider/openai"
	"github.com/spetersoncode/convagent/internal/provider/openrouter"
)

func TestNew_SelectsProvider(t *testing.T) {
	ctx := context.Background()
	keys := APIKeys{OpenAI: "o", Anthropic: "a", OpenRouter: "r"}

	p, err := New(ctx, Config{Provider: "openai", Model: "gpt-4o", APIKeys: keys})
	require.NoError(t, err)
	require.IsType(t, &openai.Client{}, p)
	assert.Equal(t, "gpt-4o", p.(*openai.Client).Model())

	p, err = New(ctx, Config{Provider: "anthropic", APIKeys: keys})
	require.NoError(t, err)
	require.IsType(t, &anthropic.Client{}, p)
	assert.Equal(t, anthropic.DefaultModel, p.(*anthropic.Client).Model())

	p, err = New(ctx, Config{Provider: "OpenRouter", Model: "meta/llama", APIKeys: keys})
	require.NoError(t, err)
	assert.IsType(t, &openrouter.Client{}, p)

	p, err = New(ctx, Config{Provider: "ollama", BaseURLs: BaseURLs{Ollama: "http://127.0.0.1:11434"}})
	require.NoError(t, err)
	assert.IsType(t, &ollama.Client{}, p)
}

func TestNew_MissingKey(t *testing.T) {
	tests := []struct {
		provider string
		want     ai.Provider
	}{
		{"google-genai", ai.ProviderGoogle},
		{"openai", ai.ProviderOpenAI},
		{"anthropic", ai.ProviderAnthropic},
		{"openrouter", ai.ProviderOpenRouter},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			_, err := New(context.Background(), Config{Provider: tt.provider, Model: "m"})
			var missing *ErrMissingAPIKey
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.want, missing.Provider)
			assert.Contains(t, err.Error(), `required by model "m"`)
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "watsonx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model provider")
}
