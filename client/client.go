package client

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/internal/provider/anthropic"
	"github.com/spetersoncode/convagent/internal/provider/google"
	"github.com/spetersoncode/convagent/internal/provider/ollama"
	"github.com/spetersoncode/convagent/internal/provider/openai"
	"github.com/spetersoncode/convagent/internal/provider/openrouter"
)

// APIKeys holds API keys for different providers.
// Only the key of the selected provider is required.
type APIKeys struct {
	Google     string
	OpenAI     string
	Anthropic  string
	OpenRouter string
}

// BaseURLs overrides provider endpoints. Empty values keep the defaults.
type BaseURLs struct {
	OpenAI     string
	OpenRouter string
	Ollama     string
}

// Config selects and configures one chat backend.
type Config struct {
	// Provider is a provider identifier accepted by ai.ParseProvider.
	Provider string

	// Model overrides the provider's default model.
	Model string

	APIKeys  APIKeys
	BaseURLs BaseURLs
}

// ErrMissingAPIKey is returned when the selected provider has no API key.
type ErrMissingAPIKey struct {
	Provider ai.Provider
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// New builds the chat backend named by cfg.Provider.
func New(ctx context.Context, cfg Config) (ai.ChatProvider, error) {
	provider, err := ai.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	key := func(k string) error {
		if k == "" {
			return &ErrMissingAPIKey{Provider: provider, Model: cfg.Model}
		}
		return nil
	}

	switch provider {
	case ai.ProviderGoogle:
		if err := key(cfg.APIKeys.Google); err != nil {
			return nil, err
		}
		c, err := google.New(ctx, cfg.APIKeys.Google, google.WithModel(cfg.Model))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		return c, nil
	case ai.ProviderOpenAI:
		if err := key(cfg.APIKeys.OpenAI); err != nil {
			return nil, err
		}
		return openai.New(cfg.APIKeys.OpenAI, openai.WithModel(cfg.Model), openai.WithBaseURL(cfg.BaseURLs.OpenAI)), nil
	case ai.ProviderAnthropic:
		if err := key(cfg.APIKeys.Anthropic); err != nil {
			return nil, err
		}
		return anthropic.New(cfg.APIKeys.Anthropic, anthropic.WithModel(cfg.Model)), nil
	case ai.ProviderOpenRouter:
		if err := key(cfg.APIKeys.OpenRouter); err != nil {
			return nil, err
		}
		return openrouter.New(cfg.APIKeys.OpenRouter,
			openrouter.WithModel(cfg.Model), openrouter.WithBaseURL(cfg.BaseURLs.OpenRouter)), nil
	case ai.ProviderOllama:
		return ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(cfg.BaseURLs.Ollama))
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
