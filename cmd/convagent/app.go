package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/spetersoncode/convagent/agent"
	"github.com/spetersoncode/convagent/client"
	"github.com/spetersoncode/convagent/currency"
	"github.com/spetersoncode/convagent/internal/config"
	"github.com/spetersoncode/convagent/internal/logging"
	"github.com/spetersoncode/convagent/search"
	"github.com/spetersoncode/convagent/tool"
	"github.com/spetersoncode/convagent/toolset"
)

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	return logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: out})
}

// buildRegistry wires the tool backends. Without a currency key the currency
// tools stay registered and report the missing configuration.
func buildRegistry(cfg *config.Config) *tool.Registry {
	var tc toolset.Config

	if cfg.CurrencyAPIKey != "" {
		opts := []currency.ClientOption{currency.WithTimeout(cfg.CurrencyTimeout)}
		if cfg.CurrencyBaseURL != "" {
			opts = append(opts, currency.WithBaseURL(cfg.CurrencyBaseURL))
		}
		tc.Rates = currency.NewClient(cfg.CurrencyAPIKey, opts...)
	}

	if cfg.EnableSearchTools {
		var opts []search.Option
		if cfg.SearchBaseURL != "" {
			opts = append(opts, search.WithBaseURL(cfg.SearchBaseURL))
		}
		tc.Search = search.NewClient(opts...)
	}

	return toolset.New(tc)
}

// buildAgent creates the chat backend selected by cfg and the agent over the
// built-in tools. obs may be nil.
func buildAgent(ctx context.Context, cfg *config.Config, log zerolog.Logger, obs agent.Observer) (*agent.Agent, error) {
	provider, err := client.New(ctx, client.Config{
		Provider: cfg.ModelProvider,
		Model:    cfg.Model,
		APIKeys: client.APIKeys{
			Google:     cfg.GoogleKey,
			OpenAI:     cfg.OpenAIKey,
			Anthropic:  cfg.AnthropicKey,
			OpenRouter: cfg.OpenRouterKey,
		},
		BaseURLs: client.BaseURLs{
			OpenRouter: cfg.OpenRouterBaseURL,
			Ollama:     cfg.OllamaHost,
		},
	})
	if err != nil {
		return nil, err
	}

	opts := []agent.Option{
		agent.WithLogger(log),
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithTemperature(cfg.Temperature),
	}
	if cfg.SystemPrompt != "" {
		opts = append(opts, agent.WithSystemPrompt(cfg.SystemPrompt))
	}
	if obs != nil {
		opts = append(opts, agent.WithObserver(obs))
	}

	log.Info().
		Str("provider", cfg.ModelProvider).
		Str("model", cfg.Model).
		Bool("currency", cfg.CurrencyAPIKey != "").
		Bool("search", cfg.EnableSearchTools).
		Msg("agent configured")

	return agent.New(provider, buildRegistry(cfg), opts...), nil
}
