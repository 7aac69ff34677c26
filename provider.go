package convagent

import (
	"fmt"
	"strings"
)

// Provider identifies a chat backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle     Provider = "google"
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenRouter Provider = "openrouter"
	ProviderOllama     Provider = "ollama"
)

// ParseProvider maps a configured provider identifier to a Provider.
// "google-genai", "google_genai" and "gemini" are aliases of google and
// "claude" of anthropic.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google", "google-genai", "google_genai", "gemini":
		return ProviderGoogle, nil
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "openrouter":
		return ProviderOpenRouter, nil
	case "ollama":
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unknown model provider %q (want google-genai, openai, anthropic, openrouter or ollama)", s)
	}
}
