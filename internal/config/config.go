// Package config loads service configuration from .env, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ai "github.com/spetersoncode/convagent"
)

// FileEnv names the environment variable holding the YAML config path.
const FileEnv = "CONVAGENT_CONFIG"

// Config holds the service configuration.
type Config struct {
	// Server
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Logging
	LogLevel string `yaml:"log_level"` // trace, debug, info, warn, error
	LogJSON  bool   `yaml:"log_json"`

	// Model selection
	Model         string `yaml:"model"`
	ModelProvider string `yaml:"model_provider"`

	// API keys
	GoogleKey     string `yaml:"google_api_key"`
	OpenAIKey     string `yaml:"openai_api_key"`
	AnthropicKey  string `yaml:"anthropic_api_key"`
	OpenRouterKey string `yaml:"openrouter_api_key"`

	// Endpoints
	OpenRouterBaseURL string `yaml:"openrouter_base_url"`
	OllamaHost        string `yaml:"ollama_host"`

	// Currency tools. An empty key disables only the currency tools.
	CurrencyAPIKey  string        `yaml:"freecurrency_api_key"`
	CurrencyBaseURL string        `yaml:"freecurrency_base_url"`
	CurrencyTimeout time.Duration `yaml:"currency_timeout"`

	// Search tools
	EnableSearchTools bool   `yaml:"enable_search_tools"`
	SearchBaseURL     string `yaml:"search_base_url"`

	// Agent
	MaxIterations int     `yaml:"max_iterations"`
	Temperature   float64 `yaml:"temperature"`
	SystemPrompt  string  `yaml:"system_prompt"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Host:              "0.0.0.0",
		Port:              "8000",
		LogLevel:          "info",
		Model:             "gemini-1.5-flash",
		ModelProvider:     "google-genai",
		CurrencyTimeout:   10 * time.Second,
		EnableSearchTools: true,
		MaxIterations:     10,
	}
}

// Load builds the configuration. It loads a .env file if present (silently
// ignoring its absence), overlays the YAML file at path or at $CONVAGENT_CONFIG,
// applies environment variables and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogJSON = getEnvBoolOrDefault("LOG_JSON", c.LogJSON)

	c.Model = getEnvOrDefault("MODEL", c.Model)
	c.ModelProvider = getEnvOrDefault("MODEL_PROVIDER", c.ModelProvider)

	c.GoogleKey = getEnvOrDefault("GOOGLE_API_KEY", c.GoogleKey)
	c.OpenAIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAIKey)
	c.AnthropicKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.AnthropicKey)
	c.OpenRouterKey = getEnvOrDefault("OPENROUTER_API_KEY", c.OpenRouterKey)
	c.OpenRouterBaseURL = getEnvOrDefault("OPENROUTER_BASE_URL", c.OpenRouterBaseURL)
	c.OllamaHost = getEnvOrDefault("OLLAMA_HOST", c.OllamaHost)

	c.CurrencyAPIKey = getEnvOrDefault("FREECURRENCY_API_KEY", c.CurrencyAPIKey)
	c.CurrencyBaseURL = getEnvOrDefault("FREECURRENCY_BASE_URL", c.CurrencyBaseURL)
	c.CurrencyTimeout = getEnvDurationOrDefault("CURRENCY_TIMEOUT", c.CurrencyTimeout)

	c.EnableSearchTools = getEnvBoolOrDefault("ENABLE_SEARCH_TOOLS", c.EnableSearchTools)
	c.SearchBaseURL = getEnvOrDefault("SEARCH_BASE_URL", c.SearchBaseURL)

	c.MaxIterations = getEnvIntOrDefault("MAX_ITERATIONS", c.MaxIterations)
	c.Temperature = getEnvFloatOrDefault("TEMPERATURE", c.Temperature)
	c.SystemPrompt = getEnvOrDefault("SYSTEM_PROMPT", c.SystemPrompt)
}

// Validate checks that the configuration is usable. Provider API keys are
// checked when the provider is constructed, not here.
func (c *Config) Validate() error {
	if _, err := ai.ParseProvider(c.ModelProvider); err != nil {
		return fmt.Errorf("MODEL_PROVIDER: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("MODEL is required")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("MAX_ITERATIONS must be at least 1, got %d", c.MaxIterations)
	}
	if c.CurrencyTimeout <= 0 {
		return fmt.Errorf("CURRENCY_TIMEOUT must be positive, got %s", c.CurrencyTimeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
