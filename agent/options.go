package agent

import (
	"github.com/rs/zerolog"

	ai "github.com/spetersoncode/convagent"
)

// DefaultMaxIterations bounds the backend calls one Ask may make.
const DefaultMaxIterations = 10

// Options contains configuration for an Agent.
type Options struct {
	// MaxIterations limits the backend calls per Ask. Default is 10.
	MaxIterations int

	// SystemPrompt seeds every conversation's history.
	SystemPrompt string

	// ChatOptions are passed through to the ChatProvider on every call.
	ChatOptions []ai.Option

	// Logger receives per-turn debug lines and tool failures.
	Logger zerolog.Logger

	// Observer is notified of turns, fallbacks, tool executions and failures.
	Observer Observer
}

// Option is a functional option for configuring an Agent.
type Option func(*Options)

// WithMaxIterations sets the maximum number of backend calls per Ask.
// Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxIterations = n
		}
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithChatOptions passes options through to the ChatProvider.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return WithChatOptions(ai.WithModel(model))
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return WithChatOptions(ai.WithTemperature(t))
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets the observer notified of loop activity.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations: DefaultMaxIterations,
		SystemPrompt:  DefaultSystemPrompt,
		Logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}
