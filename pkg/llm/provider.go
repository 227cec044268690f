package llm

import (
	"context"
	"errors"
)

// Transport failure classes. Providers wrap their errors with one of these
// so callers can distinguish "could not reach the evaluator" from "it took
// too long" without inspecting provider internals.
var (
	ErrUnavailable = errors.New("evaluator unavailable")
	ErrTimeout     = errors.New("evaluator timeout")
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any natural-language evaluator backend.
// One prompt in, one response text out; no streaming.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
