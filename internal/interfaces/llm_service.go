package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// CompletionOptions tunes a single completion call. The pipeline stages use
// different temperatures, so options travel per call rather than per client.
type CompletionOptions struct {
	// Temperature controls sampling randomness. 0 is deterministic.
	Temperature float32

	// MaxTokens caps the response length. 0 uses the provider default.
	MaxTokens int
}

// LLMService defines the interface for chat completions across providers.
// Implementations may target OpenAI-compatible deployments, Anthropic
// Claude, or Google Gemini; the provider is selected from the configured
// model name.
type LLMService interface {
	// Complete generates a completion for the given conversation.
	// The messages slice should contain the full context including the
	// system prompt and the user message.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - messages: Conversation in chronological order
	//   - opts: Per-call sampling options
	//
	// Returns:
	//   - string: Generated assistant response text
	//   - error: Error if the completion fails after retries
	Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error)

	// HealthCheck verifies the provider is reachable and authenticated.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//
	// Returns:
	//   - error: Error if the provider is not usable
	HealthCheck(ctx context.Context) error

	// ModelName returns the configured model identifier.
	ModelName() string

	// Close releases provider resources.
	Close() error
}
