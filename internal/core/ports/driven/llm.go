// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model operations for answering questions.
//
// Implementations may include:
//   - OpenAI (GPT-4o) or any compatible proxy
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// DescribeImage asks a vision-capable model to describe an image.
	// The prompt steers what the description should focus on.
	DescribeImage(ctx context.Context, image ImageInput, prompt string) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ImageInput is a decoded image ready to send to a vision model.
type ImageInput struct {
	// Data is the raw image bytes.
	Data []byte

	// MIMEType is the sniffed content type, e.g. "image/png".
	MIMEType string
}
