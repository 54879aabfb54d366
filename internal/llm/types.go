package llm

import "context"

// represents different LLM providers
type Provider string

const (
	ProviderOpenAI Provider = "openai"
)

// produces a chat completion constrained to a JSON object
type TextGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// produces a raster illustration for a prompt. An empty payload with a nil
// error means the provider returned nothing; callers treat that as "no
// image", not a failure.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// holds configuration for LLM client initialization
type Config struct {
	Provider Provider
	APIKey   string

	// chat completion settings
	TextModel   string // e.g., "gpt-4o-mini"
	MaxTokens   int
	Temperature float32

	// image generation settings
	ImageModel string // e.g., "dall-e-3"
	ImageSize  string // e.g., "1024x1024"
}
