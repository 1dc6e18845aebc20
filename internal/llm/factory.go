package llm

import (
	"context"
	"fmt"
)

// NewClient builds the client named by config.Provider. When the provider
// has no credentials and config.FallbackToRules is set, the offline
// FallbackClient is returned instead.
func NewClient(ctx context.Context, config ClientConfig) (Client, error) {
	var client Client

	switch config.Provider {
	case ProviderAnthropic:
		client = NewAnthropicClient(config)
	case ProviderOpenAI:
		client = NewOpenAIClient(config)
	case ProviderGemini:
		gc, err := NewGeminiClient(ctx, config)
		if err != nil {
			return nil, err
		}
		client = gc
	case ProviderFallback, "":
		return NewFallbackClient(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (valid: anthropic, openai, gemini, fallback)", config.Provider)
	}

	if client.Available() {
		return client, nil
	}
	if config.FallbackToRules {
		return NewFallbackClient(), nil
	}
	return nil, fmt.Errorf("%s provider is not configured: missing API key", config.Provider)
}
