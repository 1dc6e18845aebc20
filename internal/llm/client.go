// Package llm provides the idea generator: the large language model
// collaborator that invents companies, suggests features and writes logo
// prompts. It supports Anthropic, OpenAI-compatible and Gemini backends plus
// an offline fallback that needs no network at all.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/nvandessel/corpsim/internal/models"
)

// Provider names accepted in ClientConfig.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderFallback  = "fallback"
)

// CompanyIdea is a generated company with one service and its launch
// roadmap. JSON field names match what the onboarding prompt asks for.
type CompanyIdea struct {
	CompanyName        string   `json:"companyName" yaml:"company_name"`
	ServiceName        string   `json:"serviceName" yaml:"service_name"`
	ServiceDescription string   `json:"serviceDescription" yaml:"service_description"`
	Features           []string `json:"features" yaml:"features"`
}

// ServiceDetails is what the generator is told about an existing service
// when asked for more features. Features lists every name the service
// already has, has planned, or has buffered.
type ServiceDetails struct {
	CompanyName        string   `json:"companyName"`
	ServiceName        string   `json:"serviceName"`
	ServiceDescription string   `json:"serviceDescription"`
	Features           []string `json:"features"`
}

// ClientConfig configures an LLM client.
type ClientConfig struct {
	// Provider identifies the LLM backend: "anthropic", "openai", "gemini", "fallback"
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider (not used for fallback).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Used for OpenAI-compatible servers
	// and for tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier to use for requests.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Timeout is the maximum duration to wait for a response.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// FallbackToRules indicates whether to fall back to the offline
	// generator if the configured provider is unavailable.
	FallbackToRules bool `json:"fallback_to_rules,omitempty" yaml:"fallback_to_rules,omitempty"`
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Provider:        ProviderFallback,
		Model:           "",
		Timeout:         defaultTimeout,
		FallbackToRules: true,
	}
}

// Client defines the idea generator.
type Client interface {
	// GenerateCompany invents a company, service and ~20 launch features
	// inspired by topic.
	GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error)

	// SuggestFeatures proposes ~20 new feature names of the given kind that
	// do not duplicate details.Features.
	SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error)

	// LogoPrompt writes a text-to-image prompt for the service's logo.
	LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error)

	// Available returns true if the client is configured and ready to handle
	// requests against a real model. For API-based clients, this checks that
	// credentials are present.
	Available() bool
}

// Closer is an optional interface for clients that hold resources requiring cleanup.
// Consumers should type-assert and call Close when done: if c, ok := client.(Closer); ok { c.Close() }
type Closer interface {
	Close() error
}

// completer sends one prompt and returns the raw model text. Each hosted
// provider implements it; the Client methods are shared on top of it.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

func generateCompany(ctx context.Context, c completer, topic string) (*CompanyIdea, error) {
	response, err := c.complete(ctx, CompanyOnboardPrompt(topic))
	if err != nil {
		return nil, err
	}
	idea, err := ParseCompanyIdea(response)
	if err != nil {
		return nil, fmt.Errorf("parsing company idea: %w", err)
	}
	return idea, nil
}

func suggestFeatures(ctx context.Context, c completer, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	response, err := c.complete(ctx, FeatureSuggestionPrompt(details, kind))
	if err != nil {
		return nil, err
	}
	suggestions, err := ParseSuggestions(response)
	if err != nil {
		return nil, fmt.Errorf("parsing feature suggestions: %w", err)
	}
	return suggestions, nil
}

func logoPrompt(ctx context.Context, c completer, serviceName, serviceDescription string) (string, error) {
	response, err := c.complete(ctx, LogoImagePrompt(serviceName, serviceDescription))
	if err != nil {
		return "", err
	}
	prompt, err := ParseLogoPrompt(response)
	if err != nil {
		return "", fmt.Errorf("parsing logo prompt: %w", err)
	}
	return prompt, nil
}
