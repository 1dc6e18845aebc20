package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nvandessel/corpsim/internal/models"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicAPIVersion   = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-haiku-latest"
	anthropicMaxTokens    = 2048
)

var errAnthropicUnavailable = errors.New("anthropic client not available: missing API key")

// AnthropicClient implements the Client interface using the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewAnthropicClient creates an AnthropicClient. An empty key is read from
// ANTHROPIC_API_KEY; the model defaults to claude-3-5-haiku-latest.
func NewAnthropicClient(config ClientConfig) *AnthropicClient {
	config = config.withDefaults("ANTHROPIC_API_KEY", anthropicDefaultModel)
	return &AnthropicClient{
		apiKey:     config.APIKey,
		endpoint:   config.endpoint(anthropicBaseURL, "/v1/messages"),
		model:      config.Model,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateCompany invents a company using the Anthropic API.
func (c *AnthropicClient) GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error) {
	if !c.Available() {
		return nil, errAnthropicUnavailable
	}
	return generateCompany(ctx, c, topic)
}

// SuggestFeatures proposes new features using the Anthropic API.
func (c *AnthropicClient) SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	if !c.Available() {
		return nil, errAnthropicUnavailable
	}
	return suggestFeatures(ctx, c, details, kind)
}

// LogoPrompt writes a logo prompt using the Anthropic API.
func (c *AnthropicClient) LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error) {
	if !c.Available() {
		return "", errAnthropicUnavailable
	}
	return logoPrompt(ctx, c, serviceName, serviceDescription)
}

// Available returns true if the API key is present.
func (c *AnthropicClient) Available() bool {
	return c.apiKey != ""
}

// complete sends one user message and returns the first text block.
func (c *AnthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	header := http.Header{}
	header.Set("x-api-key", c.apiKey)
	header.Set("anthropic-version", anthropicAPIVersion)

	var resp anthropicResponse
	err := postJSON(ctx, c.httpClient, c.endpoint, header, anthropicRequest{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response (stop reason %q)", resp.StopReason)
}
