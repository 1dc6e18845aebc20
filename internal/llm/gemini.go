package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nvandessel/corpsim/internal/models"
)

const geminiDefaultModel = "gemini-1.5-flash"

// GeminiClient implements the Client interface using the Google Gemini API.
// It holds a connection and must be closed.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a GeminiClient. If config.APIKey is empty, it falls
// back to the GEMINI_API_KEY environment variable. Without a key the client
// is returned unconnected and reports itself unavailable.
func NewGeminiClient(ctx context.Context, config ClientConfig) (*GeminiClient, error) {
	config = config.withDefaults("GEMINI_API_KEY", geminiDefaultModel)
	apiKey := config.APIKey

	c := &GeminiClient{model: config.Model, timeout: config.Timeout}
	if apiKey == "" {
		return c, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

// GenerateCompany invents a company using Gemini.
func (c *GeminiClient) GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error) {
	if !c.Available() {
		return nil, fmt.Errorf("gemini client not available: missing API key")
	}
	return generateCompany(ctx, c, topic)
}

// SuggestFeatures proposes new features using Gemini.
func (c *GeminiClient) SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	if !c.Available() {
		return nil, fmt.Errorf("gemini client not available: missing API key")
	}
	return suggestFeatures(ctx, c, details, kind)
}

// LogoPrompt writes a logo prompt using Gemini.
func (c *GeminiClient) LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("gemini client not available: missing API key")
	}
	return logoPrompt(ctx, c, serviceName, serviceDescription)
}

// Available returns true if the client connected with an API key.
func (c *GeminiClient) Available() bool {
	return c.client != nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *GeminiClient) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.GenerativeModel(c.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from API")
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}
