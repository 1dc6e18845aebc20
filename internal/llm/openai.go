package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nvandessel/corpsim/internal/models"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient implements the Client interface using the OpenAI chat
// completions API, or any server that speaks it (BaseURL + "/chat/completions").
type OpenAIClient struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewOpenAIClient creates an OpenAIClient. An empty key is read from
// OPENAI_API_KEY; the model defaults to gpt-4o-mini.
func NewOpenAIClient(config ClientConfig) *OpenAIClient {
	config = config.withDefaults("OPENAI_API_KEY", openAIDefaultModel)
	return &OpenAIClient{
		apiKey:   config.APIKey,
		endpoint: config.endpoint(openAIBaseURL, "/chat/completions"),
		model:    config.Model,
		client:   &http.Client{Timeout: config.Timeout},
	}
}

type openAIChatRequest struct {
	Model    string              `json:"model"`
	Messages []openAIChatMessage `json:"messages"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateCompany invents a company using the OpenAI API.
func (c *OpenAIClient) GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error) {
	idea, err := generateCompany(ctx, c, topic)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return idea, nil
}

// SuggestFeatures proposes new features using the OpenAI API.
func (c *OpenAIClient) SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	names, err := suggestFeatures(ctx, c, details, kind)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return names, nil
}

// LogoPrompt writes a logo prompt using the OpenAI API.
func (c *OpenAIClient) LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error) {
	prompt, err := logoPrompt(ctx, c, serviceName, serviceDescription)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	return prompt, nil
}

// Available returns true if the API key is present.
func (c *OpenAIClient) Available() bool {
	return c.apiKey != ""
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var resp openAIChatResponse
	err := postJSON(ctx, c.client, c.endpoint, header, openAIChatRequest{
		Model:    c.model,
		Messages: []openAIChatMessage{{Role: "user", Content: prompt}},
	}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}
	return resp.Choices[0].Message.Content, nil
}
