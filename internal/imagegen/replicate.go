package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	replicateBaseURL = "https://api.replicate.com"

	// StableDiffusionVersion is the stability-ai/stable-diffusion model version.
	StableDiffusionVersion = "db21e45d3f7023abc2a46ee38a23973f6dce16bb082a930b0c49861f96d1e5bf"

	// DefaultNegativePrompt keeps lettering out of generated logos.
	DefaultNegativePrompt = "text"
)

// Prediction statuses reported by Replicate.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

// ReplicateConfig configures a ReplicateClient.
type ReplicateConfig struct {
	// APIToken authenticates requests. Falls back to REPLICATE_API_TOKEN.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Version is the model version to run. Defaults to StableDiffusionVersion.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// NegativePrompt describes what the image must not contain.
	NegativePrompt string `json:"negative_prompt,omitempty" yaml:"negative_prompt,omitempty"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// PollInterval is the delay between status checks of a running prediction.
	PollInterval time.Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// ReplicateClient implements Generator using the Replicate predictions API.
type ReplicateClient struct {
	token          string
	baseURL        string
	version        string
	negativePrompt string
	pollInterval   time.Duration
	client         *http.Client
}

// NewReplicateClient creates a ReplicateClient, filling unset fields with
// defaults.
func NewReplicateClient(config ReplicateConfig) *ReplicateClient {
	token := config.APIToken
	if token == "" {
		token = os.Getenv("REPLICATE_API_TOKEN")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = replicateBaseURL
	}

	version := config.Version
	if version == "" {
		version = StableDiffusionVersion
	}

	negative := config.NegativePrompt
	if negative == "" {
		negative = DefaultNegativePrompt
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	poll := config.PollInterval
	if poll == 0 {
		poll = time.Second
	}

	return &ReplicateClient{
		token:          token,
		baseURL:        strings.TrimRight(baseURL, "/"),
		version:        version,
		negativePrompt: negative,
		pollInterval:   poll,
		client:         &http.Client{Timeout: timeout},
	}
}

// Available returns true if an API token is present.
func (c *ReplicateClient) Available() bool {
	return c.token != ""
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// Generate runs a prediction for prompt and returns the first output URL.
// It waits synchronously where the server allows it and otherwise polls
// until the prediction finishes or ctx is done.
func (c *ReplicateClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("replicate client not available: missing API token")
	}

	body, err := json.Marshal(predictionRequest{
		Version: c.version,
		Input:   predictionInput{Prompt: prompt, NegativePrompt: c.negativePrompt},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	p, err := c.do(req)
	if err != nil {
		return "", err
	}

	for {
		switch p.Status {
		case statusSucceeded:
			return firstOutput(p.Output)
		case statusFailed:
			return "", fmt.Errorf("prediction %s failed: %v", p.ID, p.Error)
		case statusCanceled:
			return "", fmt.Errorf("prediction %s was canceled", p.ID)
		}

		if p.URLs.Get == "" {
			return "", fmt.Errorf("prediction %s is %s but has no status URL", p.ID, p.Status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URLs.Get, nil)
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		if p, err = c.do(req); err != nil {
			return "", err
		}
	}
}

func (c *ReplicateClient) do(req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var p prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing API response: %w", err)
	}
	return &p, nil
}

// firstOutput accepts either a list of URLs or a single URL.
func firstOutput(raw json.RawMessage) (string, error) {
	var urls []string
	if err := json.Unmarshal(raw, &urls); err == nil {
		if len(urls) == 0 || urls[0] == "" {
			return "", fmt.Errorf("prediction produced no output")
		}
		return urls[0], nil
	}

	var url string
	if err := json.Unmarshal(raw, &url); err != nil {
		return "", fmt.Errorf("parsing prediction output: %w", err)
	}
	if url == "" {
		return "", fmt.Errorf("prediction produced no output")
	}
	return url, nil
}
