package llm

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
	defaultTimeout = 30 * time.Second

	// maxResponseBytes bounds how much of a provider response is read.
	maxResponseBytes = 1 << 20

	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// withDefaults fills the key from envKey and the model and timeout from
// provider defaults wherever config leaves them empty.
func (c ClientConfig) withDefaults(envKey, model string) ClientConfig {
	if c.APIKey == "" && envKey != "" {
		c.APIKey = os.Getenv(envKey)
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// endpoint joins a base URL, the configured one when set, with path.
func (c ClientConfig) endpoint(defaultBase, path string) string {
	base := c.BaseURL
	if base == "" {
		base = defaultBase
	}
	return strings.TrimRight(base, "/") + path
}

// postJSON sends in as a JSON POST and decodes a 200 response into out.
func postJSON(ctx context.Context, client *http.Client, url string, header http.Header, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(data) > maxErrorBody {
			data = append(data[:maxErrorBody:maxErrorBody], "..."...)
		}
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing API response: %w", err)
	}
	return nil
}
