// Package imagegen turns text prompts into images using a hosted diffusion
// model. It is used to draw a logo for an onboarded service.
package imagegen

import (
	"context"
	"fmt"
	"sync"

	"github.com/nvandessel/corpsim/internal/llm"
)

// Generator produces an image for a prompt and returns its URL.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LogoResult is a generated logo together with the prompt that drew it.
type LogoResult struct {
	Prompt string `json:"prompt"`
	URL    string `json:"url"`
}

// Logo asks the idea generator for a logo prompt, then renders it.
func Logo(ctx context.Context, writer llm.Client, gen Generator, serviceName, serviceDescription string) (*LogoResult, error) {
	prompt, err := writer.LogoPrompt(ctx, serviceName, serviceDescription)
	if err != nil {
		return nil, fmt.Errorf("writing logo prompt: %w", err)
	}

	url, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating logo image: %w", err)
	}

	return &LogoResult{Prompt: prompt, URL: url}, nil
}

// MockGenerator implements Generator for tests. It records every prompt and
// returns a fixed URL or error.
type MockGenerator struct {
	mu sync.Mutex

	url string
	err error

	Prompts []string
}

// NewMockGenerator creates a MockGenerator returning url.
func NewMockGenerator(url string) *MockGenerator {
	return &MockGenerator{url: url, Prompts: make([]string, 0)}
}

// WithError configures the error returned by Generate.
func (m *MockGenerator) WithError(err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
