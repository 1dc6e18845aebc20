package llm

import (
	"context"
	"sync"

	"github.com/nvandessel/corpsim/internal/models"
)

// MockClient implements Client for testing purposes.
// It allows configuring responses for every method, simulating errors, and
// tracking calls for verification.
type MockClient struct {
	mu sync.Mutex

	// Configured responses
	companyIdea *CompanyIdea
	suggestions map[models.FeatureKind][]string
	logoPrompt  string
	err         error
	available   bool

	// Call tracking
	CompanyCalls []string
	SuggestCalls []SuggestCall
	LogoCalls    []LogoCall
}

// SuggestCall records a call to SuggestFeatures.
type SuggestCall struct {
	Details ServiceDetails
	Kind    models.FeatureKind
}

// LogoCall records a call to LogoPrompt.
type LogoCall struct {
	ServiceName        string
	ServiceDescription string
}

// NewMockClient creates a new MockClient with default settings.
// By default, it is available and returns empty results.
func NewMockClient() *MockClient {
	return &MockClient{
		available:    true,
		suggestions:  make(map[models.FeatureKind][]string),
		CompanyCalls: make([]string, 0),
		SuggestCalls: make([]SuggestCall, 0),
		LogoCalls:    make([]LogoCall, 0),
	}
}

// WithCompanyIdea configures the result returned by GenerateCompany.
func (m *MockClient) WithCompanyIdea(idea *CompanyIdea) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companyIdea = idea
	return m
}

// WithSuggestions configures the names returned by SuggestFeatures for kind.
func (m *MockClient) WithSuggestions(kind models.FeatureKind, names ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[kind] = names
	return m
}

// WithLogoPrompt configures the result returned by LogoPrompt.
func (m *MockClient) WithLogoPrompt(prompt string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoPrompt = prompt
	return m
}

// WithError configures the error returned by all methods.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithAvailable configures whether Available() returns true or false.
func (m *MockClient) WithAvailable(available bool) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// GenerateCompany implements Client.GenerateCompany.
func (m *MockClient) GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompanyCalls = append(m.CompanyCalls, topic)

	if m.err != nil {
		return nil, m.err
	}

	if m.companyIdea != nil {
		idea := *m.companyIdea
		idea.Features = append([]string(nil), m.companyIdea.Features...)
		return &idea, nil
	}

	// Default response
	return &CompanyIdea{
		CompanyName: "Mock Company",
		ServiceName: "Mock Service",
		Features:    []string{},
	}, nil
}

// SuggestFeatures implements Client.SuggestFeatures.
// The details are copied so later mutation by the caller does not alter
// the recorded call.
func (m *MockClient) SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	details.Features = append([]string(nil), details.Features...)
	m.SuggestCalls = append(m.SuggestCalls, SuggestCall{Details: details, Kind: kind})

	if m.err != nil {
		return nil, m.err
	}

	return append([]string(nil), m.suggestions[kind]...), nil
}

// LogoPrompt implements Client.LogoPrompt.
func (m *MockClient) LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LogoCalls = append(m.LogoCalls, LogoCall{ServiceName: serviceName, ServiceDescription: serviceDescription})

	if m.err != nil {
		return "", m.err
	}

	return m.logoPrompt, nil
}

// Available implements Client.Available.
// Returns the configured availability status.
func (m *MockClient) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Reset clears all call tracking and resets configured responses.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companyIdea = nil
	m.suggestions = make(map[models.FeatureKind][]string)
	m.logoPrompt = ""
	m.err = nil
	m.available = true
	m.CompanyCalls = make([]string, 0)
	m.SuggestCalls = make([]SuggestCall, 0)
	m.LogoCalls = make([]LogoCall, 0)
}

// CompanyCallCount returns the number of times GenerateCompany was called.
func (m *MockClient) CompanyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CompanyCalls)
}

// SuggestCallCount returns the number of times SuggestFeatures was called.
func (m *MockClient) SuggestCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SuggestCalls)
}

// LogoCallCount returns the number of times LogoPrompt was called.
func (m *MockClient) LogoCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LogoCalls)
}
