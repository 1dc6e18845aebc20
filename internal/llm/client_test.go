package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/nvandessel/corpsim/internal/models"
)

const companyJSON = `{"companyName": "Bright Paws", "serviceName": "Groom Genie", "serviceDescription": "Book grooming online.", "features": ["Appointment Booking", "Reminders"]}`

func TestAnthropicClient_GenerateCompany(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s, want /v1/messages", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != anthropicAPIVersion {
			t.Errorf("anthropic-version = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "```json\n" + companyJSON + "\n```"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewAnthropicClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
	if !client.Available() {
		t.Fatal("client with key should be available")
	}

	idea, err := client.GenerateCompany(context.Background(), "pet grooming")
	if err != nil {
		t.Fatalf("GenerateCompany() error = %v", err)
	}
	want := &CompanyIdea{
		CompanyName:        "Bright Paws",
		ServiceName:        "Groom Genie",
		ServiceDescription: "Book grooming online.",
		Features:           []string{"Appointment Booking", "Reminders"},
	}
	if !reflect.DeepEqual(idea, want) {
		t.Errorf("GenerateCompany() = %+v, want %+v", idea, want)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != anthropicMaxTokens {
		t.Errorf("request model=%q max_tokens=%d", gotReq.Model, gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || !strings.Contains(gotReq.Messages[0].Content, "pet grooming") {
		t.Errorf("request messages = %+v", gotReq.Messages)
	}
}

func TestAnthropicClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusTooManyRequests, `{"error": "slow down"}`, "429"},
		{"api error", http.StatusOK, `{"error": {"type": "overloaded_error", "message": "busy"}}`, "overloaded_error"},
		{"empty content", http.StatusOK, `{"content": []}`, "empty response"},
		{"no text block", http.StatusOK, `{"content": [{"type": "tool_use"}]}`, "no text content"},
		{"unparseable", http.StatusOK, `{"content": [{"type": "text", "text": "no idea"}]}`, "parsing company idea"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := client.GenerateCompany(context.Background(), "x")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("GenerateCompany() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicClient_Unavailable(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	client := NewAnthropicClient(ClientConfig{})
	if client.Available() {
		t.Error("client without key should be unavailable")
	}
	if _, err := client.SuggestFeatures(context.Background(), ServiceDetails{}, models.FeatureKindAI); err == nil {
		t.Error("SuggestFeatures() without key should fail")
	}
	if _, err := client.LogoPrompt(context.Background(), "a", "b"); err == nil {
		t.Error("LogoPrompt() without key should fail")
	}
}

func TestAnthropicClient_KeyFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	if !NewAnthropicClient(ClientConfig{}).Available() {
		t.Error("client should pick up ANTHROPIC_API_KEY")
	}
}

func TestOpenAIClient_SuggestFeatures(t *testing.T) {
	var gotReq openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "{\"suggestions\": [\"Smart Replies\", \"Auto Tagging\"]}"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	details := ServiceDetails{ServiceName: "Groom Genie", Features: []string{"Reminders"}}

	got, err := client.SuggestFeatures(context.Background(), details, models.FeatureKindAI)
	if err != nil {
		t.Fatalf("SuggestFeatures() error = %v", err)
	}
	if want := []string{"Smart Replies", "Auto Tagging"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SuggestFeatures() = %v, want %v", got, want)
	}
	if gotReq.Model != openAIDefaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, openAIDefaultModel)
	}
	if len(gotReq.Messages) != 1 || !strings.Contains(gotReq.Messages[0].Content, "Reminders") {
		t.Errorf("prompt does not list existing features: %+v", gotReq.Messages)
	}
}

func TestOpenAIClient_LogoPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "\"A geometric paw, vector, white background\""}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(ClientConfig{APIKey: "k", BaseURL: srv.URL})
	got, err := client.LogoPrompt(context.Background(), "Groom Genie", "Book grooming online.")
	if err != nil {
		t.Fatalf("LogoPrompt() error = %v", err)
	}
	if got != "A geometric paw, vector, white background" {
		t.Errorf("LogoPrompt() = %q", got)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, "401"},
		{"api error", http.StatusOK, `{"error": {"message": "quota exceeded"}}`, "quota exceeded"},
		{"no choices", http.StatusOK, `{"choices": []}`, "no choices"},
		{"bad json", http.StatusOK, `not json`, "parsing API response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewOpenAIClient(ClientConfig{APIKey: "k", BaseURL: srv.URL})
			_, err := client.SuggestFeatures(context.Background(), ServiceDetails{}, models.FeatureKindConventional)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SuggestFeatures() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiClient_WithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client, err := NewGeminiClient(context.Background(), ClientConfig{})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if client.Available() {
		t.Error("client without key should be unavailable")
	}
	if _, err := client.GenerateCompany(context.Background(), "x"); err == nil {
		t.Error("GenerateCompany() without key should fail")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewClient(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name     string
		config   ClientConfig
		wantType string
		wantErr  bool
	}{
		{"default is fallback", DefaultConfig(), "*llm.FallbackClient", false},
		{"empty provider", ClientConfig{}, "*llm.FallbackClient", false},
		{"anthropic with key", ClientConfig{Provider: ProviderAnthropic, APIKey: "k"}, "*llm.AnthropicClient", false},
		{"openai with key", ClientConfig{Provider: ProviderOpenAI, APIKey: "k"}, "*llm.OpenAIClient", false},
		{"anthropic without key falls back", ClientConfig{Provider: ProviderAnthropic, FallbackToRules: true}, "*llm.FallbackClient", false},
		{"gemini without key falls back", ClientConfig{Provider: ProviderGemini, FallbackToRules: true}, "*llm.FallbackClient", false},
		{"openai without key and no fallback", ClientConfig{Provider: ProviderOpenAI}, "", true},
		{"unknown provider", ClientConfig{Provider: "llama"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := reflect.TypeOf(client).String(); got != tt.wantType {
				t.Errorf("NewClient() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestMockClient(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient().
		WithCompanyIdea(&CompanyIdea{CompanyName: "C", ServiceName: "S", Features: []string{"a"}}).
		WithSuggestions(models.FeatureKindAI, "x", "y").
		WithLogoPrompt("logo")

	idea, err := mock.GenerateCompany(ctx, "topic")
	if err != nil || idea.CompanyName != "C" {
		t.Fatalf("GenerateCompany() = %+v, %v", idea, err)
	}
	idea.Features[0] = "mutated"
	again, _ := mock.GenerateCompany(ctx, "topic")
	if again.Features[0] != "a" {
		t.Error("mutating a returned idea changed the configured one")
	}

	details := ServiceDetails{Features: []string{"a"}}
	got, _ := mock.SuggestFeatures(ctx, details, models.FeatureKindAI)
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("SuggestFeatures(ai) = %v", got)
	}
	details.Features[0] = "changed"
	if mock.SuggestCalls[0].Details.Features[0] != "a" {
		t.Error("recorded call aliases caller's slice")
	}
	if got, _ := mock.SuggestFeatures(ctx, details, models.FeatureKindConventional); len(got) != 0 {
		t.Errorf("SuggestFeatures(conventional) = %v, want empty", got)
	}
	if p, _ := mock.LogoPrompt(ctx, "S", "D"); p != "logo" {
		t.Errorf("LogoPrompt() = %q", p)
	}

	if mock.CompanyCallCount() != 2 || mock.SuggestCallCount() != 2 || mock.LogoCallCount() != 1 {
		t.Errorf("call counts = %d/%d/%d", mock.CompanyCallCount(), mock.SuggestCallCount(), mock.LogoCallCount())
	}
	if mock.SuggestCalls[1].Kind != models.FeatureKindConventional {
		t.Errorf("second suggest kind = %s", mock.SuggestCalls[1].Kind)
	}

	mock.WithError(context.Canceled)
	if _, err := mock.SuggestFeatures(ctx, details, models.FeatureKindAI); err != context.Canceled {
		t.Errorf("SuggestFeatures() error = %v, want context.Canceled", err)
	}

	mock.Reset()
	if mock.CompanyCallCount() != 0 || mock.SuggestCallCount() != 0 || mock.LogoCallCount() != 0 {
		t.Error("Reset() did not clear call tracking")
	}
	if !mock.Available() {
		t.Error("Reset() should restore availability")
	}
}
