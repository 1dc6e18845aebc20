package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
)

func TestNewFallbackClient(t *testing.T) {
	client := NewFallbackClient()
	if client == nil {
		t.Error("NewFallbackClient() returned nil")
	}
}

func TestFallbackClient_Available(t *testing.T) {
	client := NewFallbackClient()
	if client.Available() {
		t.Error("FallbackClient.Available() should return false")
	}
}

func TestFallbackClient_GenerateCompany(t *testing.T) {
	tests := []struct {
		name        string
		topic       string
		wantCompany string
		wantService string
	}{
		{"two words", "pet grooming", "Pet Grooming Labs", "Pet Grooming Hub"},
		{"mixed case", "SPACE tourism", "Space Tourism Labs", "Space Tourism Hub"},
		{"long topic truncated", "cloud kitchen delivery logistics", "Cloud Kitchen Delivery Labs", "Cloud Kitchen Delivery Hub"},
		{"empty topic", "   ", "Generic Labs", "Generic Hub"},
	}

	client := NewFallbackClient()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idea, err := client.GenerateCompany(context.Background(), tt.topic)
			if err != nil {
				t.Fatalf("GenerateCompany() error = %v", err)
			}
			if idea.CompanyName != tt.wantCompany {
				t.Errorf("CompanyName = %q, want %q", idea.CompanyName, tt.wantCompany)
			}
			if idea.ServiceName != tt.wantService {
				t.Errorf("ServiceName = %q, want %q", idea.ServiceName, tt.wantService)
			}
			if idea.ServiceDescription == "" {
				t.Error("ServiceDescription is empty")
			}
			if len(idea.Features) != constants.SuggestionCount {
				t.Errorf("len(Features) = %d, want %d", len(idea.Features), constants.SuggestionCount)
			}
		})
	}
}

func TestFallbackClient_SuggestFeatures(t *testing.T) {
	client := NewFallbackClient()
	ctx := context.Background()

	t.Run("skips existing names", func(t *testing.T) {
		details := ServiceDetails{ServiceName: "Widgetly", Features: []string{"user accounts", "Dark Mode"}}
		got, err := client.SuggestFeatures(ctx, details, models.FeatureKindConventional)
		if err != nil {
			t.Fatalf("SuggestFeatures() error = %v", err)
		}
		if len(got) != constants.SuggestionCount {
			t.Fatalf("len = %d, want %d", len(got), constants.SuggestionCount)
		}
		if got[0] != "Full Text Search" {
			t.Errorf("first suggestion = %q, want %q", got[0], "Full Text Search")
		}
		for _, name := range got {
			if name == "User Accounts" || name == "Dark Mode" {
				t.Errorf("suggested existing feature %q", name)
			}
		}
	})

	t.Run("ai catalog", func(t *testing.T) {
		got, err := client.SuggestFeatures(ctx, ServiceDetails{}, models.FeatureKindAI)
		if err != nil {
			t.Fatalf("SuggestFeatures() error = %v", err)
		}
		if got[0] != "Smart Recommendations" {
			t.Errorf("first suggestion = %q, want %q", got[0], "Smart Recommendations")
		}
	})

	t.Run("versions once the catalog is exhausted", func(t *testing.T) {
		details := ServiceDetails{Features: append([]string(nil), conventionalCatalog...)}
		got, err := client.SuggestFeatures(ctx, details, models.FeatureKindConventional)
		if err != nil {
			t.Fatalf("SuggestFeatures() error = %v", err)
		}
		if len(got) != constants.SuggestionCount {
			t.Fatalf("len = %d, want %d", len(got), constants.SuggestionCount)
		}
		if got[0] != "User Accounts v2" {
			t.Errorf("first suggestion = %q, want %q", got[0], "User Accounts v2")
		}
	})

	t.Run("repeated calls never repeat a name", func(t *testing.T) {
		var existing []string
		seen := make(map[string]bool)
		for i := 0; i < 6; i++ {
			got, err := client.SuggestFeatures(ctx, ServiceDetails{Features: existing}, models.FeatureKindConventional)
			if err != nil {
				t.Fatalf("round %d: SuggestFeatures() error = %v", i, err)
			}
			if len(got) != constants.SuggestionCount {
				t.Fatalf("round %d: len = %d, want %d", i, len(got), constants.SuggestionCount)
			}
			for _, name := range got {
				key := strings.ToLower(name)
				if seen[key] {
					t.Fatalf("round %d: %q suggested twice", i, name)
				}
				seen[key] = true
			}
			existing = append(existing, got...)
		}
	})
}

func TestFallbackClient_LogoPrompt(t *testing.T) {
	client := NewFallbackClient()

	got, err := client.LogoPrompt(context.Background(), "Pet Grooming Hub", "Grooming appointments online.")
	if err != nil {
		t.Fatalf("LogoPrompt() error = %v", err)
	}
	if !strings.Contains(got, "Pet Grooming Hub") {
		t.Errorf("prompt %q does not name the service", got)
	}
	if !strings.Contains(got, "Grooming appointments online.") {
		t.Errorf("prompt %q does not include the description", got)
	}

	bare, _ := client.LogoPrompt(context.Background(), "X", "")
	if strings.Contains(bare, "inspired by") {
		t.Errorf("prompt %q mentions an empty description", bare)
	}
}
