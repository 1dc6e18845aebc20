package llm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nvandessel/corpsim/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"plain array", `["a", "b"]`, `["a", "b"]`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"generic fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"object in prose", `Sure! Here it is: {"a": 1} Enjoy.`, `{"a": 1}`},
		{"surrounding whitespace", "\n\n  {\"a\": 1}  \n", `{"a": 1}`},
		{"no json", "no structured data here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCompanyIdea(t *testing.T) {
	t.Run("fenced response is cleaned", func(t *testing.T) {
		response := "```json\n" + `{
  "companyName": "**Bright Paws**",
  "serviceName": "Groom Genie",
  "serviceDescription": "Book grooming <b>online</b>.",
  "features": ["1. Appointment Booking", "appointment booking", "", "- Reminders"]
}` + "\n```"
		idea, err := ParseCompanyIdea(response)
		if err != nil {
			t.Fatalf("ParseCompanyIdea() error = %v", err)
		}
		if idea.CompanyName != "Bright Paws" {
			t.Errorf("CompanyName = %q", idea.CompanyName)
		}
		if idea.ServiceName != "Groom Genie" {
			t.Errorf("ServiceName = %q", idea.ServiceName)
		}
		if idea.ServiceDescription != "Book grooming online." {
			t.Errorf("ServiceDescription = %q", idea.ServiceDescription)
		}
		want := []string{"Appointment Booking", "Reminders"}
		if !reflect.DeepEqual(idea.Features, want) {
			t.Errorf("Features = %v, want %v", idea.Features, want)
		}
	})

	errorCases := []struct {
		name     string
		response string
	}{
		{"no json", "I cannot help with that."},
		{"invalid json", `{"companyName": }`},
		{"missing company", `{"serviceName": "S"}`},
		{"missing service", `{"companyName": "C"}`},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCompanyIdea(tt.response); err == nil {
				t.Error("ParseCompanyIdea() expected error")
			}
		})
	}
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
		wantErr  bool
	}{
		{"object", `{"suggestions": ["Search", "Export"]}`, []string{"Search", "Export"}, false},
		{"bare array", `["Search", "search", " Export "]`, []string{"Search", "Export"}, false},
		{"prose wrapped", `Here you go: {"suggestions": ["Search"]}`, []string{"Search"}, false},
		{"empty list", `{"suggestions": []}`, []string{}, false},
		{"no json", "nothing", nil, true},
		{"wrong shape", `{"suggestions": "Search"}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuggestions(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSuggestions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSuggestions() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseLogoPrompt(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{"plain", "A minimal fox logo, vector.", "A minimal fox logo, vector.", false},
		{"quoted", `"A minimal fox logo"`, "A minimal fox logo", false},
		{"fenced", "```\nA minimal fox logo\n```", "A minimal fox logo", false},
		{"empty", "  \"\" ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogoPrompt(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogoPrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogoPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	onboard := CompanyOnboardPrompt("pet grooming")
	if !strings.Contains(onboard, "pet grooming") || !strings.Contains(onboard, `"companyName"`) {
		t.Errorf("CompanyOnboardPrompt missing topic or schema:\n%s", onboard)
	}

	details := ServiceDetails{ServiceName: "Groom Genie", Features: []string{"Appointment Booking"}}
	conventional := FeatureSuggestionPrompt(details, models.FeatureKindConventional)
	ai := FeatureSuggestionPrompt(details, models.FeatureKindAI)
	for _, p := range []string{conventional, ai} {
		if !strings.Contains(p, "Groom Genie") || !strings.Contains(p, "Appointment Booking") {
			t.Errorf("FeatureSuggestionPrompt missing service details:\n%s", p)
		}
	}
	if strings.Contains(conventional, "AI-powered") {
		t.Error("conventional prompt asks for AI features")
	}
	if !strings.Contains(ai, "AI-powered") {
		t.Error("AI prompt does not ask for AI features")
	}

	logo := LogoImagePrompt("Groom Genie", "Book grooming online.")
	if !strings.Contains(logo, "Groom Genie") || !strings.Contains(logo, "Book grooming online.") {
		t.Errorf("LogoImagePrompt missing details:\n%s", logo)
	}
}
