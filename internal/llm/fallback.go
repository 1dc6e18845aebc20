package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/sanitize"
	"github.com/nvandessel/corpsim/internal/similarity"
)

// maxFallbackRounds bounds how many versioned passes over a catalog the
// fallback makes when looking for novel names.
const maxFallbackRounds = 100

var conventionalCatalog = []string{
	"User Accounts",
	"Full Text Search",
	"Email Notifications",
	"Billing Portal",
	"Team Workspaces",
	"Activity Feed",
	"Mobile App",
	"Data Export",
	"Single Sign On",
	"Audit Log",
	"Public API",
	"Usage Dashboard",
	"Role Permissions",
	"Dark Mode",
	"Bulk Import",
	"Webhook Integrations",
	"Two Factor Authentication",
	"Saved Filters",
	"Comment Threads",
	"File Attachments",
	"Calendar Sync",
	"Custom Branding",
	"Offline Access",
	"Help Center",
}

var aiCatalog = []string{
	"Smart Recommendations",
	"Conversational Assistant",
	"Automatic Summaries",
	"Predictive Insights",
	"Image Generation",
	"Semantic Search",
	"Anomaly Detection",
	"Draft Autocomplete",
	"Voice Transcription",
	"Sentiment Analysis",
	"Auto Tagging",
	"Churn Prediction",
	"Language Translation",
	"Content Moderation",
	"Forecasting Engine",
	"Personalized Onboarding",
	"Document Question Answering",
	"Meeting Notes Copilot",
	"Fraud Scoring",
	"Code Generation",
	"Trend Spotting",
	"Intelligent Routing",
	"Photo Enhancement",
	"Support Chatbot",
}

// FallbackClient implements the Client interface without any network
// access. Names are derived deterministically from the topic and from fixed
// catalogs, so a simulation can run offline.
type FallbackClient struct{}

// NewFallbackClient creates a new FallbackClient.
func NewFallbackClient() *FallbackClient {
	return &FallbackClient{}
}

// GenerateCompany names a company and service after the topic and gives it
// the first conventional catalog entries as its launch roadmap.
func (c *FallbackClient) GenerateCompany(ctx context.Context, topic string) (*CompanyIdea, error) {
	words := strings.Fields(sanitize.Name(topic))
	if len(words) > 3 {
		words = words[:3]
	}
	base := "Generic"
	if len(words) > 0 {
		// Casers are stateful, so each call gets its own.
		base = cases.Title(language.English).String(strings.ToLower(strings.Join(words, " ")))
	}

	features := make([]string, 0, constants.SuggestionCount)
	for i := 0; i < constants.SuggestionCount && i < len(conventionalCatalog); i++ {
		features = append(features, conventionalCatalog[i])
	}

	return &CompanyIdea{
		CompanyName:        base + " Labs",
		ServiceName:        base + " Hub",
		ServiceDescription: fmt.Sprintf("An online service for everything %s.", strings.ToLower(base)),
		Features:           features,
	}, nil
}

// SuggestFeatures walks the catalog for kind, skipping names that duplicate
// details.Features. Once the catalog is exhausted it continues with
// versioned names ("Audit Log v2"), so the supply never runs dry.
func (c *FallbackClient) SuggestFeatures(ctx context.Context, details ServiceDetails, kind models.FeatureKind) ([]string, error) {
	catalog := conventionalCatalog
	if kind == models.FeatureKindAI {
		catalog = aiCatalog
	}

	existing := append([]string(nil), details.Features...)
	suggestions := make([]string, 0, constants.SuggestionCount)

	for round := 1; round <= maxFallbackRounds && len(suggestions) < constants.SuggestionCount; round++ {
		candidates := make([]string, len(catalog))
		for i, name := range catalog {
			if round == 1 {
				candidates[i] = name
			} else {
				candidates[i] = fmt.Sprintf("%s v%d", name, round)
			}
		}

		novel := similarity.FilterNovel(candidates, existing, constants.DuplicateFeatureThreshold)
		for _, name := range novel {
			if len(suggestions) == constants.SuggestionCount {
				break
			}
			suggestions = append(suggestions, name)
		}
		existing = append(existing, novel...)
	}

	return suggestions, nil
}

// LogoPrompt fills a fixed logo template with the service's name and description.
func (c *FallbackClient) LogoPrompt(ctx context.Context, serviceName, serviceDescription string) (string, error) {
	prompt := fmt.Sprintf("Logo design for %s, modern, minimal, flat vector, geometric, white background", serviceName)
	if desc := strings.TrimSpace(serviceDescription); desc != "" {
		prompt += ", inspired by: " + desc
	}
	return sanitize.Description(prompt), nil
}

// Available returns false because the fallback does not use a language model.
func (c *FallbackClient) Available() bool {
	return false
}
