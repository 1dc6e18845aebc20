package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/sanitize"
)

// CompanyOnboardPrompt asks for one fictitious company, service and launch
// roadmap inspired by topic.
func CompanyOnboardPrompt(topic string) string {
	return fmt.Sprintf(`You will act as a fake company name generator. Based on the provided topic, suggest one
online software service that could be provided by a new technology company, along with the name
of the new service and the new company.

The idea must be unique and new, but it must be inspired by the provided topic. The service name
and company name must not correspond to any known company or service in existence, although it is
fine if an existing company does something similar. Names must be in title case, like "Cool
Company", not PascalCase like "CoolCompany".

## Topic
%s

## Response Format
Respond with ONLY a JSON object (no markdown code blocks, no additional text):
{
  "companyName": "<company name>",
  "serviceName": "<service name>",
  "serviceDescription": "<one or two sentences>",
  "features": [<%d short feature names, two to six words each, that the service needs to be usable>]
}`, topic, constants.SuggestionCount)
}

// FeatureSuggestionPrompt asks for new features for an existing service.
// AI suggestions are steered toward features powered by machine learning.
func FeatureSuggestionPrompt(details ServiceDetails, kind models.FeatureKind) string {
	detailsJSON, _ := json.MarshalIndent(details, "", "  ")

	flavor := "appropriate incremental features"
	if kind == models.FeatureKindAI {
		flavor = "AI-powered features (large language models, recommendations, prediction, generation)"
	}

	return fmt.Sprintf(`You will act as a fake software service feature generator. Based on the provided details about
an existing software service and its existing features, suggest %d new features that would be
%s to add to the service.

Each feature must be unique, must not duplicate any existing feature, and must fit the name and
description of the service. Keep each feature to a short name of two to six words.

## Service
%s

## Response Format
Respond with ONLY a JSON object (no markdown code blocks, no additional text):
{
  "suggestions": [<%d feature names>]
}`, constants.SuggestionCount, flavor, string(detailsJSON), constants.SuggestionCount)
}

// LogoImagePrompt asks for a text-to-image prompt describing a logo.
func LogoImagePrompt(serviceName, serviceDescription string) string {
	return fmt.Sprintf(`Generate a concise, specific prompt for a text-to-image model to generate a logo for a
subscription service named %s.

The prompt must specify the image style and include specific details of the subject.

Examples of prompts for logos:
 - Logo design, logo style, modern, luxurious, geometrical, vector, symmetrical, white background.
 - E-sports logo, lion, vector art, black & white.
 - A modern and sleek logo for a virtual reality company, futuristic, 3D geometric shape, gradient color scheme.
 - A colorful and whimsical logo for a toy store with a friendly teddy bear and a playful font.

The service %s is described as follows: %s

The logo should be inspired by or somehow represent the service based on its name and description.

Respond only with the prompt for the logo, with no other text before or after the prompt.`,
		serviceName, serviceName, serviceDescription)
}

// ParseCompanyIdea parses the onboarding response and cleans every name.
func ParseCompanyIdea(response string) (*CompanyIdea, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var idea CompanyIdea
	if err := json.Unmarshal([]byte(jsonStr), &idea); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	idea.CompanyName = sanitize.Name(idea.CompanyName)
	idea.ServiceName = sanitize.Name(idea.ServiceName)
	idea.ServiceDescription = sanitize.Description(idea.ServiceDescription)
	idea.Features = sanitize.Names(idea.Features)

	if idea.CompanyName == "" {
		return nil, fmt.Errorf("companyName is empty")
	}
	if idea.ServiceName == "" {
		return nil, fmt.Errorf("serviceName is empty")
	}

	return &idea, nil
}

// ParseSuggestions parses a {"suggestions": [...]} response. A bare JSON
// array is accepted too.
func ParseSuggestions(response string) ([]string, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var names []string
	if strings.HasPrefix(jsonStr, "[") {
		if err := json.Unmarshal([]byte(jsonStr), &names); err != nil {
			return nil, fmt.Errorf("parsing JSON array: %w", err)
		}
	} else {
		var parsed struct {
			Suggestions []string `json:"suggestions"`
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		names = parsed.Suggestions
	}

	return sanitize.Names(names), nil
}

// ParseLogoPrompt cleans a free-text logo prompt.
func ParseLogoPrompt(response string) (string, error) {
	s := strings.TrimSpace(response)
	if m := reFencedBlock.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	s = strings.Trim(s, " \n\t\"'")
	s = sanitize.Description(s)
	if s == "" {
		return "", fmt.Errorf("empty logo prompt")
	}
	return s, nil
}

var (
	reJSONBlock   = regexp.MustCompile("(?s)```json\\s*\\n?(.*?)\\s*```")
	reFencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)\\s*```")
)

// ExtractJSON attempts to extract JSON from a response that might contain
// markdown code blocks or surrounding prose.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try to extract from markdown code block with json language tag
	if matches := reJSONBlock.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Try to extract from generic markdown code block
	if matches := reFencedBlock.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Check if the string itself looks like JSON (starts with { or [)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	// Fall back to the outermost object embedded in prose.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}

	return ""
}
