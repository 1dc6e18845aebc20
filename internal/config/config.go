// Package config provides unified configuration loading for corpsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/corpsim/internal/constants"
	"github.com/nvandessel/corpsim/internal/imagegen"
	"github.com/nvandessel/corpsim/internal/llm"
	"github.com/nvandessel/corpsim/internal/logging"
	"github.com/nvandessel/corpsim/internal/models"
	"github.com/nvandessel/corpsim/internal/valuation"
)

// DateLayout is the format of configured calendar dates.
const DateLayout = "2006-01-02"

// CorpsimConfig contains all corpsim configuration settings.
type CorpsimConfig struct {
	// LLM contains settings for the idea generator.
	LLM LLMConfig `json:"llm" yaml:"llm"`

	// Image contains settings for logo generation.
	Image ImageConfig `json:"image" yaml:"image"`

	// Simulation contains settings for the tick driver and valuation display.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Defaults holds the templates used when onboarding and planning.
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults"`

	// Logging contains settings for operational logging and the day trace.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Journal contains settings for the run journal.
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// LoggingConfig configures corpsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the day trace in ~/.corpsim/days.jsonl.
	// "trace" additionally logs every tick to stderr.
	Level string `json:"level" yaml:"level"`

	// Format is the stderr log format: "text" (default) or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// LLMConfig configures the idea generator.
type LLMConfig struct {
	// Provider identifies the LLM backend: "anthropic", "openai", "gemini", or "fallback".
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider. Supports ${VAR} syntax for env vars.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API endpoint URL for custom OpenAI-compatible endpoints.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier. Empty selects the provider's default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Timeout is the maximum duration to wait for LLM responses.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// FallbackToRules indicates whether to use the offline generator when the
	// provider has no credentials.
	FallbackToRules bool `json:"fallback_to_rules" yaml:"fallback_to_rules"`
}

// RedactedAPIKey returns the API key with most characters masked.
// Shows first 4 and last 4 characters, e.g., "sk-a...xyz9".
// Returns "" for empty keys and "(set)" for keys shorter than 12 chars.
func (c LLMConfig) RedactedAPIKey() string {
	return redact(c.APIKey)
}

// String implements fmt.Stringer to prevent accidental API key logging.
// It returns a representation with the API key redacted.
func (c LLMConfig) String() string {
	return fmt.Sprintf("LLMConfig{Provider:%s, APIKey:%s, Model:%s}",
		c.Provider, c.RedactedAPIKey(), c.Model)
}

// ClientConfig converts the settings into an llm.ClientConfig.
func (c LLMConfig) ClientConfig() llm.ClientConfig {
	return llm.ClientConfig{
		Provider:        c.Provider,
		APIKey:          c.APIKey,
		BaseURL:         c.BaseURL,
		Model:           c.Model,
		Timeout:         c.Timeout,
		FallbackToRules: c.FallbackToRules,
	}
}

// ImageConfig configures the image generator.
type ImageConfig struct {
	// Provider is "replicate" or "" to disable logo generation.
	Provider string `json:"provider" yaml:"provider"`

	// APIToken is the Replicate API token. Supports ${VAR} syntax for env vars.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// BaseURL overrides the Replicate endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Version is the diffusion model version. Empty selects stable-diffusion.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// NegativePrompt describes what images must not contain.
	NegativePrompt string `json:"negative_prompt,omitempty" yaml:"negative_prompt,omitempty"`

	// Timeout bounds each request to the image API.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RedactedAPIToken returns the API token with most characters masked.
func (c ImageConfig) RedactedAPIToken() string {
	return redact(c.APIToken)
}

// String implements fmt.Stringer with the token redacted.
func (c ImageConfig) String() string {
	return fmt.Sprintf("ImageConfig{Provider:%s, APIToken:%s}", c.Provider, c.RedactedAPIToken())
}

// ReplicateConfig converts the settings into an imagegen.ReplicateConfig.
func (c ImageConfig) ReplicateConfig() imagegen.ReplicateConfig {
	return imagegen.ReplicateConfig{
		APIToken:       c.APIToken,
		BaseURL:        c.BaseURL,
		Version:        c.Version,
		NegativePrompt: c.NegativePrompt,
		Timeout:        c.Timeout,
	}
}

// SimulationConfig configures the tick driver and valuation display.
type SimulationConfig struct {
	// TickInterval is the wall-clock time between simulated days.
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval"`

	// PERatio is the price/earnings ratio used for valuation.
	PERatio float64 `json:"pe_ratio" yaml:"pe_ratio"`

	// Market is the market condition: "growing" or "shrinking".
	Market string `json:"market" yaml:"market"`

	// StartDate is the calendar day worlds start at, as YYYY-MM-DD.
	StartDate string `json:"start_date" yaml:"start_date"`
}

// Start parses StartDate. An empty value yields the simulation epoch.
func (c SimulationConfig) Start() (time.Time, error) {
	if c.StartDate == "" {
		return constants.SimulationEpoch, nil
	}
	t, err := time.ParseInLocation(DateLayout, c.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q (want YYYY-MM-DD): %w", c.StartDate, err)
	}
	return t, nil
}

// MarketCondition parses Market.
func (c SimulationConfig) MarketCondition() (valuation.MarketCondition, error) {
	return valuation.ParseMarketCondition(c.Market)
}

// DefaultsConfig holds the templates applied to new companies, services and features.
type DefaultsConfig struct {
	Company             models.CompanyTemplate `json:"company" yaml:"company"`
	Service             models.ServiceTemplate `json:"service" yaml:"service"`
	ConventionalFeature models.FeatureTemplate `json:"conventional_feature" yaml:"conventional_feature"`
	AIFeature           models.FeatureTemplate `json:"ai_feature" yaml:"ai_feature"`
}

// FeatureTemplate returns the template for kind.
func (c DefaultsConfig) FeatureTemplate(kind models.FeatureKind) models.FeatureTemplate {
	if kind == models.FeatureKindAI {
		return c.AIFeature
	}
	return c.ConventionalFeature
}

// JournalConfig configures the run journal.
type JournalConfig struct {
	// Enabled turns journal recording on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file. Empty selects ~/.corpsim/journal.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns a CorpsimConfig with sensible defaults.
func Default() *CorpsimConfig {
	return &CorpsimConfig{
		LLM: LLMConfig{
			Provider:        llm.ProviderFallback,
			Timeout:         30 * time.Second,
			FallbackToRules: true,
		},
		Image: ImageConfig{
			Timeout: 60 * time.Second,
		},
		Simulation: SimulationConfig{
			TickInterval: constants.DefaultTickInterval,
			PERatio:      constants.DefaultPERatio,
			Market:       string(valuation.MarketGrowing),
			StartDate:    constants.SimulationEpoch.Format(DateLayout),
		},
		Defaults: DefaultsConfig{
			Company:             models.DefaultCompanyTemplate(),
			Service:             models.DefaultServiceTemplate(),
			ConventionalFeature: models.ConventionalFeatureTemplate(),
			AIFeature:           models.AIFeatureTemplate(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}

// DefaultPath returns ~/.corpsim/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".corpsim", "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.corpsim/config.yaml -> environment variables
func Load() (*CorpsimConfig, error) {
	return LoadPath("")
}

// LoadPath is Load with an explicit config file. An empty path selects the
// default location. A missing file at the default location is not an error;
// a missing explicit file is.
func LoadPath(path string) (*CorpsimConfig, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil || explicit {
			fileConfig, loadErr := LoadFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*CorpsimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in secrets
	config.LLM.APIKey = expandEnvVars(config.LLM.APIKey)
	config.Image.APIToken = expandEnvVars(config.Image.APIToken)

	return config, nil
}

// Save writes the configuration to path, creating its directory.
func (c *CorpsimConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *CorpsimConfig) Validate() error {
	validProviders := map[string]bool{
		llm.ProviderAnthropic: true,
		llm.ProviderOpenAI:    true,
		llm.ProviderGemini:    true,
		llm.ProviderFallback:  true,
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid provider: %s (valid: anthropic, openai, gemini, fallback)", c.LLM.Provider)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.LLM.Timeout)
	}

	if c.Image.Provider != "" && c.Image.Provider != "replicate" {
		return fmt.Errorf("invalid image provider: %s (valid: replicate, or empty to disable)", c.Image.Provider)
	}

	if c.Simulation.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.Simulation.TickInterval)
	}

	if c.Simulation.PERatio <= 0 {
		return fmt.Errorf("pe_ratio must be positive, got %f", c.Simulation.PERatio)
	}

	if _, err := c.Simulation.MarketCondition(); err != nil {
		return err
	}

	if _, err := c.Simulation.Start(); err != nil {
		return err
	}

	if err := validateDefaults(c.Defaults); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Logging.Format)
	}

	return nil
}

func validateDefaults(d DefaultsConfig) error {
	if d.Company.Employees < 0 {
		return fmt.Errorf("defaults.company.employees must be non-negative, got %d", d.Company.Employees)
	}
	if d.Company.Employees > 0 && d.Company.Salary <= 0 {
		return fmt.Errorf("defaults.company.salary must be positive, got %f", d.Company.Salary)
	}

	if !d.Service.BillingModel.Valid() {
		return fmt.Errorf("invalid defaults.service.billing_model: %s (valid: free, freemium, subscription)", d.Service.BillingModel)
	}
	if d.Service.DailyAttritionRate < 0 || d.Service.DailyAttritionRate >= 1 {
		return fmt.Errorf("defaults.service.daily_attrition_rate must be in [0, 1), got %f", d.Service.DailyAttritionRate)
	}
	if d.Service.Users < 0 {
		return fmt.Errorf("defaults.service.users must be non-negative, got %f", d.Service.Users)
	}

	for name, f := range map[string]models.FeatureTemplate{
		"conventional_feature": d.ConventionalFeature,
		"ai_feature":           d.AIFeature,
	} {
		if f.DevelopmentCostDays <= 0 {
			return fmt.Errorf("defaults.%s.development_cost_days must be positive, got %f", name, f.DevelopmentCostDays)
		}
		if f.PerUserHostingCost < 0 || f.PerUserLicenseCost < 0 || f.PopularityMetric < 0 || f.MaintenanceCostDaysPerMonth < 0 {
			return fmt.Errorf("defaults.%s costs and popularity must be non-negative", name)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *CorpsimConfig) {
	if v := os.Getenv("CORPSIM_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}

	if v := os.Getenv("CORPSIM_LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}

	if v := os.Getenv("CORPSIM_LLM_BASE_URL"); v != "" {
		config.LLM.BaseURL = v
	}

	providerKeys := map[string]string{
		llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
		llm.ProviderOpenAI:    "OPENAI_API_KEY",
		llm.ProviderGemini:    "GEMINI_API_KEY",
	}
	if env, ok := providerKeys[config.LLM.Provider]; ok {
		if v := os.Getenv(env); v != "" {
			config.LLM.APIKey = v
		}
	}

	if v := os.Getenv("REPLICATE_API_TOKEN"); v != "" {
		config.Image.APIToken = v
		if config.Image.Provider == "" {
			config.Image.Provider = "replicate"
		}
	}

	if v := os.Getenv("CORPSIM_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Simulation.TickInterval = d
		}
	}

	if v := os.Getenv("CORPSIM_PE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.PERatio = f
		}
	}

	if v := os.Getenv("CORPSIM_MARKET"); v != "" {
		config.Simulation.Market = v
	}

	if v := os.Getenv("CORPSIM_START_DATE"); v != "" {
		config.Simulation.StartDate = v
	}

	if v := os.Getenv("CORPSIM_JOURNAL"); v != "" {
		config.Journal.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("CORPSIM_JOURNAL_PATH"); v != "" {
		config.Journal.Path = v
	}

	if v := os.Getenv("CORPSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("CORPSIM_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 12 {
		return "(set)"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
