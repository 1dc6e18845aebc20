package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nvandessel/corpsim/internal/models"
)

// Keys lists the dot-notation keys accepted by Get and Set, in display order.
func Keys() []string {
	return []string{
		"llm.provider",
		"llm.api_key",
		"llm.base_url",
		"llm.model",
		"llm.timeout",
		"llm.fallback_to_rules",
		"image.provider",
		"image.api_token",
		"image.base_url",
		"image.version",
		"image.negative_prompt",
		"simulation.tick_interval",
		"simulation.pe_ratio",
		"simulation.market",
		"simulation.start_date",
		"defaults.company.financial_assets",
		"defaults.company.employees",
		"defaults.company.salary",
		"defaults.service.billing_model",
		"defaults.service.daily_attrition_rate",
		"defaults.service.hosting_cost",
		"defaults.service.subscription_fee",
		"logging.level",
		"logging.format",
		"journal.enabled",
		"journal.path",
	}
}

// Get retrieves a configuration value by dot-notation key. Secrets are
// returned redacted.
func (c *CorpsimConfig) Get(key string) (interface{}, bool) {
	switch key {
	case "llm.provider":
		return c.LLM.Provider, true
	case "llm.api_key":
		return c.LLM.RedactedAPIKey(), true
	case "llm.base_url":
		return c.LLM.BaseURL, true
	case "llm.model":
		return c.LLM.Model, true
	case "llm.timeout":
		return c.LLM.Timeout.String(), true
	case "llm.fallback_to_rules":
		return c.LLM.FallbackToRules, true
	case "image.provider":
		return c.Image.Provider, true
	case "image.api_token":
		return c.Image.RedactedAPIToken(), true
	case "image.base_url":
		return c.Image.BaseURL, true
	case "image.version":
		return c.Image.Version, true
	case "image.negative_prompt":
		return c.Image.NegativePrompt, true
	case "simulation.tick_interval":
		return c.Simulation.TickInterval.String(), true
	case "simulation.pe_ratio":
		return c.Simulation.PERatio, true
	case "simulation.market":
		return c.Simulation.Market, true
	case "simulation.start_date":
		return c.Simulation.StartDate, true
	case "defaults.company.financial_assets":
		return c.Defaults.Company.FinancialAssets, true
	case "defaults.company.employees":
		return c.Defaults.Company.Employees, true
	case "defaults.company.salary":
		return c.Defaults.Company.Salary, true
	case "defaults.service.billing_model":
		return string(c.Defaults.Service.BillingModel), true
	case "defaults.service.daily_attrition_rate":
		return c.Defaults.Service.DailyAttritionRate, true
	case "defaults.service.hosting_cost":
		return c.Defaults.Service.HostingCost, true
	case "defaults.service.subscription_fee":
		return c.Defaults.Service.SubscriptionFee, true
	case "logging.level":
		return c.Logging.Level, true
	case "logging.format":
		return c.Logging.Format, true
	case "journal.enabled":
		return c.Journal.Enabled, true
	case "journal.path":
		return c.Journal.Path, true
	default:
		return nil, false
	}
}

// Set parses value and stores it under the dot-notation key. The whole
// configuration is validated afterwards; on failure nothing is changed.
func (c *CorpsimConfig) Set(key, value string) error {
	next := *c
	if err := next.set(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *CorpsimConfig) set(key, value string) error {
	switch key {
	case "llm.provider":
		c.LLM.Provider = value
	case "llm.api_key":
		c.LLM.APIKey = value
	case "llm.base_url":
		c.LLM.BaseURL = value
	case "llm.model":
		c.LLM.Model = value
	case "llm.timeout":
		return setDuration(&c.LLM.Timeout, value)
	case "llm.fallback_to_rules":
		c.LLM.FallbackToRules = parseBool(value)
	case "image.provider":
		c.Image.Provider = value
	case "image.api_token":
		c.Image.APIToken = value
	case "image.base_url":
		c.Image.BaseURL = value
	case "image.version":
		c.Image.Version = value
	case "image.negative_prompt":
		c.Image.NegativePrompt = value
	case "simulation.tick_interval":
		return setDuration(&c.Simulation.TickInterval, value)
	case "simulation.pe_ratio":
		return setFloat(&c.Simulation.PERatio, value)
	case "simulation.market":
		c.Simulation.Market = value
	case "simulation.start_date":
		c.Simulation.StartDate = value
	case "defaults.company.financial_assets":
		return setFloat(&c.Defaults.Company.FinancialAssets, value)
	case "defaults.company.employees":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		c.Defaults.Company.Employees = n
	case "defaults.company.salary":
		return setFloat(&c.Defaults.Company.Salary, value)
	case "defaults.service.billing_model":
		b, err := models.ParseBillingModel(value)
		if err != nil {
			return err
		}
		c.Defaults.Service.BillingModel = b
	case "defaults.service.daily_attrition_rate":
		return setFloat(&c.Defaults.Service.DailyAttritionRate, value)
	case "defaults.service.hosting_cost":
		return setFloat(&c.Defaults.Service.HostingCost, value)
	case "defaults.service.subscription_fee":
		return setFloat(&c.Defaults.Service.SubscriptionFee, value)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "journal.enabled":
		c.Journal.Enabled = parseBool(value)
	case "journal.path":
		c.Journal.Path = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setDuration(dst *time.Duration, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration: %s", value)
	}
	*dst = d
	return nil
}

func setFloat(dst *float64, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number: %s", value)
	}
	*dst = f
	return nil
}

func parseBool(value string) bool {
	return value == "true" || value == "1"
}
