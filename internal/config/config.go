// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/llm"
)

// Environment variables that override values from the config file
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvDatabaseURL     = "DATABASE_URL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Oracle
	Provider        string `json:"provider,omitempty" validate:"omitempty,oneof=gemini anthropic"`
	LiteModel       string `json:"lite_model,omitempty"`     // Model used for job classification
	StandardModel   string `json:"standard_model,omitempty"` // Model used for structured output
	AdvancedModel   string `json:"advanced_model,omitempty"` // Model used for resume tailoring
	MaxOutputTokens int    `json:"max_output_tokens,omitempty" validate:"gte=0"`

	// Keys
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`

	// Paths
	ResumeDir    string `json:"resume_dir,omitempty"`    // Directory of canonical resume JSON files
	RegistryPath string `json:"registry_path,omitempty"` // Profile registry YAML
	OutputDir    string `json:"output_dir,omitempty"`    // Where tailored resumes are written

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	LogLevel    string `json:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	Verbose     bool   `json:"verbose,omitempty"` // Print detailed debug information
	Concurrency int    `json:"concurrency,omitempty" validate:"gte=0,lte=64"`
}

// Defaults returns the values used when neither the config file nor a flag sets a field
func Defaults() Config {
	return Config{
		Provider:        string(llm.ProviderGemini),
		MaxOutputTokens: llm.DefaultMaxOutputTokens,
		ResumeDir:       "resumes",
		OutputDir:       "output",
		LogLevel:        "info",
		Concurrency:     4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides keys and the database URL with values from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvAnthropicAPIKey); v != "" {
		c.AnthropicAPIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.RegistryPath != "" {
		if _, err := os.Stat(c.RegistryPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: registry file not found: %s", c.RegistryPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.Provider, defaults.Provider)
	fillString(&result.LiteModel, defaults.LiteModel)
	fillString(&result.StandardModel, defaults.StandardModel)
	fillString(&result.AdvancedModel, defaults.AdvancedModel)
	fillString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fillString(&result.AnthropicAPIKey, defaults.AnthropicAPIKey)
	fillString(&result.ResumeDir, defaults.ResumeDir)
	fillString(&result.RegistryPath, defaults.RegistryPath)
	fillString(&result.OutputDir, defaults.OutputDir)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.LogLevel, defaults.LogLevel)

	// Int fields: use default if zero
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// LLMConfig builds the oracle configuration, starting from the provider defaults
// and overriding any model tier set in the config.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfigFor(llm.Provider(strings.ToLower(c.Provider)))
	overrides := map[llm.ModelTier]string{
		llm.TierLite:     c.LiteModel,
		llm.TierStandard: c.StandardModel,
		llm.TierAdvanced: c.AdvancedModel,
	}
	for tier, model := range overrides {
		if model != "" {
			cfg.Models[tier] = model
		}
	}
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.MaxOutputTokens
	}
	return cfg
}

// APIKey returns the key matching the configured provider
func (c *Config) APIKey() string {
	if llm.Provider(strings.ToLower(c.Provider)) == llm.ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}
