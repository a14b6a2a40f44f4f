// Package llm provides centralized LLM configuration and client abstractions.
// The tailoring pipeline treats every provider as a black box that returns raw text plus stop-reason metadata.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: job classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: resume tailoring
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// DefaultMaxOutputTokens bounds a single generation when the caller does not set a limit
const DefaultMaxOutputTokens = 8192

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	MaxOutputTokens int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-0",
			TierAdvanced: "claude-sonnet-4-0",
		},
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// DefaultConfigFor returns the default configuration for a provider.
// Unknown providers get the Gemini defaults.
func DefaultConfigFor(provider Provider) *Config {
	if provider == ProviderAnthropic {
		return DefaultAnthropicConfig()
	}
	return DefaultGeminiConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:        c.Provider,
		Models:          make(map[ModelTier]string),
		MaxOutputTokens: c.MaxOutputTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// maxTokens resolves the output token limit for a request
func (c *Config) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	if c.MaxOutputTokens > 0 {
		return c.MaxOutputTokens
	}
	return DefaultMaxOutputTokens
}
