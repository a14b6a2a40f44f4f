package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultMaxOutputTokens, config.MaxOutputTokens)
}

func TestDefaultConfigFor(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		expected Provider
	}{
		{name: "gemini", provider: ProviderGemini, expected: ProviderGemini},
		{name: "anthropic", provider: ProviderAnthropic, expected: ProviderAnthropic},
		{name: "unknown falls back to gemini", provider: "mystery", expected: ProviderGemini},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultConfigFor(tt.provider).Provider)
		})
	}
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.MaxOutputTokens, newConfig.MaxOutputTokens)
}

func TestMaxTokens(t *testing.T) {
	config := &Config{MaxOutputTokens: 4000}
	assert.Equal(t, 4000, config.maxTokens(0))
	assert.Equal(t, 1200, config.maxTokens(1200))

	empty := &Config{}
	assert.Equal(t, DefaultMaxOutputTokens, empty.maxTokens(0))
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("anthropic"), ProviderAnthropic)
}
