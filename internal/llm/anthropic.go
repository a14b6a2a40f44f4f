package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Anthropic Claude models
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Claude client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	resp, err := c.Generate(ctx, prompt, tier, GenerateOptions{})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Generate sends a single user message and reports the stop reason
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, tier ModelTier, opts GenerateOptions) (*Response, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(c.config.maxTokens(opts.MaxOutputTokens)),
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	return &Response{
		Text:         sb.String(),
		StopReason:   StopReason(message.StopReason),
		Model:        modelName,
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no resources that need releasing
func (c *AnthropicClient) Close() error {
	return nil
}
