package llm

import "strings"

// StopReason is the provider-reported reason a generation ended, normalized to a string
type StopReason string

// Stop reasons reported by the supported providers
const (
	StopReasonEnd             StopReason = "end_turn"
	StopReasonMaxTokens       StopReason = "max_tokens"
	StopReasonLength          StopReason = "length"
	StopReasonGeminiStop      StopReason = "STOP"
	StopReasonGeminiMaxTokens StopReason = "MAX_TOKENS"
	StopReasonUnknown         StopReason = ""
)

// IsTruncation reports whether the stop reason means the output hit the token limit
func (r StopReason) IsTruncation() bool {
	switch strings.ToLower(string(r)) {
	case "max_tokens", "length":
		return true
	}
	return false
}

// Response is the raw output of one generation call
type Response struct {
	Text         string
	StopReason   StopReason
	Model        string
	InputTokens  int
	OutputTokens int
}

// Truncated reports whether the provider cut the output at the token limit
func (r *Response) Truncated() bool {
	return r != nil && r.StopReason.IsTruncation()
}

// GenerateOptions tunes a single generation call
type GenerateOptions struct {
	// MaxOutputTokens overrides Config.MaxOutputTokens when positive
	MaxOutputTokens int
	// Temperature overrides the client default when non-nil
	Temperature *float32
	// JSON asks providers that support it for a JSON response MIME type
	JSON bool
}
