// Package extraction recovers the tailored resume JSON object from free-form model output.
//
// Models wrap JSON in prose and markdown, stop mid-object at the token limit, and put literal
// braces inside bullet text. Extract tries an ordered ladder of strategies and accepts the first
// candidate that decodes as exactly one JSON object.
package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Strategy names the ladder step that produced the object
type Strategy string

// Ladder steps, in the order they are attempted
const (
	StrategyDirect          Strategy = "direct"
	StrategyDepthScan       Strategy = "depth_scan"
	StrategyBackwardScan    Strategy = "backward_scan"
	StrategyProgressiveTrim Strategy = "progressive_trim"
	StrategyTrailingCommas  Strategy = "trailing_commas"
)

const (
	// trimStep is the number of trailing bytes dropped per progressive trim attempt
	trimStep = 8
	// maxTrimAttempts bounds the progressive trim
	maxTrimAttempts = 64
)

// Result is a successful extraction
type Result struct {
	Content  *types.TailoredContent
	Strategy Strategy
	// JSON is the exact object text that was decoded
	JSON string
}

// Extract returns the tailored content found in raw model output
func Extract(raw string) (*types.TailoredContent, error) {
	result, err := ExtractResult(raw)
	if err != nil {
		return nil, err
	}
	return result.Content, nil
}

// ExtractResult is Extract with the winning strategy and object text
func ExtractResult(raw string) (*Result, error) {
	cleaned := Preprocess(raw)

	if IsRefusal(cleaned) {
		return nil, &Error{Kind: KindRefused, Message: "model declined to produce content: " + snippet(cleaned, 120)}
	}

	if !strings.Contains(cleaned, "{") {
		return nil, &Error{Kind: KindNoJSONFound, Message: "response contains no JSON object"}
	}

	object, strategy, err := findObject(cleaned)
	if err != nil {
		return nil, err
	}

	content, err := decodeTailored(object)
	if err != nil {
		return nil, err
	}

	return &Result{Content: content, Strategy: strategy, JSON: object}, nil
}

// findObject runs the ladder and returns the first candidate that parses
func findObject(cleaned string) (string, Strategy, error) {
	var lastErr error
	try := func(candidate string) bool {
		err := parseSingleObject(candidate)
		if err != nil {
			lastErr = err
			return false
		}
		return true
	}

	if try(cleaned) {
		return cleaned, StrategyDirect, nil
	}

	first := strings.IndexByte(cleaned, '{')

	balanced := ""
	if end := matchingBrace(cleaned, first); end >= 0 {
		balanced = cleaned[first : end+1]
		if try(balanced) {
			return balanced, StrategyDepthScan, nil
		}
	}

	tail := cleaned[first:]
	if candidate, ok := backwardScan(tail, try); ok {
		return candidate, StrategyBackwardScan, nil
	}

	if candidate, ok := progressiveTrim(tail, try); ok {
		return candidate, StrategyProgressiveTrim, nil
	}

	if balanced != "" {
		if repaired := removeTrailingCommas(balanced); repaired != balanced && try(repaired) {
			return repaired, StrategyTrailingCommas, nil
		}
	}

	return "", "", &Error{
		Kind:    KindUnparsableJSON,
		Message: "no strategy produced a valid JSON object",
		Cause:   lastErr,
	}
}

// backwardScan tries the whole tail, then every prefix ending at a '}' from the last one backward
func backwardScan(tail string, try func(string) bool) (string, bool) {
	if try(tail) {
		return tail, true
	}
	for end := strings.LastIndexByte(tail, '}'); end > 0; end = strings.LastIndexByte(tail[:end], '}') {
		if candidate := tail[:end+1]; try(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// progressiveTrim strips trailing separator lines, then shortens the candidate by a fixed step
func progressiveTrim(tail string, try func(string) bool) (string, bool) {
	candidate := stripTrailingSeparators(tail)
	for attempt := 0; attempt <= maxTrimAttempts && candidate != ""; attempt++ {
		if try(candidate) {
			return candidate, true
		}
		if len(candidate) <= trimStep {
			break
		}
		candidate = strings.TrimRight(candidate[:len(candidate)-trimStep], " \t\r\n")
	}
	return "", false
}

// parseSingleObject accepts exactly one JSON object and nothing after it
func parseSingleObject(candidate string) error {
	trimmed := strings.TrimSpace(candidate)
	if !strings.HasPrefix(trimmed, "{") {
		return errors.New("candidate does not start with '{'")
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// decodeTailored checks the required fields and decodes the object
func decodeTailored(object string) (*types.TailoredContent, error) {
	if err := schemas.Validate(schemas.TailoredContent, []byte(object)); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fieldError(validationErr)
		}
		return nil, &Error{Kind: KindUnparsableJSON, Message: "schema check failed", Cause: err}
	}

	var content types.TailoredContent
	dec := json.NewDecoder(bytes.NewReader([]byte(object)))
	if err := dec.Decode(&content); err != nil {
		return nil, &Error{Kind: KindUnparsableJSON, Message: "object does not match the tailored content shape", Cause: err}
	}
	return &content, nil
}

var requiredFields = map[string]bool{"title": true, "summary": true, "skills": true, "experience": true}

// fieldError maps schema violations to a typed error. Problems with a required field itself
// (absent, null, blank or wrong type) are MissingRequiredFields; anything deeper is a shape error.
func fieldError(validationErr *schemas.ValidationError) error {
	var missing []string
	for _, fe := range validationErr.Errors {
		if requiredFields[fe.Field] {
			missing = appendUnique(missing, fe.Field)
		}
	}
	if len(missing) > 0 {
		return &Error{
			Kind:    KindMissingRequiredFields,
			Message: "response missing required fields",
			Fields:  missing,
			Cause:   validationErr,
		}
	}
	return &Error{
		Kind:    KindUnparsableJSON,
		Message: "object does not match the tailored content shape",
		Fields:  validationErr.Fields(),
		Cause:   validationErr,
	}
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
