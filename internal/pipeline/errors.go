package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoClient is returned when a request needs a model call but no client was configured
var ErrNoClient = errors.New("no LLM client configured")

// StepError wraps a hard failure with the step that produced it
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// GenerationError represents a failed tailoring call
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation error: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
