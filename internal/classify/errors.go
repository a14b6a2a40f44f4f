package classify

import "fmt"

// DegradedError describes a classification that exhausted its attempts and fell back to defaults.
// It is never returned from Classify; the pipeline logs it and records it on the Outcome.
type DegradedError struct {
	Attempts int
	Category string
	Cause    error
}

func (e *DegradedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification degraded after %d attempts (using %s): %v", e.Attempts, e.Category, e.Cause)
	}
	return fmt.Sprintf("classification degraded after %d attempts (using %s)", e.Attempts, e.Category)
}

func (e *DegradedError) Unwrap() error {
	return e.Cause
}

// InvalidResponseError describes a single oracle response that did not yield a category and keywords
type InvalidResponseError struct {
	Message  string
	Response string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid classification response: %s", e.Message)
}
