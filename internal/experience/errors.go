// Package experience loads canonical resumes from a file tree or any other Store.
package experience

import (
	"fmt"
	"strings"
)

// LoadError represents an error during file I/O, JSON parsing or validation
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NotFoundError reports that no canonical resume exists for a profile
type NotFoundError struct {
	Profile string
	Variant string
	Tried   []string
}

func (e *NotFoundError) Error() string {
	if len(e.Tried) > 0 {
		return fmt.Sprintf("canonical resume for %q (%s) not found; tried: %s", e.Profile, e.Variant, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("canonical resume for %q (%s) not found", e.Profile, e.Variant)
}
