package ingestion

import "fmt"

// FetchError represents a failure to retrieve a job posting URL
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
