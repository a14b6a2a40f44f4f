package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/pipeline/steps"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a named resource does not exist
type ErrNotFound struct {
	Resource string
	Message  string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		missing    *ErrNotFound
		notFound   *experience.NotFoundError
		extract    *extraction.Error
		generation *pipeline.GenerationError
		dependency *steps.DependencyError
		fetch      *ingestion.FetchError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &missing), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &extract):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dependency):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrNoClient):
		return http.StatusServiceUnavailable
	case errors.As(err, &generation), errors.As(err, &fetch):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
