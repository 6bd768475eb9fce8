package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes shared by every surface. Wrap them with %w and test with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("pipeline unavailable")
	ErrInvariant    = errors.New("internal invariant violated")
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Kind    string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "invalid_request",
		Message: message,
	}
}

func NewRequestTooLargeError(limit int64) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestEntityTooLarge,
		Kind:    "request_too_large",
		Message: "Request body too large",
		Detail:  fmt.Sprintf("limit is %d bytes", limit),
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "validation_failed",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewUnavailableError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusServiceUnavailable,
		Kind:    "pipeline_unavailable",
		Message: "Compile pipeline unavailable",
		Detail:  detail,
	}
}

func NewRateLimitedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusTooManyRequests,
		Kind:    "pipeline_unavailable",
		Message: "Too many compile requests",
		Detail:  detail,
	}
}

func NewInvariantError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "internal_invariant",
		Message: "Document could not be rendered",
		Detail:  detail,
	}
}

func NewNotFoundError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Kind:    "not_found",
		Message: message,
	}
}

// ClassifyError maps an error onto its HTTP representation.
// Anything outside the known classes is reported as an invariant failure.
func ClassifyError(err error) *CustomError {
	var custom *CustomError
	switch {
	case errors.As(err, &custom):
		return custom
	case errors.Is(err, ErrInvalidInput):
		return NewValidationError(err.Error())
	case errors.Is(err, ErrUnavailable):
		return NewUnavailableError(err.Error())
	default:
		return NewInvariantError(err.Error())
	}
}
