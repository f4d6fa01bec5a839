package apierror

import (
	"errors"
	"fmt"
)

// APIError is the failure detail carried by a DocMan response envelope.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"status,omitempty"`
	Resource   string `json:"resource,omitempty"`
	Operation  string `json:"operation,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	prefix := e.Code
	if e.Resource != "" && e.Operation != "" {
		prefix = fmt.Sprintf("%s.%s: %s", e.Resource, e.Operation, e.Code)
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", prefix, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// WithCause attaches the sentinel or transport error matched by errors.Is.
func (e *APIError) WithCause(cause error) *APIError {
	e.cause = cause
	return e
}

// WithOperation records which route produced the error.
func (e *APIError) WithOperation(resource string, operation string) *APIError {
	e.Resource = resource
	e.Operation = operation
	return e
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// As extracts an *APIError from err, or returns nil.
func As(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
