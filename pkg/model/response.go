package model

import (
	"net/http"

	"go-docman-client/pkg/apierror"
)

// Response is the envelope returned for every DocMan call.
// Payload is only meaningful when IsSuccess is true; Error is only set when it is false.
type Response[T any] struct {
	Payload    T                  `json:"payload"`
	IsSuccess  bool               `json:"isSuccess"`
	StatusCode int                `json:"statusCode"`
	Error      *apierror.APIError `json:"error,omitempty"`
	Headers    http.Header        `json:"headers,omitempty"`
}

// Err returns the envelope's error detail as an error, or nil on success.
func (r *Response[T]) Err() error {
	if r == nil || r.IsSuccess || r.Error == nil {
		return nil
	}
	return r.Error
}

// NoContent is the payload of calls whose success carries no body.
type NoContent struct{}

// APIResponse is the body shape the DocMan API uses for error replies.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
