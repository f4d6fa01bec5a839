package model

import "errors"

var (
	// Startup errors
	ErrConfiguration = errors.New("configuration error")
	ErrCredential    = errors.New("credential error")

	// Call errors
	ErrTransport        = errors.New("transport error")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode error")

	// Status classes reported by the API
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
