package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestAPIError_Error(t *testing.T) {
	t.Run("code and message", func(t *testing.T) {
		err := New("NOT_FOUND", "File not found", "", http.StatusNotFound)
		assert.Equal(t, "NOT_FOUND: File not found", err.Error())
	})

	t.Run("with details and operation", func(t *testing.T) {
		err := New("BAD_REQUEST", "Invalid input", "name too long", http.StatusBadRequest).
			WithOperation("File", "Insert")
		assert.Equal(t, "File.Insert: BAD_REQUEST: Invalid input (name too long)", err.Error())
	})

	t.Run("nil receiver", func(t *testing.T) {
		var err *APIError
		assert.Equal(t, "", err.Error())
		assert.NoError(t, err.Unwrap())
	})
}

func TestAPIError_Unwrap(t *testing.T) {
	err := New("INTERNAL_ERROR", "boom", "", http.StatusInternalServerError).WithCause(errSentinel)
	wrapped := fmt.Errorf("call failed: %w", err)

	assert.ErrorIs(t, wrapped, errSentinel)
	assert.Same(t, err, As(wrapped))
	assert.Nil(t, As(errSentinel))
}
