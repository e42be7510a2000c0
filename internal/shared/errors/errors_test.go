package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad title"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("ticket not found"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("stale version"), ErrorTypeConflict, http.StatusConflict},
		{"forbidden", NewForbiddenError("no access"), ErrorTypeForbidden, http.StatusForbidden},
		{"unauthorized", NewUnauthorizedError("no token"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_ErrorIncludesDetails(t *testing.T) {
	err := NewValidationError("title is invalid", "must be at least 5 characters")
	assert.Equal(t, "validation_error: title is invalid (must be at least 5 characters)", err.Error())

	err = NewNotFoundError("ticket not found")
	assert.Equal(t, "not_found: ticket not found", err.Error())
}

func TestDispatchError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("broker unreachable")
	err := NewDispatchError("failed to publish ticket event", cause)

	assert.True(t, IsDispatchError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "broker unreachable", err.Details)
}

func TestTypePredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update ticket: %w", NewConflictError("ticket was modified concurrently"))

	require.True(t, IsAppError(wrapped))
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsForbiddenError(wrapped))
	assert.False(t, IsValidationError(nil))
}
