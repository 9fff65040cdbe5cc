package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	t.Parallel()

	base := NewNotFound("complaint", map[string]any{"complaint_id": "S-1"})
	wrapped := fmt.Errorf("lookup: %w", base)

	got := ToDomainError(wrapped)

	require.NotNil(t, got)
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	assert.Equal(t, "complaint not found", got.Message)
	assert.Equal(t, "S-1", got.Details["complaint_id"])
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	got := ToDomainError(cause)

	require.NotNil(t, got)
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, cause)
}

func TestToDomainError_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ToDomainError(nil))
}

func TestKindHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		validity  bool
		notFound  bool
		duplicate bool
	}{
		{name: "validation", err: NewValidationError("title required", nil), validity: true},
		{name: "not found", err: NewNotFound("department", nil), notFound: true},
		{name: "duplicate", err: NewDuplicate("department already exists", nil), duplicate: true},
		{name: "wrapped duplicate", err: fmt.Errorf("add: %w", NewDuplicate("x", nil)), duplicate: true},
		{name: "plain", err: errors.New("plain")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.validity, IsValidation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicate(tt.err))
		})
	}
}

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	t.Parallel()

	err := &DomainError{Message: "notify failed", Err: errors.New("queue full")}
	assert.Equal(t, "notify failed: queue full", err.Error())
}
