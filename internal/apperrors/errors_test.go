package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsInternal(t *testing.T) {
	storageErr := apperrors.NewAppError(500, "failed to insert posting", errors.New("connection reset"))
	assert.True(t, errors.Is(storageErr, apperrors.ErrInternal))
	assert.Contains(t, storageErr.Error(), "connection reset")

	wrapped := apperrors.NewAppError(500, "failed to lock account", fmt.Errorf("account abc: %w", apperrors.ErrNotFound))
	assert.True(t, errors.Is(wrapped, apperrors.ErrNotFound))
	assert.False(t, errors.Is(wrapped, apperrors.ErrInternal))
}

func TestStructuredErrors_Unwrap(t *testing.T) {
	var err error = &apperrors.InvalidTransitionError{Entity: "salary_payment", From: "completed", To: "pending_payment"}
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Contains(t, err.Error(), "completed")

	err = fmt.Errorf("finance approve: %w", &apperrors.ConcurrentModificationError{Current: 3, Expected: 2})
	assert.True(t, errors.Is(err, apperrors.ErrConcurrentModification))

	var cmErr *apperrors.ConcurrentModificationError
	if assert.True(t, errors.As(err, &cmErr)) {
		assert.Equal(t, int64(3), cmErr.Current)
		assert.Equal(t, int64(2), cmErr.Expected)
	}
}
