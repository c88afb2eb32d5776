package oplock_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/oplock"
	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name     string
		current  *int64
		expected *int64
		wantErr  bool
	}{
		{"both nil", nil, nil, false},
		{"no expectation", ptr(3), nil, false},
		{"no stored version", nil, ptr(3), false},
		{"match", ptr(3), ptr(3), false},
		{"stale caller", ptr(3), ptr(2), true},
		{"caller ahead", ptr(3), ptr(4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := oplock.ValidateVersion(tt.current, tt.expected)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrConcurrentModification))
			var cmErr *apperrors.ConcurrentModificationError
			if assert.True(t, errors.As(err, &cmErr)) {
				assert.Equal(t, *tt.current, cmErr.Current)
				assert.Equal(t, *tt.expected, cmErr.Expected)
			}
		})
	}
}

func TestIncrementVersion(t *testing.T) {
	assert.Equal(t, int64(1), oplock.IncrementVersion(nil))
	assert.Equal(t, int64(4), oplock.IncrementVersion(ptr(3)))
}
