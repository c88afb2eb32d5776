// Package oplock implements the version check used before every workflow write.
package oplock

import "github.com/SscSPs/backoffice_ledger/internal/apperrors"

// ValidateVersion compares the stored version with the one the caller last saw.
// A missing value on either side skips the check.
func ValidateVersion(current, expected *int64) error {
	if current == nil || expected == nil {
		return nil
	}
	if *current != *expected {
		return &apperrors.ConcurrentModificationError{Current: *current, Expected: *expected}
	}
	return nil
}

// IncrementVersion returns the next version, treating nil as 0.
func IncrementVersion(v *int64) int64 {
	if v == nil {
		return 1
	}
	return *v + 1
}
