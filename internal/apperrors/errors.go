package apperrors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrDuplicate              = errors.New("resource already exists")
	ErrValidation             = errors.New("validation failed")
	ErrBusinessRule           = errors.New("business rule violation")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrInternal               = errors.New("internal error")
)

var classified = []error{
	ErrNotFound,
	ErrDuplicate,
	ErrValidation,
	ErrBusinessRule,
	ErrInvalidTransition,
	ErrConcurrentModification,
}

// AppError wraps a low level failure (usually storage) with a status code and
// a message that is safe to log.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports an AppError as ErrInternal unless it wraps one of the
// classified sentinels.
func (e *AppError) Is(target error) bool {
	if target != ErrInternal {
		return false
	}
	for _, c := range classified {
		if errors.Is(e.Err, c) {
			return false
		}
	}
	return true
}

// InvalidTransitionError reports a state change that the entity's state
// machine does not allow.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %q to %q", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConcurrentModificationError reports a stale version supplied by the caller.
type ConcurrentModificationError struct {
	Current  int64
	Expected int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("version mismatch: current %d, expected %d", e.Current, e.Expected)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
