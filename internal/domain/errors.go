package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers branch on these with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrCapacity   = errors.New("capacity reached")
	ErrState      = errors.New("invalid state")
	ErrStorage    = errors.New("storage failure")
	ErrForbidden  = errors.New("forbidden")
)

var (
	// ErrDuplicateLog is returned when the user already logged the day.
	ErrDuplicateLog = errors.New("already logged today")
	// ErrAlreadyMember is returned when joining a room the user belongs to.
	ErrAlreadyMember = errors.New("already a member of this room")

	ErrRoomNotFound  = fmt.Errorf("room %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrNotMember     = fmt.Errorf("membership %w", ErrNotFound)
	ErrRoomFull      = fmt.Errorf("room is full: %w", ErrCapacity)
	ErrRoomNotActive = fmt.Errorf("room is not active: %w", ErrState)
	ErrNotCreator    = fmt.Errorf("only the room creator can do that: %w", ErrForbidden)
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a persistence failure that is not one of the named
// conditions above. It is never retried.
type StorageError struct {
	Op  string
	Err error
}

// Storage wraps err as a StorageError for op. It returns nil for a nil err.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
