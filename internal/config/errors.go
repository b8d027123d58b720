package config

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a store failure
type ErrorType int

const (
	// ErrTypePathNotFound indicates the dotted path does not exist in the document
	ErrTypePathNotFound ErrorType = iota
	// ErrTypeValidation indicates a value rejected by the store's own constraints
	ErrTypeValidation
	// ErrTypePersistence indicates the backing file could not be written
	ErrTypePersistence
	// ErrTypeParse indicates the backing file could not be read or decoded
	ErrTypeParse
	// ErrTypeConflict indicates the backing file changed while the store held unsaved changes
	ErrTypeConflict
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypePathNotFound:
		return "Path Not Found"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypePersistence:
		return "Persistence Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeConflict:
		return "Conflict"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StoreError is returned by every Store operation that fails
type StoreError struct {
	Type    ErrorType // Category of error
	Path    string    // Dotted config path involved (empty for whole-file errors)
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Short returns the display-sized form of the error (see ShortMessage)
func (e *StoreError) Short() string {
	return ShortMessage(e)
}

// NewPathNotFoundError creates an error for a missing config path
func NewPathNotFoundError(path string) *StoreError {
	return &StoreError{
		Type:    ErrTypePathNotFound,
		Path:    path,
		Message: "no such config path",
	}
}

// NewValidationError creates a validation error for a rejected value
func NewValidationError(path string, message string) *StoreError {
	return &StoreError{
		Type:    ErrTypeValidation,
		Path:    path,
		Message: message,
	}
}

// NewPersistenceError creates an error for a failed write to the backing file
func NewPersistenceError(message string, err error) *StoreError {
	return &StoreError{
		Type:    ErrTypePersistence,
		Message: message,
		Err:     err,
	}
}

// NewParseError creates an error for an unreadable backing file
func NewParseError(message string, err error) *StoreError {
	return &StoreError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewConflictError creates an error for a file change that would discard unsaved changes
func NewConflictError(message string) *StoreError {
	return &StoreError{
		Type:    ErrTypeConflict,
		Message: message,
	}
}

func isType(err error, t ErrorType) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Type == t
	}
	return false
}

// IsPathNotFound checks if an error reports a missing config path
func IsPathNotFound(err error) bool {
	return isType(err, ErrTypePathNotFound)
}

// IsValidationError checks if an error is a store validation error
func IsValidationError(err error) bool {
	return isType(err, ErrTypeValidation)
}

// IsPersistenceError checks if an error is a persistence failure
func IsPersistenceError(err error) bool {
	return isType(err, ErrTypePersistence)
}

// IsParseError checks if an error is a parse failure
func IsParseError(err error) bool {
	return isType(err, ErrTypeParse)
}

// IsConflict checks if an error reports an on-disk change that was not applied
func IsConflict(err error) bool {
	return isType(err, ErrTypeConflict)
}

// ShortMessage returns a message short enough for the device display.
// The display is 21 columns wide, so only the category survives for long errors.
func ShortMessage(err error) string {
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		return "Error"
	}

	switch storeErr.Type {
	case ErrTypePathNotFound:
		return "Missing setting"
	case ErrTypeValidation:
		return "Invalid value"
	case ErrTypePersistence:
		return "Save failed"
	case ErrTypeParse:
		return "Config unreadable"
	case ErrTypeConflict:
		return "File changed"
	default:
		return "Error"
	}
}
