package menu

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a menu failure
type ErrorType int

const (
	// ErrTypeSchema indicates a descriptor that cannot be built into a node
	ErrTypeSchema ErrorType = iota
	// ErrTypeUnavailable indicates a field whose config path could not be read
	ErrTypeUnavailable
	// ErrTypeCommit indicates the binding rejected a committed value
	ErrTypeCommit
	// ErrTypeActionCallback indicates an action callback returned an error
	ErrTypeActionCallback
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeSchema:
		return "Schema Error"
	case ErrTypeUnavailable:
		return "Unavailable"
	case ErrTypeCommit:
		return "Commit Error"
	case ErrTypeActionCallback:
		return "Action Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned (or reported through the view) by menu operations
type Error struct {
	Type    ErrorType // Category of error
	Path    string    // Config path or node label involved
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
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
func (e *Error) Unwrap() error {
	return e.Err
}

// NewSchemaError creates an error for an invalid descriptor
func NewSchemaError(path string, message string) *Error {
	return &Error{
		Type:    ErrTypeSchema,
		Path:    path,
		Message: message,
	}
}

// NewUnavailableError creates an error for a field that could not be read
func NewUnavailableError(path string, err error) *Error {
	return &Error{
		Type:    ErrTypeUnavailable,
		Path:    path,
		Message: "value unavailable",
		Err:     err,
	}
}

// NewCommitError creates an error for a rejected commit
func NewCommitError(path string, err error) *Error {
	return &Error{
		Type:    ErrTypeCommit,
		Path:    path,
		Message: "commit failed",
		Err:     err,
	}
}

// NewActionCallbackError creates an error for a failed action callback
func NewActionCallbackError(label string, err error) *Error {
	return &Error{
		Type:    ErrTypeActionCallback,
		Path:    label,
		Message: "action failed",
		Err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	var menuErr *Error
	if errors.As(err, &menuErr) {
		return menuErr.Type == t
	}
	return false
}

// IsSchemaError checks if an error is a schema error
func IsSchemaError(err error) bool {
	return isType(err, ErrTypeSchema)
}

// IsUnavailable checks if an error reports an unreadable field
func IsUnavailable(err error) bool {
	return isType(err, ErrTypeUnavailable)
}

// IsCommitError checks if an error is a commit failure
func IsCommitError(err error) bool {
	return isType(err, ErrTypeCommit)
}

// IsActionCallbackError checks if an error came from an action callback
func IsActionCallbackError(err error) bool {
	return isType(err, ErrTypeActionCallback)
}

// shortMessager is implemented by binding errors that know a display-sized
// rendering of themselves.
type shortMessager interface {
	Short() string
}

// displayMessage reduces err to the text shown in the view's message line.
func displayMessage(err error) string {
	var sm shortMessager
	if errors.As(err, &sm) {
		return sm.Short()
	}

	var menuErr *Error
	if errors.As(err, &menuErr) {
		if menuErr.Err != nil {
			return menuErr.Err.Error()
		}
		return menuErr.Message
	}
	return err.Error()
}
