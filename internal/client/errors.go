package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates the server could not be reached
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates the server answered with an error status
	ErrTypeHTTP
	// ErrTypeParse indicates a response that is not the expected JSON
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError is returned by every Client call that fails
type APIError struct {
	Type       ErrorType // Category of error
	StatusCode int       // HTTP status code (ErrTypeHTTP only)
	Kind       string    // Store error kind reported by the server, e.g. "Validation Error"
	Message    string    // Human-readable error message
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates an error for a request that got no response
func NewNetworkError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeNetwork, Message: message, Err: err}
}

// NewHTTPError creates an error for an error status from the server
func NewHTTPError(statusCode int, kind, message string) *APIError {
	return &APIError{Type: ErrTypeHTTP, StatusCode: statusCode, Kind: kind, Message: message}
}

// NewParseError creates an error for an undecodable response
func NewParseError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: message, Err: err}
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsNotFound reports whether the server has no setting at the requested path
func IsNotFound(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsRejected reports whether the server refused a value
func IsRejected(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.StatusCode == http.StatusBadRequest
}

// IsRetryable reports whether repeating the request may succeed.
// Network failures and gateway errors are retried; answers from the API
// itself are not, since the store would give the same answer again.
func IsRetryable(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.Type {
	case ErrTypeNetwork:
		return true
	case ErrTypeHTTP:
		switch apiErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
