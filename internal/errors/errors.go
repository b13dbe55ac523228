// Package errors defines the structured error taxonomy shared by the CLI,
// MCP and web boundaries. Mutating store operations signal an unknown id with
// a boolean, not an error; this package covers everything that genuinely
// fails: bad requests, persistence errors, and internal faults.
package errors

import "fmt"

// ErrorCode represents a blip error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrPersistence    ErrorCode = "PERSISTENCE"     // 500, write/rename failures
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// BlipError represents a structured error with code, status, and details.
type BlipError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *BlipError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes a wrapped underlying error when present.
func (e *BlipError) Unwrap() error {
	if err, ok := e.Details["cause"].(error); ok {
		return err
	}
	return nil
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BlipError {
	return &BlipError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown blip id.
func NewNotFound(id string) *BlipError {
	return &BlipError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("blip not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewPersistence creates a 500 error for a failed write or rename.
// These are never swallowed: a lost write must be visible to the caller.
func NewPersistence(op string, err error) *BlipError {
	return &BlipError{
		Code:    ErrPersistence,
		Status:  500,
		Message: fmt.Sprintf("%s: %v", op, err),
		Details: map[string]any{"op": op, "cause": err},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *BlipError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BlipError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a BlipError with the given code.
func Is(err error, code ErrorCode) bool {
	if bErr, ok := err.(*BlipError); ok {
		return bErr.Code == code
	}
	return false
}
