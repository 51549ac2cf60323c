package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig     = "CONFIG"
	ErrTransport  = "TRANSPORT"  // device connect or query failed
	ErrDevice     = "DEVICE"     // serial device path missing
	ErrConnection = "CONNECTION" // no usable connection mode configured
	ErrSink       = "SINK"
	ErrReport     = "REPORT"
	ErrDiscovery  = "DISCOVERY" // mDNS browse failed
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrTransport code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrTransport,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single-line rendering: message plus cause, no suggestion.
// Menu lines cannot hold newlines, so the menu uses this form.
func (e *Error) Short() string {
	if e.Cause == nil {
		return e.Message
	}
	cause := strings.Join(strings.Fields(e.Cause.Error()), " ")
	return e.Message + ": " + cause
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var mmErr *Error
	if errors.As(err, &mmErr) {
		return mmErr.Code == code
	}
	return false
}

// OneLine flattens any error into a single line suitable for a menu entry.
func OneLine(err error) string {
	if err == nil {
		return ""
	}
	var mmErr *Error
	if errors.As(err, &mmErr) {
		return mmErr.Short()
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}

// As is errors.As, re-exported so callers need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
