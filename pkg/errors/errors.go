// Package errors provides coded error types for drainplan.
//
// Every failure that reaches the user carries a machine-readable [Code] so the
// CLI can tell a broken input file apart from an I/O problem, and so library
// callers can branch on the category without matching message text.
//
// # Error Codes
//
// Fatal network-description errors:
//   - MALFORMED_INPUT: the reader hit unbalanced parentheses or an unterminated string
//   - GRAMMAR_ERROR: a branch has the wrong shape or a non-numeric length
//   - UNKNOWN_NODE_TYPE: a node symbol outside the closed vocabulary
//
// Warnings (the run continues):
//   - ANGLE_RESOLUTION_EXHAUSTED: label angles fell back to the gap heuristic
//   - RECALCULATION_RESIDUAL: a slope constraint could not be fully satisfied
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGrammar, "branch length must be a number: %s", form)
//	if errors.Is(err, errors.ErrCodeGrammar) {
//	    // report the offending form
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Network description errors
	ErrCodeMalformedInput  Code = "MALFORMED_INPUT"
	ErrCodeGrammar         Code = "GRAMMAR_ERROR"
	ErrCodeUnknownNodeType Code = "UNKNOWN_NODE_TYPE"

	// Warnings surfaced alongside a successful run
	ErrCodeAngleResolutionExhausted Code = "ANGLE_RESOLUTION_EXHAUSTED"
	ErrCodeRecalculationResidual    Code = "RECALCULATION_RESIDUAL"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err describes an input the engine cannot build a
// network from. Warning codes and nil are not fatal.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeAngleResolutionExhausted, ErrCodeRecalculationResidual:
		return false
	}
	return err != nil
}
