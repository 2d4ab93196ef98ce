// Package errors provides the coded error type used across the extractor.
//
// Every failure that reaches a caller carries a Code so the CLI can pick the
// right status line and library users can branch without string matching:
//
//	if errors.Is(err, errors.CodeSelection) {
//	    // ask the user to fix the selection
//	}
//
// "No value" results are never errors; only the cases below are.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// CodeSelection: wrong number or kind of selected layers. The run aborts
	// before anything is written.
	CodeSelection Code = "SELECTION"
	// CodeOverrideResolution: a symbol override addressed a parent path that
	// has no container. Only raised under the strict override policy.
	CodeOverrideResolution Code = "OVERRIDE_RESOLUTION"
	// CodeImageDecode: an image reference could not be turned into a bitmap.
	// Fatal for that asset only.
	CodeImageDecode Code = "IMAGE_DECODE"
	// CodeFileWrite: writing the JSON file or a PNG failed.
	CodeFileWrite Code = "FILE_WRITE"
	// CodeInvalidInput: bad options or configuration.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeInvalidDocument: the design document could not be read.
	CodeInvalidDocument Code = "INVALID_DOCUMENT"
)

// Error implements error so a bare Code can be used as an errors.Is target.
func (c Code) Error() string { return string(c) }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error or a bare Code with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error around cause. A nil cause returns nil.
func Wrap(code Code, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is is errors.Is, re-exported so callers importing this package under the
// name errors keep access to it.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As, re-exported for the same reason as Is.
func As(err error, target any) bool { return errors.As(err, target) }
