// Package errors defines the coded errors shared by pkgscan's libraries,
// CLI and HTTP API.
//
// Every failure that reaches a user carries a [Code]. The code decides the
// HTTP status ([Code.HTTPStatus]) and the process exit status
// ([Code.ExitCode]), so neither surface needs to inspect messages.
//
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, decodeErr, "decode %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // record it against the file and keep scanning
//	}
//
// Recognizers return (nil, nil) for files that are not usable packages;
// that is not an error and has no code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"    // Bad flags, request bodies or query values
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST" // Undecodable or wrongly shaped manifest
	ErrCodeInvalidPath     Code = "INVALID_PATH"     // Path outside the allowed root, or not a directory
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"   // pkgscan.toml problems

	ErrCodeNotFound     Code = "NOT_FOUND"      // Missing stored report, or nothing to draw
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND" // Missing manifest or scan root

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED" // No handler, or a feature that is not configured
)

// HTTPStatus returns the response status for c. Codes without a mapping,
// including the empty code, are 500.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidManifest, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode returns the process exit status for c: 2 when the invocation
// itself was wrong, 1 otherwise.
func (c Code) ExitCode() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return 2
	default:
		return 1
	}
}

// Error is an error with a [Code], a message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err without its code prefix, for display.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}
