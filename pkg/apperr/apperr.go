package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an application error so the HTTP layer can map it to a
// status without inspecting messages.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyConverted Code = "ALREADY_CONVERTED"
	CodeInvalidStage     Code = "INVALID_STAGE"
	CodeDuplicate        Code = "DUPLICATE"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeUnavailable      Code = "UNAVAILABLE"
)

// Error is a coded application error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf returns the user-facing message of err; plain errors fall back
// to their Error() string.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func IsDuplicate(err error) bool { return Is(err, CodeDuplicate) }

func IsValidation(err error) bool { return Is(err, CodeValidation) }
