package models

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	ErrNotFound errorCode = "not_found"
	ErrConflict errorCode = "conflict"
	ErrInvalid  errorCode = "invalid"
	ErrInternal errorCode = "internal"
)

// Error is an application error with a machine-readable code.
// Callers branch on the code, never on the description text.
type Error struct {
	Code        errorCode
	Description string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "alarmclock: " + string(e.Code) + ": " + e.Description
}

func Errorf(code errorCode, format string, args ...any) error {
	return &Error{code, fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code associated with err, or ErrInternal if err
// isn't an application error.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns a human-readable description of the error, or
// "internal error" if err isn't an application error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}
