package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ERR_NOT_FOUND     ErrorKind = "not_found"
	ERR_CONFLICT      ErrorKind = "conflict"
	ERR_INVALID_STATE ErrorKind = "invalid_state"
	ERR_UNAUTHORIZED  ErrorKind = "unauthorized"
	ERR_VALIDATION    ErrorKind = "validation"
	ERR_INTERNAL      ErrorKind = "internal"
)

// AppError is a business-rule failure that is safe to show to API callers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) error {
	return &AppError{Kind: ERR_NOT_FOUND, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &AppError{Kind: ERR_CONFLICT, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &AppError{Kind: ERR_INVALID_STATE, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &AppError{Kind: ERR_UNAUTHORIZED, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &AppError{Kind: ERR_VALIDATION, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports ERR_INTERNAL for anything that is not an *AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ERR_INTERNAL
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
