package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error so callers can branch without
// string-matching messages.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeInternal   ErrorCode = "INTERNAL"
)

// Error is the error type raised by value objects and the aggregate.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds a domain error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a domain classification to an underlying error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation errors. Raised at value-object construction; a partially
// valid object is never returned alongside one of these.
var (
	ErrInvalidCurrency = NewError(ErrCodeValidation, "invalid or unsupported currency code")
	ErrInvalidAmount   = NewError(ErrCodeValidation, "amount must be a non-negative finite number")
	ErrCurrencyMismatch = NewError(ErrCodeValidation, "operation requires amounts in the same currency")
	ErrNegativeResult   = NewError(ErrCodeValidation, "operation would produce a negative amount")
	ErrInvalidEmail     = NewError(ErrCodeValidation, "invalid email address")
	ErrInvalidUserID    = NewError(ErrCodeValidation, "invalid user id")
	ErrInvalidName      = NewError(ErrCodeValidation, "Name must be at least 2 characters long")
)

// Business-rule errors.
var (
	ErrInsufficientFunds = NewError(ErrCodeConflict, "insufficient funds")
	ErrAlreadyVerified   = NewError(ErrCodeConflict, "email is already verified")
	ErrUserAlreadyExists = NewError(ErrCodeConflict, "User with this email already exists")
	ErrUserNotFound      = NewError(ErrCodeNotFound, "user not found")
)

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
