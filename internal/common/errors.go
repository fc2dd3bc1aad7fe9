// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrMalformedTransaction = errors.New("malformed transaction")
	ErrInvalidPeriod        = errors.New("invalid reporting period")
	ErrUnsupportedSource    = errors.New("unsupported transaction source")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MalformedTransactionError names the transaction and field that could not
// be interpreted. It matches ErrMalformedTransaction with errors.Is.
type MalformedTransactionError struct {
	Err   error
	ID    string
	Field string
}

func (e *MalformedTransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed transaction %q: %s: %v", e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed transaction %q: %s", e.ID, e.Field)
}

func (e *MalformedTransactionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the ErrMalformedTransaction sentinel.
func (e *MalformedTransactionError) Is(target error) bool {
	return target == ErrMalformedTransaction
}

// NewMalformedTransactionError creates an error for an unusable transaction field.
func NewMalformedTransactionError(id, field string, err error) error {
	return &MalformedTransactionError{ID: id, Field: field, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable reports whether err is worth another attempt. A
// RetryableError marker decides when present; otherwise everything but
// context cancellation is retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return !errors.Is(err, context.Canceled)
}
