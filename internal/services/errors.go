package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("unauthorized")
	ErrStore      = errors.New("store failure")
)

// storeFailureMessage is all a caller learns about a store failure.
const storeFailureMessage = "internal server error"

// Error is a classified service failure. Message is safe to show to the
// caller; Err, when set, is the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func conflictError(message string, cause error) error {
	return &Error{Kind: ErrConflict, Message: message, Err: cause}
}

func notFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func authError(message string) error {
	return &Error{Kind: ErrAuth, Message: message}
}

// storeError logs err and hides it behind an opaque message.
func storeError(logger zerolog.Logger, op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("store operation failed")
	return &Error{Kind: ErrStore, Message: storeFailureMessage, Err: err}
}

// Message returns the caller-facing message of a service error.
func Message(err error) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Message
	}
	return storeFailureMessage
}
