// Package errors provides error types and utilities for raceward.
// It extends the standard errors package with the harness failure taxonomy
// and wrapping capabilities.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the harness failure taxonomy
var (
	// ErrResolution indicates that no compatible toolchain could be selected.
	// Fatal: the harness aborts before any test executes.
	ErrResolution = errors.New("toolchain resolution failed")

	// ErrFeedUnavailable indicates the toolchain version feed could not be read
	ErrFeedUnavailable = errors.New("version feed unavailable")

	// ErrRegistryLoad indicates the suppression registry could not be loaded.
	// Fatal: a harness that silently drops a broken suppression is worse than
	// one that fails loudly.
	ErrRegistryLoad = errors.New("suppression registry load failed")

	// ErrToolCrash indicates an analysis tool failed independent of any finding
	ErrToolCrash = errors.New("analysis tool crashed")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
//
// Example:
//   err := someOperation()
//   if err != nil {
//       return errors.Wrap(err, "failed to perform operation")
//   }
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
// This is a convenience wrapper around errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsResolution reports whether the error is a toolchain resolution error
func IsResolution(err error) bool {
	return Is(err, ErrResolution)
}

// IsFeedUnavailable reports whether the error is a feed availability error
func IsFeedUnavailable(err error) bool {
	return Is(err, ErrFeedUnavailable)
}

// IsRegistryLoad reports whether the error is a registry load error
func IsRegistryLoad(err error) bool {
	return Is(err, ErrRegistryLoad)
}

// IsToolCrash reports whether the error is a tool crash error
func IsToolCrash(err error) bool {
	return Is(err, ErrToolCrash)
}

// IsInvalidInput reports whether the error is an invalid input error
func IsInvalidInput(err error) bool {
	return Is(err, ErrInvalidInput)
}
