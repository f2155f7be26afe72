// internal/core/domain/errors.go
package domain

import "errors"

var (
	// ErrInvalidConfiguration a run configuration violates its invariants
	ErrInvalidConfiguration = errors.New("invalid run configuration")

	// ErrEmptyMatrix the configuration matrix contains no runnable entries
	ErrEmptyMatrix = errors.New("run configuration matrix is empty")

	// ErrNoInvoker no invoker is registered for a configuration's analysis mode
	ErrNoInvoker = errors.New("no invoker available for analysis mode")
)
