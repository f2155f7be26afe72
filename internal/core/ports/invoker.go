// internal/core/ports/invoker.go
package ports

import (
	"context"
	"time"

	"raceward/internal/core/domain"
)

// Invoker is the primary port for an analysis variant. Each implementation
// prepares an isolated environment and executes the corpus once under its
// instrumentation, producing a structured result.
type Invoker interface {
	// Name returns the unique invoker name (e.g. "interpreted", "instrumented")
	Name() string

	// Mode returns the analysis mode this invoker implements
	Mode() domain.AnalysisMode

	// Execute runs the corpus once under the given configuration.
	// The error return is reserved for failures that prevented the run from
	// producing any result at all; tool crashes and findings are reported
	// inside the RunResult.
	Execute(ctx context.Context, cfg domain.RunConfiguration) (*domain.RunResult, error)

	// Close releases resources held by the invoker (subprocesses, temp state)
	Close() error
}

// Classifier decides the severity of a finding. The suppression registry is
// the production implementation; it must be a pure function of the finding
// signature and the loaded rule set.
type Classifier interface {
	Classify(f *domain.Finding) domain.Severity
}

// InvokerConfig contains the configuration of a single invoker.
type InvokerConfig struct {
	// Enabled indicates whether this analysis mode participates in the matrix
	Enabled bool

	// ExecPath path to the analysis tool binary (resolved via LookPath)
	ExecPath string

	// Timeout maximum execution time per configuration (0 = no timeout)
	Timeout time.Duration

	// Custom invoker-specific settings (extra args, cache dirs, flags)
	Custom map[string]interface{}
}

// DefaultInvokerConfig returns a default configuration.
func DefaultInvokerConfig() InvokerConfig {
	return InvokerConfig{
		Enabled: true,
		Timeout: 10 * time.Minute,
		Custom:  make(map[string]interface{}),
	}
}

// InvokerMetadata describes a registered invoker.
type InvokerMetadata struct {
	Name        string
	Description string
	Version     string
	Mode        domain.AnalysisMode

	// Priority execution ordering hint (higher runs earlier in the matrix)
	Priority int
}
