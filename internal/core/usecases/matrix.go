// internal/core/usecases/matrix.go
package usecases

import (
	"raceward/internal/core/domain"
	"raceward/internal/platform/errors"
)

// MatrixOptions selects which configurations the matrix enumerates.
type MatrixOptions struct {
	// Interpreted include the interpreted-mode configuration
	Interpreted bool

	// Instrumented include the instrumented-mode configurations
	Instrumented bool

	// Threads test-case scheduler concurrency for instrumented runs.
	// Defaults to 1: sequential test cases keep failures attributable to a
	// specific case instead of interleaved output from unrelated tests.
	Threads int
}

// BuildMatrix produces the exhaustive, deterministically ordered list of run
// configurations for this invocation. Iteration order is fixed so failures
// are reproducible by position: interpreted first, then instrumented debug,
// then instrumented release.
//
// The instrumented analysis always covers both build profiles; distinct
// optimization levels mask or expose different races. Interpretation has no
// meaningful build profile and appears exactly once.
func BuildMatrix(opts MatrixOptions) ([]domain.RunConfiguration, error) {
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	var matrix []domain.RunConfiguration

	if opts.Interpreted {
		matrix = append(matrix, domain.RunConfiguration{
			Mode:    domain.AnalysisModeInterpreted,
			Profile: domain.ProfileDebug,
			Threads: 1,
		})
	}

	if opts.Instrumented {
		for _, profile := range []domain.BuildProfile{domain.ProfileDebug, domain.ProfileRelease} {
			matrix = append(matrix, domain.RunConfiguration{
				Mode:    domain.AnalysisModeInstrumented,
				Profile: profile,
				Threads: threads,
			})
		}
	}

	if len(matrix) == 0 {
		return nil, errors.Wrap(domain.ErrEmptyMatrix, "no analysis mode selected")
	}

	for _, cfg := range matrix {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return matrix, nil
}
