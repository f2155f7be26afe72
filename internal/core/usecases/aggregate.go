// internal/core/usecases/aggregate.go
package usecases

import (
	"raceward/internal/core/domain"
)

// Aggregate decides the overall outcome of a harness invocation: pass iff
// every run configuration produced a pass. Resolution errors dominate plain
// failures so callers can distinguish "the corpus is racy" from "the
// harness could not judge it". Results are never merged across
// configurations; each must pass on its own.
func Aggregate(results []*domain.RunResult) domain.Outcome {
	if len(results) == 0 {
		return domain.OutcomeResolutionError
	}

	overall := domain.OutcomePass
	for _, r := range results {
		switch r.Outcome {
		case domain.OutcomeResolutionError:
			return domain.OutcomeResolutionError
		case domain.OutcomeFail:
			overall = domain.OutcomeFail
		}
	}
	return overall
}

// ExitCode maps an overall outcome to the process exit status. Zero iff the
// aggregate outcome is pass; resolution errors get a distinct code so
// callers can tell an unjudged corpus from a failing one.
func ExitCode(o domain.Outcome) int {
	switch o {
	case domain.OutcomePass:
		return 0
	case domain.OutcomeFail:
		return 1
	default:
		return 3
	}
}
