// internal/core/domain/enums.go
package domain

// AnalysisMode identifies which dynamic analysis produced a run or finding.
type AnalysisMode string

const (
	// AnalysisModeInterpreted runs the corpus under an abstract-memory-model
	// interpreter that tracks provenance and access permissions per value
	AnalysisModeInterpreted AnalysisMode = "interpreted"

	// AnalysisModeInstrumented builds and runs real binaries with dynamic
	// race instrumentation across real OS threads
	AnalysisModeInstrumented AnalysisMode = "instrumented"
)

// IsValid reports whether the analysis mode is known.
func (m AnalysisMode) IsValid() bool {
	switch m {
	case AnalysisModeInterpreted, AnalysisModeInstrumented:
		return true
	default:
		return false
	}
}

// String returns the string representation of the mode.
func (m AnalysisMode) String() string {
	return string(m)
}

// Reproducibility returns the reproducibility hint implied by the mode:
// interpreted executions simulate interleavings deterministically, while
// instrumented executions depend on the observed thread schedule.
func (m AnalysisMode) Reproducibility() Reproducibility {
	if m == AnalysisModeInterpreted {
		return ReproDeterministic
	}
	return ReproScheduleDependent
}

// BuildProfile selects the optimization level the corpus is built with.
type BuildProfile string

const (
	// ProfileDebug builds without optimizations: more instrumentation
	// overhead, more precise stack traces
	ProfileDebug BuildProfile = "debug"

	// ProfileRelease builds with optimizations: catches reordering bugs
	// that debug builds mask
	ProfileRelease BuildProfile = "release"
)

// IsValid reports whether the build profile is known.
func (p BuildProfile) IsValid() bool {
	switch p {
	case ProfileDebug, ProfileRelease:
		return true
	default:
		return false
	}
}

// String returns the string representation of the profile.
func (p BuildProfile) String() string {
	return string(p)
}

// Outcome is the verdict of a single run configuration, and of the whole
// harness invocation.
type Outcome string

const (
	// OutcomePass all executed test cases completed without unsuppressed findings
	OutcomePass Outcome = "pass"

	// OutcomeFail at least one unsuppressed finding was detected
	OutcomeFail Outcome = "fail"

	// OutcomeResolutionError the run could not produce a trustworthy verdict
	// (toolchain resolution failure, tool crash, missing invoker)
	OutcomeResolutionError Outcome = "resolution-error"
)

// IsValid reports whether the outcome is known.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeResolutionError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Severity classifies a finding after suppression rules were consulted.
type Severity string

const (
	// SeverityUnsuppressed a genuine detected anomaly; fails its run configuration
	SeverityUnsuppressed Severity = "unsuppressed-failure"

	// SeveritySuppressed matched a justified suppression rule; recorded only
	SeveritySuppressed Severity = "suppressed-informational"
)

// IsValid reports whether the severity is known.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityUnsuppressed, SeveritySuppressed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Reproducibility hints how reliably a finding reappears on re-run.
type Reproducibility string

const (
	// ReproDeterministic interpreted findings reproduce run-to-run given identical inputs
	ReproDeterministic Reproducibility = "deterministic"

	// ReproScheduleDependent instrumented findings depend on the sampled thread schedule
	ReproScheduleDependent Reproducibility = "schedule-dependent"
)

// String returns the string representation of the reproducibility hint.
func (r Reproducibility) String() string {
	return string(r)
}
