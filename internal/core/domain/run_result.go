// internal/core/domain/run_result.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunResult is the structured outcome of executing the corpus once under a
// single configuration. Results are never merged across configurations.
type RunResult struct {
	// Config the configuration that produced this result
	Config RunConfiguration `json:"config"`

	// Outcome verdict for this configuration
	Outcome Outcome `json:"outcome"`

	// Findings all anomalies collected during the full run, in report order
	Findings []*Finding `json:"findings"`

	// Diagnostics raw tool output, kept opaque in the tool's native format
	Diagnostics string `json:"diagnostics,omitempty"`

	// Err diagnostic context when Outcome is resolution-error
	Err string `json:"error,omitempty"`
}

// NewRunResult creates an empty result for the given configuration.
func NewRunResult(cfg RunConfiguration) *RunResult {
	return &RunResult{
		Config:   cfg,
		Outcome:  OutcomePass,
		Findings: []*Finding{},
	}
}

// AddFinding appends a finding to the result.
func (r *RunResult) AddFinding(f *Finding) {
	if f != nil {
		r.Findings = append(r.Findings, f)
	}
}

// UnsuppressedCount returns the number of findings that fail the run.
func (r *RunResult) UnsuppressedCount() int {
	n := 0
	for _, f := range r.Findings {
		if !f.IsSuppressed() {
			n++
		}
	}
	return n
}

// SuppressedCount returns the number of informational findings.
func (r *RunResult) SuppressedCount() int {
	return len(r.Findings) - r.UnsuppressedCount()
}

// MarkCrashed records a tool crash: the run produced no trustworthy verdict.
func (r *RunResult) MarkCrashed(err error) {
	r.Outcome = OutcomeResolutionError
	if err != nil {
		r.Err = err.Error()
	}
}

// Seal computes the final outcome from the collected findings. A run marked
// as resolution-error stays that way regardless of findings.
func (r *RunResult) Seal() {
	if r.Outcome == OutcomeResolutionError {
		return
	}
	if r.UnsuppressedCount() > 0 {
		r.Outcome = OutcomeFail
	} else {
		r.Outcome = OutcomePass
	}
}

// Summary returns a one-line human-readable description.
func (r *RunResult) Summary() string {
	return fmt.Sprintf("RunResult{config=%s, outcome=%s, findings=%d, suppressed=%d}",
		r.Config.Key(), r.Outcome, len(r.Findings), r.SuppressedCount())
}

// HarnessResult is the aggregate report of one harness invocation.
type HarnessResult struct {
	// ID unique identifier of this invocation
	ID string `json:"id"`

	// Toolchain the active toolchain version selected by the resolver
	Toolchain string `json:"toolchain,omitempty"`

	// Results one entry per run configuration, in matrix order
	Results []*RunResult `json:"results"`

	// Metadata invocation-level information
	Metadata HarnessMetadata `json:"metadata"`
}

// HarnessMetadata carries invocation-level execution information.
type HarnessMetadata struct {
	// StartTime invocation start
	StartTime time.Time `json:"start_time"`

	// EndTime invocation end
	EndTime time.Time `json:"end_time"`

	// Duration total wall time
	Duration time.Duration `json:"duration"`

	// Version harness version
	Version string `json:"version,omitempty"`

	// Environment extra build/run context
	Environment map[string]string `json:"environment,omitempty"`
}

// NewHarnessResult creates an empty aggregate report.
func NewHarnessResult() *HarnessResult {
	return &HarnessResult{
		ID:      uuid.NewString(),
		Results: []*RunResult{},
		Metadata: HarnessMetadata{
			StartTime:   time.Now(),
			Environment: make(map[string]string),
		},
	}
}

// AddResult appends a per-configuration result.
func (h *HarnessResult) AddResult(r *RunResult) {
	if r != nil {
		h.Results = append(h.Results, r)
	}
}

// Finalize marks the invocation as completed.
func (h *HarnessResult) Finalize() {
	h.Metadata.EndTime = time.Now()
	h.Metadata.Duration = h.Metadata.EndTime.Sub(h.Metadata.StartTime)
}

// TotalFindings returns the number of findings across all configurations.
func (h *HarnessResult) TotalFindings() int {
	n := 0
	for _, r := range h.Results {
		n += len(r.Findings)
	}
	return n
}

// Summary returns a one-line human-readable description.
func (h *HarnessResult) Summary() string {
	return fmt.Sprintf("HarnessResult{id=%s, configs=%d, findings=%d, duration=%s}",
		h.ID, len(h.Results), h.TotalFindings(), h.Metadata.Duration)
}
