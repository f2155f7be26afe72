// internal/core/domain/finding.go
package domain

import "fmt"

// Shape is the normalized class of an anomaly description. Keeping the set
// closed makes suppression matching an exhaustively testable function
// instead of free-form string matching.
type Shape string

const (
	// ShapeDataRace unsynchronized concurrent access to the same location
	ShapeDataRace Shape = "data-race"

	// ShapeOutOfBounds access outside the bounds of an allocation
	ShapeOutOfBounds Shape = "out-of-bounds"

	// ShapeUseAfterFree access through a pointer to freed memory
	ShapeUseAfterFree Shape = "use-after-free"

	// ShapeInvalidAlias aliasing or provenance rule violation
	ShapeInvalidAlias Shape = "invalid-alias"

	// ShapeUndefinedBehavior undefined behavior not covered by a narrower class
	ShapeUndefinedBehavior Shape = "undefined-behavior"
)

// IsValid reports whether the shape is known.
func (s Shape) IsValid() bool {
	switch s {
	case ShapeDataRace, ShapeOutOfBounds, ShapeUseAfterFree, ShapeInvalidAlias, ShapeUndefinedBehavior:
		return true
	default:
		return false
	}
}

// String returns the string representation of the shape.
func (s Shape) String() string {
	return string(s)
}

// Signature is the stable identity of a finding: source location plus the
// shape of the reported anomaly. Suppression rules match signatures exactly.
type Signature struct {
	// File source file path as reported by the tool, normalized
	File string `json:"file"`

	// Line 1-based line number
	Line int `json:"line"`

	// Shape normalized anomaly class
	Shape Shape `json:"shape"`
}

// Key returns the canonical exact-match key for the signature.
func (s Signature) Key() string {
	return fmt.Sprintf("%s:%d#%s", s.File, s.Line, s.Shape)
}

// IsValid reports whether the signature carries a usable identity.
func (s Signature) IsValid() bool {
	return s.File != "" && s.Line > 0 && s.Shape.IsValid()
}

// Finding is a single reported anomaly from either analysis.
type Finding struct {
	// Mode analysis mode that produced the finding
	Mode AnalysisMode `json:"mode"`

	// Signature stable identity used for suppression matching
	Signature Signature `json:"signature"`

	// Severity classification after suppression lookup
	Severity Severity `json:"severity"`

	// Reproducibility hint derived from the producing mode
	Reproducibility Reproducibility `json:"reproducibility"`

	// Detail the tool's own description of the anomaly, kept verbatim
	Detail string `json:"detail"`
}

// NewFinding creates a finding with default unsuppressed severity and the
// reproducibility hint implied by the mode.
func NewFinding(mode AnalysisMode, sig Signature, detail string) *Finding {
	return &Finding{
		Mode:            mode,
		Signature:       sig,
		Severity:        SeverityUnsuppressed,
		Reproducibility: mode.Reproducibility(),
		Detail:          detail,
	}
}

// IsSuppressed reports whether the finding was matched by a suppression rule.
func (f *Finding) IsSuppressed() bool {
	return f.Severity == SeveritySuppressed
}

// Summary returns a one-line human-readable description.
func (f *Finding) Summary() string {
	return fmt.Sprintf("[%s] %s at %s:%d (%s)", f.Mode, f.Signature.Shape, f.Signature.File, f.Signature.Line, f.Severity)
}
