// internal/core/domain/toolchain.go
package domain

// ToolchainIdentity is an opaque, totally-ordered version tag for a
// toolchain build, plus the capability flag for interpreter support.
// Resolved once per harness invocation and never mutated.
type ToolchainIdentity struct {
	// Version opaque version tag, either semver-shaped ("v1.89.0") or
	// date-stamped ("nightly-2026-08-29")
	Version string `json:"version" yaml:"version"`

	// Interpreter reports whether this build carries the abstract-memory-model
	// interpreter component
	Interpreter bool `json:"interpreter" yaml:"interpreter"`
}

// IsZero reports whether the identity is unset.
func (t ToolchainIdentity) IsZero() bool {
	return t.Version == ""
}

// String returns the version tag.
func (t ToolchainIdentity) String() string {
	return t.Version
}
