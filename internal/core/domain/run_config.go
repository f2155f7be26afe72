// internal/core/domain/run_config.go
package domain

import "fmt"

// RunConfiguration is one point in the (analysis mode x build profile x
// thread count) matrix. Immutable once constructed; each configuration must
// independently produce a pass.
type RunConfiguration struct {
	// Mode analysis mode for this run
	Mode AnalysisMode `json:"mode"`

	// Profile build profile. Not meaningful under interpretation; interpreted
	// configurations carry ProfileDebug as the canonical placeholder.
	Profile BuildProfile `json:"profile"`

	// Threads test-case scheduler concurrency for the harness's own
	// scheduler. This does not limit concurrency inside the code under test.
	Threads int `json:"threads"`
}

// Validate verifies the configuration invariants.
func (c RunConfiguration) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: analysis mode %q", ErrInvalidConfiguration, c.Mode)
	}
	if !c.Profile.IsValid() {
		return fmt.Errorf("%w: build profile %q", ErrInvalidConfiguration, c.Profile)
	}
	if c.Threads < 1 {
		return fmt.Errorf("%w: thread count %d", ErrInvalidConfiguration, c.Threads)
	}
	return nil
}

// Key returns the deterministic position label for the configuration, so a
// failure is reproducible by position in the matrix.
func (c RunConfiguration) Key() string {
	return fmt.Sprintf("%s/%s/t%d", c.Mode, c.Profile, c.Threads)
}

// String returns the position label.
func (c RunConfiguration) String() string {
	return c.Key()
}
