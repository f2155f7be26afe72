// internal/toolchain/resolver_test.go
package toolchain

import (
	"context"
	"os"
	"testing"

	"raceward/internal/core/domain"
	"raceward/internal/platform/errors"
	"raceward/internal/testutil"
)

// stubFeed returns a fixed version list or a fixed error.
type stubFeed struct {
	ids []domain.ToolchainIdentity
	err error
}

func (s *stubFeed) Versions(_ context.Context) ([]domain.ToolchainIdentity, error) {
	return s.ids, s.err
}

func TestResolve(t *testing.T) {
	t.Run("picks newest interpreter-capable version", func(t *testing.T) {
		feed := &stubFeed{ids: []domain.ToolchainIdentity{
			{Version: "nightly-2026-08-27", Interpreter: true},
			{Version: "nightly-2026-08-29", Interpreter: false},
			{Version: "nightly-2026-08-28", Interpreter: true},
		}}
		r := NewResolver(feed, testutil.NewTestLogger())

		got, err := r.Resolve(context.Background())

		testutil.AssertNoError(t, err, "resolution should succeed")
		testutil.AssertEqual(t, got.Version, "nightly-2026-08-28",
			"newest capable version wins, not the newest overall")
	})

	t.Run("fails when no version is capable", func(t *testing.T) {
		feed := &stubFeed{ids: []domain.ToolchainIdentity{
			{Version: "nightly-2026-08-29", Interpreter: false},
			{Version: "1.80.0", Interpreter: false},
		}}
		r := NewResolver(feed, testutil.NewTestLogger())

		_, err := r.Resolve(context.Background())

		testutil.AssertError(t, err, "no capable version must be fatal")
		testutil.AssertTrue(t, errors.IsResolution(err), "should be a resolution error")
	})

	t.Run("fails when the feed is empty", func(t *testing.T) {
		r := NewResolver(&stubFeed{}, testutil.NewTestLogger())

		_, err := r.Resolve(context.Background())
		testutil.AssertTrue(t, errors.IsResolution(err), "empty feed should be a resolution error")
	})

	t.Run("propagates feed failures as resolution errors", func(t *testing.T) {
		feed := &stubFeed{err: errors.Wrap(errors.ErrFeedUnavailable, "503")}
		r := NewResolver(feed, testutil.NewTestLogger())

		_, err := r.Resolve(context.Background())

		testutil.AssertError(t, err, "feed failure must surface")
		testutil.AssertTrue(t, errors.IsResolution(err), "should be a resolution error")
		testutil.AssertTrue(t, errors.IsFeedUnavailable(err), "should keep the feed cause")
	})

	t.Run("ignores entries without a version", func(t *testing.T) {
		feed := &stubFeed{ids: []domain.ToolchainIdentity{
			{Version: "", Interpreter: true},
			{Version: "nightly-2026-08-01", Interpreter: true},
		}}
		r := NewResolver(feed, testutil.NewTestLogger())

		got, err := r.Resolve(context.Background())
		testutil.AssertNoError(t, err, "resolution should succeed")
		testutil.AssertEqual(t, got.Version, "nightly-2026-08-01", "empty versions are skipped")
	})
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"semver newer patch", "1.80.1", "1.80.0", 1},
		{"semver older minor", "1.79.0", "1.80.0", -1},
		{"semver equal", "1.80.0", "1.80.0", 0},
		{"semver with v prefix", "v1.81.0", "1.80.0", 1},
		{"date stamps order chronologically", "nightly-2026-08-29", "nightly-2026-08-28", 1},
		{"date stamps equal", "nightly-2026-08-29", "nightly-2026-08-29", 0},
		{"mixed tags fall back to lexical", "nightly-2026-08-29", "1.80.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVersions(tt.a, tt.b)
			// Normalize to sign for comparison.
			sign := 0
			if got > 0 {
				sign = 1
			} else if got < 0 {
				sign = -1
			}
			testutil.AssertEqual(t, sign, tt.want, "ordering of "+tt.a+" vs "+tt.b)
		})
	}
}

func TestActivate(t *testing.T) {
	t.Run("sets the pointer and restores the prior value", func(t *testing.T) {
		t.Setenv(ActiveToolchainEnv, "nightly-2026-01-01")

		restore, err := Activate(domain.ToolchainIdentity{Version: "nightly-2026-08-28", Interpreter: true})
		testutil.AssertNoError(t, err, "activation should succeed")
		testutil.AssertEqual(t, os.Getenv(ActiveToolchainEnv), "nightly-2026-08-28", "pointer should move")

		restore()
		testutil.AssertEqual(t, os.Getenv(ActiveToolchainEnv), "nightly-2026-01-01", "prior value should return")
	})

	t.Run("restore unsets when there was no prior value", func(t *testing.T) {
		t.Setenv(ActiveToolchainEnv, "placeholder")
		os.Unsetenv(ActiveToolchainEnv)

		restore, err := Activate(domain.ToolchainIdentity{Version: "nightly-2026-08-28", Interpreter: true})
		testutil.AssertNoError(t, err, "activation should succeed")

		restore()
		_, had := os.LookupEnv(ActiveToolchainEnv)
		testutil.AssertFalse(t, had, "pointer should be unset again")
	})

	t.Run("rejects an empty identity", func(t *testing.T) {
		_, err := Activate(domain.ToolchainIdentity{})
		testutil.AssertError(t, err, "empty identity cannot be activated")
	})
}
