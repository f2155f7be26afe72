// internal/toolchain/resolver.go
package toolchain

import (
	"context"
	"os"
	"strings"

	"golang.org/x/mod/semver"

	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/platform/errors"
	"raceward/internal/platform/logx"
)

// ActiveToolchainEnv is the process-wide pointer to the selected toolchain.
// Downstream tool invocations read it to pick their build. Only one
// toolchain can be default at a time; Activate returns a restore function
// so callers needing isolation can put the prior default back.
const ActiveToolchainEnv = "RACEWARD_TOOLCHAIN"

// Resolver selects the newest interpreter-capable toolchain from a version
// feed. Resolution happens once per harness invocation, before any test
// executes; there is no fallback toolchain.
type Resolver struct {
	feed   ports.VersionFeed
	logger logx.Logger
}

// NewResolver creates a resolver over the given feed.
func NewResolver(feed ports.VersionFeed, logger logx.Logger) *Resolver {
	return &Resolver{
		feed:   feed,
		logger: logger.With("component", "toolchain-resolver"),
	}
}

// Resolve queries the feed and returns the newest identity that carries the
// interpreter capability. An unreachable feed or the absence of any capable
// version is a resolution error, fatal to the harness run: a mismatched
// capability would silently disable the interpreted analysis instead of
// failing loudly.
func (r *Resolver) Resolve(ctx context.Context) (domain.ToolchainIdentity, error) {
	ids, err := r.feed.Versions(ctx)
	if err != nil {
		return domain.ToolchainIdentity{}, errors.Wrap(errors.Join(errors.ErrResolution, err), "querying version feed")
	}

	var best domain.ToolchainIdentity
	capable := 0
	for _, id := range ids {
		if !id.Interpreter || id.Version == "" {
			continue
		}
		capable++
		if best.IsZero() || CompareVersions(id.Version, best.Version) > 0 {
			best = id
		}
	}

	if best.IsZero() {
		return domain.ToolchainIdentity{}, errors.Wrapf(errors.ErrResolution,
			"no interpreter-capable toolchain in feed (%d versions listed)", len(ids))
	}

	r.logger.Info("toolchain resolved",
		"version", best.Version,
		"candidates", capable,
		"listed", len(ids),
	)
	return best, nil
}

// Activate selects the toolchain as the process-wide default and returns a
// restore function that puts the prior default back. The restore call is the
// caller's responsibility; it is the only environment mutation the harness
// performs.
func Activate(id domain.ToolchainIdentity) (restore func(), err error) {
	if id.IsZero() {
		return nil, errors.Wrap(errors.ErrInvalidInput, "cannot activate empty toolchain identity")
	}

	prior, had := os.LookupEnv(ActiveToolchainEnv)
	if err := os.Setenv(ActiveToolchainEnv, id.Version); err != nil {
		return nil, errors.Wrap(err, "setting active toolchain")
	}

	restore = func() {
		if had {
			_ = os.Setenv(ActiveToolchainEnv, prior)
		} else {
			_ = os.Unsetenv(ActiveToolchainEnv)
		}
	}
	return restore, nil
}

// CompareVersions totally orders two version tags. Semver-shaped tags are
// compared with semver semantics; anything else (e.g. date-stamped nightly
// tags like "nightly-2026-08-29") orders lexically, which matches
// chronological order for zero-padded date stamps.
func CompareVersions(a, b string) int {
	ca, cb := canonicalSemver(a), canonicalSemver(b)
	if ca != "" && cb != "" {
		return semver.Compare(ca, cb)
	}
	return strings.Compare(a, b)
}

func canonicalSemver(v string) string {
	c := v
	if !strings.HasPrefix(c, "v") {
		c = "v" + c
	}
	if semver.IsValid(c) {
		return c
	}
	return ""
}
