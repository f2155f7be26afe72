// internal/platform/errors/errors_test.go
package errors

import (
	"testing"

	"raceward/internal/testutil"
)

func TestWrap(t *testing.T) {
	t.Run("wrapping keeps the sentinel", func(t *testing.T) {
		err := Wrap(ErrResolution, "querying version feed")

		testutil.AssertTrue(t, IsResolution(err), "sentinel survives wrapping")
		testutil.AssertContains(t, err.Error(), "querying version feed", "context prefixed")
	})

	t.Run("wrapf formats the context", func(t *testing.T) {
		err := Wrapf(ErrRegistryLoad, "rule %d", 3)

		testutil.AssertTrue(t, IsRegistryLoad(err), "sentinel survives wrapping")
		testutil.AssertContains(t, err.Error(), "rule 3", "formatted context")
	})

	t.Run("wrapping nil returns nil", func(t *testing.T) {
		testutil.AssertTrue(t, Wrap(nil, "context") == nil, "nil stays nil")
	})

	t.Run("joined errors match every cause", func(t *testing.T) {
		err := Wrap(Join(ErrResolution, ErrFeedUnavailable), "resolving")

		testutil.AssertTrue(t, IsResolution(err), "first cause matches")
		testutil.AssertTrue(t, IsFeedUnavailable(err), "second cause matches")
	})

	t.Run("nested wrapping keeps the chain", func(t *testing.T) {
		err := Wrap(Wrap(ErrToolCrash, "inner"), "outer")

		testutil.AssertTrue(t, IsToolCrash(err), "sentinel survives double wrapping")
		testutil.AssertContains(t, err.Error(), "outer", "outer context present")
		testutil.AssertContains(t, err.Error(), "inner", "inner context present")
	})
}

func TestSentinelHelpers(t *testing.T) {
	testutil.AssertTrue(t, IsResolution(ErrResolution), "resolution matches itself")
	testutil.AssertFalse(t, IsResolution(ErrToolCrash), "different sentinels do not match")
	testutil.AssertFalse(t, IsResolution(nil), "nil matches nothing")
	testutil.AssertTrue(t, IsInvalidInput(Wrap(ErrInvalidInput, "bad flag")), "invalid input helper")
	testutil.AssertTrue(t, IsFeedUnavailable(Wrap(ErrFeedUnavailable, "503")), "feed helper")
}
