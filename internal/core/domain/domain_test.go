// internal/core/domain/domain_test.go
package domain

import (
	"testing"

	"raceward/internal/testutil"
)

func TestAnalysisMode(t *testing.T) {
	testutil.AssertTrue(t, AnalysisModeInterpreted.IsValid(), "interpreted is valid")
	testutil.AssertTrue(t, AnalysisModeInstrumented.IsValid(), "instrumented is valid")
	testutil.AssertFalse(t, AnalysisMode("hybrid").IsValid(), "unknown mode is invalid")

	testutil.AssertEqual(t, AnalysisModeInterpreted.Reproducibility(), ReproDeterministic,
		"interpreted findings reproduce deterministically")
	testutil.AssertEqual(t, AnalysisModeInstrumented.Reproducibility(), ReproScheduleDependent,
		"instrumented findings depend on the schedule")
}

func TestSignature(t *testing.T) {
	t.Run("key is canonical", func(t *testing.T) {
		sig := Signature{File: "src/vec.rs", Line: 137, Shape: ShapeDataRace}
		testutil.AssertEqual(t, sig.Key(), "src/vec.rs:137#data-race", "key format")
	})

	t.Run("validity", func(t *testing.T) {
		testutil.AssertTrue(t, Signature{File: "a.rs", Line: 1, Shape: ShapeDataRace}.IsValid(), "complete signature")
		testutil.AssertFalse(t, Signature{File: "", Line: 1, Shape: ShapeDataRace}.IsValid(), "missing file")
		testutil.AssertFalse(t, Signature{File: "a.rs", Line: 0, Shape: ShapeDataRace}.IsValid(), "line must be positive")
		testutil.AssertFalse(t, Signature{File: "a.rs", Line: 1, Shape: Shape("x")}.IsValid(), "unknown shape")
	})
}

func TestNewFinding(t *testing.T) {
	f := NewFinding(AnalysisModeInterpreted, Signature{File: "a.rs", Line: 3, Shape: ShapeInvalidAlias}, "retag failed")

	testutil.AssertEqual(t, f.Severity, SeverityUnsuppressed, "findings start unsuppressed")
	testutil.AssertEqual(t, f.Reproducibility, ReproDeterministic, "reproducibility follows the mode")
	testutil.AssertFalse(t, f.IsSuppressed(), "not suppressed by default")
}

func TestRunConfiguration(t *testing.T) {
	t.Run("key encodes the matrix position", func(t *testing.T) {
		cfg := RunConfiguration{Mode: AnalysisModeInstrumented, Profile: ProfileRelease, Threads: 4}
		testutil.AssertEqual(t, cfg.Key(), "instrumented/release/t4", "position label")
	})

	t.Run("validation", func(t *testing.T) {
		good := RunConfiguration{Mode: AnalysisModeInterpreted, Profile: ProfileDebug, Threads: 1}
		testutil.AssertNoError(t, good.Validate(), "complete configuration")

		testutil.AssertError(t, RunConfiguration{Mode: "x", Profile: ProfileDebug, Threads: 1}.Validate(), "bad mode")
		testutil.AssertError(t, RunConfiguration{Mode: AnalysisModeInterpreted, Profile: "fast", Threads: 1}.Validate(), "bad profile")
		testutil.AssertError(t, RunConfiguration{Mode: AnalysisModeInterpreted, Profile: ProfileDebug, Threads: 0}.Validate(), "bad threads")
	})
}

func TestRunResultSeal(t *testing.T) {
	cfg := RunConfiguration{Mode: AnalysisModeInstrumented, Profile: ProfileDebug, Threads: 1}

	t.Run("no findings passes", func(t *testing.T) {
		rr := NewRunResult(cfg)
		rr.Seal()
		testutil.AssertEqual(t, rr.Outcome, OutcomePass, "empty run passes")
	})

	t.Run("unsuppressed finding fails", func(t *testing.T) {
		rr := NewRunResult(cfg)
		rr.AddFinding(NewFinding(AnalysisModeInstrumented, Signature{File: "a.rs", Line: 1, Shape: ShapeDataRace}, "race"))
		rr.Seal()
		testutil.AssertEqual(t, rr.Outcome, OutcomeFail, "unsuppressed finding fails the run")
		testutil.AssertEqual(t, rr.UnsuppressedCount(), 1, "one failing finding")
	})

	t.Run("fully suppressed run passes", func(t *testing.T) {
		rr := NewRunResult(cfg)
		f := NewFinding(AnalysisModeInstrumented, Signature{File: "a.rs", Line: 1, Shape: ShapeDataRace}, "race")
		f.Severity = SeveritySuppressed
		rr.AddFinding(f)
		rr.Seal()
		testutil.AssertEqual(t, rr.Outcome, OutcomePass, "suppressed findings are informational")
		testutil.AssertEqual(t, rr.SuppressedCount(), 1, "still recorded")
	})

	t.Run("crash outcome is sticky", func(t *testing.T) {
		rr := NewRunResult(cfg)
		rr.MarkCrashed(nil)
		rr.Seal()
		testutil.AssertEqual(t, rr.Outcome, OutcomeResolutionError, "crash outcome survives sealing")
	})
}

func TestHarnessResult(t *testing.T) {
	hr := NewHarnessResult()
	testutil.AssertNotEqual(t, hr.ID, "", "invocation id is assigned")

	cfg := RunConfiguration{Mode: AnalysisModeInterpreted, Profile: ProfileDebug, Threads: 1}
	rr := NewRunResult(cfg)
	rr.AddFinding(NewFinding(AnalysisModeInterpreted, Signature{File: "a.rs", Line: 1, Shape: ShapeDataRace}, "race"))
	hr.AddResult(rr)
	hr.AddResult(nil)
	hr.Finalize()

	testutil.AssertEqual(t, len(hr.Results), 1, "nil results are ignored")
	testutil.AssertEqual(t, hr.TotalFindings(), 1, "findings counted across configurations")
	testutil.AssertTrue(t, !hr.Metadata.EndTime.IsZero(), "finalize stamps the end time")
}
