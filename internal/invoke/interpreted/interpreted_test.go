// internal/invoke/interpreted/interpreted_test.go
package interpreted

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"raceward/internal/core/domain"
	"raceward/internal/platform/errors"
	"raceward/internal/testutil"
)

var capableToolchain = domain.ToolchainIdentity{Version: "nightly-2026-08-28", Interpreter: true}

// writeStub writes an executable script that emits the given output and
// exits with the given code.
func writeStub(t *testing.T, output string, exitCode int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interp-harness")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\nexit %d\n", output, exitCode)
	testutil.AssertNoError(t, os.WriteFile(path, []byte(script), 0o755), "write stub")
	return path
}

func interpretedConfig() domain.RunConfiguration {
	return domain.RunConfiguration{
		Mode:    domain.AnalysisModeInterpreted,
		Profile: domain.ProfileDebug,
		Threads: 1,
	}
}

func TestNewWithConfig(t *testing.T) {
	t.Run("requires a resolved toolchain", func(t *testing.T) {
		_, err := NewWithConfig(Options{Logger: testutil.NewTestLogger()})

		testutil.AssertError(t, err, "empty toolchain must be rejected")
		testutil.AssertTrue(t, errors.IsResolution(err), "should be a resolution error")
	})

	t.Run("requires the interpreter capability", func(t *testing.T) {
		_, err := NewWithConfig(Options{
			Logger:    testutil.NewTestLogger(),
			Toolchain: domain.ToolchainIdentity{Version: "1.80.0", Interpreter: false},
		})

		testutil.AssertError(t, err, "incapable toolchain must be rejected")
		testutil.AssertTrue(t, errors.IsResolution(err), "should be a resolution error")
	})

	t.Run("accepts a capable toolchain", func(t *testing.T) {
		inv, err := NewWithConfig(Options{
			Logger:    testutil.NewTestLogger(),
			ExecPath:  "interp-harness",
			Toolchain: capableToolchain,
		})

		testutil.AssertNoError(t, err, "capable toolchain should be accepted")
		testutil.AssertEqual(t, inv.Name(), Name, "invoker name")
		testutil.AssertEqual(t, inv.Mode(), domain.AnalysisModeInterpreted, "invoker mode")
	})
}

func TestExecute(t *testing.T) {
	newInvoker := func(t *testing.T, stub string) *Invoker {
		t.Helper()
		inv, err := NewWithConfig(Options{
			Logger:                testutil.NewTestLogger(),
			ExecPath:              stub,
			Corpus:                "./corpus",
			CacheDir:              filepath.Join(t.TempDir(), "cache"),
			ExcludeExpectedPanics: true,
			Toolchain:             capableToolchain,
		})
		testutil.AssertNoError(t, err, "invoker should build")
		return inv
	}

	t.Run("clean run passes", func(t *testing.T) {
		stub := writeStub(t, "running 3 tests\ntest result: ok. 3 passed", 0)
		inv := newInvoker(t, stub)

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomePass, "clean run passes")
		testutil.AssertEqual(t, len(res.Findings), 0, "no findings")
		testutil.AssertContains(t, res.Diagnostics, "running 3 tests", "diagnostics kept opaque")
	})

	t.Run("undefined behavior diagnostic fails the run", func(t *testing.T) {
		out := "error: Undefined Behavior: Data race detected between (1) write on thread `t1` and (2) read on thread `t2`\n  --> src/vec.rs:142:9"
		stub := writeStub(t, out, 1)
		inv := newInvoker(t, stub)

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomeFail, "a finding fails the configuration")
		testutil.AssertEqual(t, len(res.Findings), 1, "one finding")
		testutil.AssertEqual(t, res.Findings[0].Severity, domain.SeverityUnsuppressed, "interpreted findings are never suppressed")
	})

	t.Run("ordinary test failure fails without findings", func(t *testing.T) {
		stub := writeStub(t, "test result: FAILED. 2 passed; 1 failed", 1)
		inv := newInvoker(t, stub)

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomeFail, "attributed failure is a fail, not a crash")
		testutil.AssertEqual(t, len(res.Findings), 0, "no findings")
	})

	t.Run("unexplained non-zero exit is a resolution error", func(t *testing.T) {
		stub := writeStub(t, "some unrelated noise", 1)
		inv := newInvoker(t, stub)

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomeResolutionError, "unexplained exit is unjudged")
	})

	t.Run("interpreter crash is a resolution error", func(t *testing.T) {
		stub := writeStub(t, "thread 'rustc' panicked at 'ice'", 1)
		inv := newInvoker(t, stub)

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomeResolutionError, "crash is unjudged, never a finding")
	})

	t.Run("missing binary is a resolution error result", func(t *testing.T) {
		inv := newInvoker(t, filepath.Join(t.TempDir(), "absent"))

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute reports via the result")
		testutil.AssertEqual(t, res.Outcome, domain.OutcomeResolutionError, "unstartable tool is unjudged")
	})

	t.Run("rejects a non-interpreted configuration", func(t *testing.T) {
		stub := writeStub(t, "", 0)
		inv := newInvoker(t, stub)

		_, err := inv.Execute(context.Background(), domain.RunConfiguration{
			Mode:    domain.AnalysisModeInstrumented,
			Profile: domain.ProfileDebug,
			Threads: 1,
		})
		testutil.AssertError(t, err, "wrong mode must be rejected")
	})

	t.Run("passes configured extra arguments to the tool", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "interp-harness")
		testutil.AssertNoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"$@\"\n"), 0o755), "write stub")

		inv, err := NewWithConfig(Options{
			Logger:    testutil.NewTestLogger(),
			ExecPath:  path,
			Corpus:    "./corpus",
			CacheDir:  filepath.Join(t.TempDir(), "cache"),
			ExtraArgs: []string{"--many-seeds=0..16"},
			Toolchain: capableToolchain,
		})
		testutil.AssertNoError(t, err, "invoker should build")

		res, err := inv.Execute(context.Background(), interpretedConfig())

		testutil.AssertNoError(t, err, "execute should succeed")
		testutil.AssertContains(t, res.Diagnostics, "--many-seeds=0..16", "extra argument reached the tool")
	})

	t.Run("clears the interpretation cache after the run", func(t *testing.T) {
		cacheDir := filepath.Join(t.TempDir(), "cache")
		testutil.AssertNoError(t, os.MkdirAll(cacheDir, 0o755), "seed cache")

		stub := writeStub(t, "test result: ok. 1 passed", 0)
		inv, err := NewWithConfig(Options{
			Logger:    testutil.NewTestLogger(),
			ExecPath:  stub,
			Corpus:    "./corpus",
			CacheDir:  cacheDir,
			Toolchain: capableToolchain,
		})
		testutil.AssertNoError(t, err, "invoker should build")

		_, err = inv.Execute(context.Background(), interpretedConfig())
		testutil.AssertNoError(t, err, "execute should succeed")

		_, statErr := os.Stat(cacheDir)
		testutil.AssertTrue(t, os.IsNotExist(statErr), "cache must not leak into the next configuration")
	})
}
