// cmd/raceward/main_test.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"raceward/internal/core/domain"
	"raceward/internal/core/usecases"
	"raceward/internal/platform/config"
	"raceward/internal/suppress"
	"raceward/internal/testutil"
)

func writeStub(t *testing.T, name, output string, exitCode int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\nexit %d\n", output, exitCode)
	testutil.AssertNoError(t, os.WriteFile(path, []byte(script), 0o755), "write stub")
	return path
}

// Both analyses observing the same unguarded concurrent mutation must report
// a finding with the same source location.
func TestCrossToolAgreement(t *testing.T) {
	interpStub := writeStub(t, "interp-harness",
		"error: Undefined Behavior: Data race detected between (1) write on thread `t1` and (2) read on thread `t2`\n"+
			"  --> src/vec.rs:137:5", 1)
	instrStub := writeStub(t, "race-harness",
		"WARNING: ThreadSanitizer: data race (pid=4242)\n"+
			"  Write of size 8 at 0x7b0400000800 by thread T1:\n"+
			"    #0 push src/vec.rs:137 (corpus+0x4a2b1)\n"+
			"SUMMARY: ThreadSanitizer: data race src/vec.rs:137 in push", 66)

	logger := testutil.NewTestLogger()

	cfg := config.DefaultConfig()
	interp := cfg.Invokers["interpreted"]
	interp.ExecPath = interpStub
	cfg.Invokers["interpreted"] = interp
	instr := cfg.Invokers["instrumented"]
	instr.ExecPath = instrStub
	cfg.Invokers["instrumented"] = instr

	active := domain.ToolchainIdentity{Version: "nightly-2026-08-28", Interpreter: true}
	invokers, err := buildInvokers(logger, cfg, active, suppress.NewEmpty(logger))
	testutil.AssertNoError(t, err, "invokers should build from the registry")
	defer func() {
		for _, inv := range invokers {
			_ = inv.Close()
		}
	}()

	matrix, err := usecases.BuildMatrix(usecases.MatrixOptions{
		Interpreted: true, Instrumented: true, Threads: 1,
	})
	testutil.AssertNoError(t, err, "matrix should build")

	harness, err := usecases.NewHarness(usecases.HarnessOptions{
		Invokers: invokers,
		Matrix:   matrix,
		Logger:   logger,
	})
	testutil.AssertNoError(t, err, "harness should build")

	result, err := harness.Run(context.Background())
	testutil.AssertNoError(t, err, "run should report")
	testutil.AssertEqual(t, len(result.Results), 3, "every configuration reports")

	const wantKey = "src/vec.rs:137#data-race"
	for _, r := range result.Results {
		testutil.AssertEqual(t, r.Outcome, domain.OutcomeFail, r.Config.Key()+" fails")
		testutil.AssertEqual(t, len(r.Findings), 1, r.Config.Key()+" reports one finding")
		testutil.AssertEqual(t, r.Findings[0].Signature.Key(), wantKey,
			"both analyses agree on the source location")
	}

	testutil.AssertEqual(t, usecases.Aggregate(result.Results), domain.OutcomeFail, "invocation fails")
	testutil.AssertEqual(t, usecases.ExitCode(domain.OutcomeFail), 1, "exit status for failure")
}
