// Package instrumented implements the dynamic race-detector invoker. It
// builds and runs the corpus with runtime race instrumentation across real
// OS threads; the harness's own test-case scheduler stays single-threaded so
// failures are attributable to a specific test case.
package instrumented

import (
	"context"
	"fmt"
	"time"

	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/invoke/common"
	"raceward/internal/platform/errors"
	"raceward/internal/platform/logx"
)

// Invoker executes the corpus once per configuration with race
// instrumentation enabled. Raw tool findings are classified through the
// suppression registry before being reported.
type Invoker struct {
	*common.BaseCLIInvoker

	corpus      string
	extraArgs   []string
	historySize int
	classifier  ports.Classifier
}

// Options configures the instrumented invoker.
type Options struct {
	Logger    logx.Logger
	ExecPath  string
	Timeout   time.Duration
	Corpus    string
	ExtraArgs []string

	// HistorySize per-thread memory-access history depth the detector keeps
	// for report stacks (0 = tool default)
	HistorySize int

	Classifier ports.Classifier
}

// NewWithConfig creates the invoker. The classifier is required: raw
// detector findings must be classified before they reach the aggregator.
func NewWithConfig(opts Options) (*Invoker, error) {
	if opts.Classifier == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "instrumented invoker requires a classifier")
	}

	return &Invoker{
		BaseCLIInvoker: common.NewBaseCLIInvoker(opts.Logger, common.BaseCLIConfig{
			InvokerName: Name,
			ExecPath:    opts.ExecPath,
			Timeout:     opts.Timeout,
		}),
		corpus:      opts.Corpus,
		extraArgs:   opts.ExtraArgs,
		historySize: opts.HistorySize,
		classifier:  opts.Classifier,
	}, nil
}

// Name is the registry name of this invoker.
const Name = "instrumented"

// Name implements ports.Invoker.
func (i *Invoker) Name() string {
	return Name
}

// Mode implements ports.Invoker.
func (i *Invoker) Mode() domain.AnalysisMode {
	return domain.AnalysisModeInstrumented
}

// Execute implements ports.Invoker. Every finding the classifier leaves
// unsuppressed fails the configuration; suppressed findings are recorded but
// do not fail the run. A tool crash is a resolution error, never a finding,
// and is never absorbed by suppression.
func (i *Invoker) Execute(ctx context.Context, cfg domain.RunConfiguration) (*domain.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode != domain.AnalysisModeInstrumented {
		return nil, errors.Wrapf(domain.ErrInvalidConfiguration, "instrumented invoker got mode %s", cfg.Mode)
	}

	res := domain.NewRunResult(cfg)
	handler := newParser()

	// Test cases run one at a time; the code under test still spawns as many
	// real threads as it wants.
	args := []string{
		"test", i.corpus,
		"--profile", cfg.Profile.String(),
		fmt.Sprintf("--test-threads=%d", cfg.Threads),
	}
	args = append(args, i.extraArgs...)

	env := []string{"RACEWARD_RACE_INSTRUMENTATION=1"}
	if i.historySize > 0 {
		env = append(env, fmt.Sprintf("RACEWARD_RACE_HISTORY=%d", i.historySize))
	}

	run, err := i.ExecuteTool(ctx, args, env, handler)
	if run != nil {
		res.Diagnostics = run.Diagnostics
	}
	if err != nil {
		res.MarkCrashed(errors.Wrap(errors.Join(errors.ErrToolCrash, err), "race detector did not complete"))
		return res, nil
	}

	if handler.ToolCrashed() {
		res.MarkCrashed(errors.Wrap(errors.ErrToolCrash, "race detector crashed during the run"))
		return res, nil
	}

	// Findings are collected for the full run before the verdict; a single
	// run surfaces every anomaly, not just the first.
	for _, f := range handler.Findings() {
		f.Severity = i.classifier.Classify(f)
		res.AddFinding(f)
	}

	res.Seal()

	if run.ExitCode != 0 && res.Outcome == domain.OutcomePass {
		if handler.SawTestFailure() {
			res.Outcome = domain.OutcomeFail
		} else {
			res.MarkCrashed(errors.Wrapf(errors.ErrToolCrash,
				"race detector exited %d without diagnostics", run.ExitCode))
		}
	}

	return res, nil
}
