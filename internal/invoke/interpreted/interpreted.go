// Package interpreted implements the abstract-memory-model interpreter
// invoker. It runs the corpus under an execution mode that tracks provenance
// and access permissions per value and flags undefined behavior as findings
// with deterministic reproducibility.
package interpreted

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"raceward/internal/core/domain"
	"raceward/internal/invoke/common"
	"raceward/internal/platform/errors"
	"raceward/internal/platform/logx"
)

// Invoker executes the corpus once per configuration under interpretation.
type Invoker struct {
	*common.BaseCLIInvoker

	corpus                string
	cacheDir              string
	extraArgs             []string
	excludeExpectedPanics bool
	toolchain             domain.ToolchainIdentity
}

// Options configures the interpreted invoker.
type Options struct {
	Logger                logx.Logger
	ExecPath              string
	Timeout               time.Duration
	Corpus                string
	CacheDir              string
	ExtraArgs             []string
	ExcludeExpectedPanics bool
	Toolchain             domain.ToolchainIdentity
}

// NewWithConfig creates the invoker. The toolchain must already be resolved:
// exactly one identity is active per interpreter run, and it must carry the
// interpreter capability.
func NewWithConfig(opts Options) (*Invoker, error) {
	if opts.Toolchain.IsZero() {
		return nil, errors.Wrap(errors.ErrResolution, "interpreted invoker requires a resolved toolchain")
	}
	if !opts.Toolchain.Interpreter {
		return nil, errors.Wrapf(errors.ErrResolution,
			"toolchain %s does not carry the interpreter capability", opts.Toolchain.Version)
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "raceward-interp-cache")
	}

	return &Invoker{
		BaseCLIInvoker: common.NewBaseCLIInvoker(opts.Logger, common.BaseCLIConfig{
			InvokerName: Name,
			ExecPath:    opts.ExecPath,
			Timeout:     opts.Timeout,
		}),
		corpus:                opts.Corpus,
		cacheDir:              cacheDir,
		extraArgs:             opts.ExtraArgs,
		excludeExpectedPanics: opts.ExcludeExpectedPanics,
		toolchain:             opts.Toolchain,
	}, nil
}

// Name is the registry name of this invoker.
const Name = "interpreted"

// Name implements ports.Invoker.
func (i *Invoker) Name() string {
	return Name
}

// Mode implements ports.Invoker.
func (i *Invoker) Mode() domain.AnalysisMode {
	return domain.AnalysisModeInterpreted
}

// Execute implements ports.Invoker. Build profile is not meaningful under
// interpretation; the configuration carries the canonical debug placeholder.
func (i *Invoker) Execute(ctx context.Context, cfg domain.RunConfiguration) (*domain.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode != domain.AnalysisModeInterpreted {
		return nil, errors.Wrapf(domain.ErrInvalidConfiguration, "interpreted invoker got mode %s", cfg.Mode)
	}

	res := domain.NewRunResult(cfg)
	handler := newParser(i.excludeExpectedPanics)

	args := []string{"test", i.corpus}
	if i.excludeExpectedPanics {
		args = append(args, "--exclude-should-panic")
	}
	args = append(args, i.extraArgs...)

	env := []string{
		fmt.Sprintf("RACEWARD_TOOLCHAIN=%s", i.toolchain.Version),
		fmt.Sprintf("RACEWARD_INTERP_CACHE=%s", i.cacheDir),
	}

	// Cached interpretation state must not leak into the next configuration.
	defer i.clearCache()

	run, err := i.ExecuteTool(ctx, args, env, handler)
	if run != nil {
		res.Diagnostics = run.Diagnostics
	}
	if err != nil {
		res.MarkCrashed(errors.Wrap(errors.Join(errors.ErrToolCrash, err), "interpreter did not complete"))
		return res, nil
	}

	if handler.ToolCrashed() {
		res.MarkCrashed(errors.Wrap(errors.ErrToolCrash, "interpreter crashed during the run"))
		return res, nil
	}

	// Interpreted findings are never suppressed; suppression is a
	// race-detector concern.
	for _, f := range handler.Findings() {
		res.AddFinding(f)
	}

	res.Seal()

	// Non-zero exit with no findings: either an ordinary test failure the
	// diagnostics attribute, or the tool failed independent of any finding.
	if run.ExitCode != 0 && res.Outcome == domain.OutcomePass {
		if handler.SawTestFailure() {
			res.Outcome = domain.OutcomeFail
		} else {
			res.MarkCrashed(errors.Wrapf(errors.ErrToolCrash,
				"interpreter exited %d without diagnostics", run.ExitCode))
		}
	}

	return res, nil
}

func (i *Invoker) clearCache() {
	if i.cacheDir == "" {
		return
	}
	if err := os.RemoveAll(i.cacheDir); err != nil {
		i.GetLogger().Warn("failed to clear interpretation cache", "dir", i.cacheDir, "error", err.Error())
	}
}
