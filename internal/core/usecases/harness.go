// internal/core/usecases/harness.go
package usecases

import (
	"context"

	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/platform/errors"
	"raceward/internal/platform/logx"
)

// Harness drives the run configuration matrix through the analysis
// invokers. Configurations execute strictly sequentially: concurrent
// instrumented runs would interleave their own telemetry and reintroduce
// the very races the harness exists to catch.
type Harness struct {
	invokers map[domain.AnalysisMode]ports.Invoker
	matrix   []domain.RunConfiguration
	logger   logx.Logger
	observer RunObserver
}

// RunObserver receives per-configuration progress callbacks (UI, metrics).
type RunObserver interface {
	ConfigurationStarted(cfg domain.RunConfiguration)
	ConfigurationFinished(result *domain.RunResult)
}

// HarnessOptions configures the harness.
type HarnessOptions struct {
	Invokers map[domain.AnalysisMode]ports.Invoker
	Matrix   []domain.RunConfiguration
	Logger   logx.Logger
	Observer RunObserver
}

// NewHarness creates a harness over the given invokers and matrix.
func NewHarness(opts HarnessOptions) (*Harness, error) {
	if len(opts.Matrix) == 0 {
		return nil, domain.ErrEmptyMatrix
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &Harness{
		invokers: opts.Invokers,
		matrix:   opts.Matrix,
		logger:   opts.Logger.With("component", "harness"),
		observer: opts.Observer,
	}, nil
}

// Run executes every configuration in matrix order and collects one
// RunResult per configuration. There is no early exit on failure: fixing
// one interleaving-dependent race should not hide a second in the same
// corpus, so every configuration always reports.
func (h *Harness) Run(ctx context.Context) (*domain.HarnessResult, error) {
	result := domain.NewHarnessResult()

	h.logger.Info("harness starting",
		"configurations", len(h.matrix),
		"invokers", len(h.invokers),
	)

	for idx, cfg := range h.matrix {
		if err := ctx.Err(); err != nil {
			// Cancellation still reports the configurations already run.
			h.logger.Warn("harness cancelled", "position", idx, "config", cfg.Key())
			rr := domain.NewRunResult(cfg)
			rr.MarkCrashed(errors.Wrapf(err, "cancelled before configuration %s", cfg.Key()))
			result.AddResult(rr)
			continue
		}

		result.AddResult(h.runConfiguration(ctx, idx, cfg))
	}

	result.Finalize()

	h.logger.Info("harness finished",
		"configurations", len(result.Results),
		"findings", result.TotalFindings(),
		"outcome", Aggregate(result.Results).String(),
		"duration_ms", result.Metadata.Duration.Milliseconds(),
	)

	return result, nil
}

func (h *Harness) runConfiguration(ctx context.Context, idx int, cfg domain.RunConfiguration) *domain.RunResult {
	log := h.logger.With("position", idx, "config", cfg.Key())
	log.Info("executing configuration")

	if h.observer != nil {
		h.observer.ConfigurationStarted(cfg)
	}

	invoker, ok := h.invokers[cfg.Mode]
	if !ok {
		log.Warn("no invoker for analysis mode", "mode", cfg.Mode.String())
		rr := domain.NewRunResult(cfg)
		rr.MarkCrashed(errors.Wrapf(domain.ErrNoInvoker, "mode %s", cfg.Mode))
		if h.observer != nil {
			h.observer.ConfigurationFinished(rr)
		}
		return rr
	}

	rr, err := invoker.Execute(ctx, cfg)
	if err != nil || rr == nil {
		// The invoker could not produce a result at all; synthesize a
		// resolution error so the configuration still reports.
		log.Err(err, "phase", "execute")
		rr = domain.NewRunResult(cfg)
		rr.MarkCrashed(errors.Wrapf(err, "invoker %s failed", invoker.Name()))
	}

	log.Info("configuration finished",
		"outcome", rr.Outcome.String(),
		"findings", len(rr.Findings),
		"suppressed", rr.SuppressedCount(),
	)

	if h.observer != nil {
		h.observer.ConfigurationFinished(rr)
	}
	return rr
}
