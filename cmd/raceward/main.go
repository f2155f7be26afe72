// cmd/raceward/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"raceward/internal/adapters/output"
	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/core/usecases"
	"raceward/internal/platform/config"
	"raceward/internal/platform/logx"
	"raceward/internal/platform/registry"
	"raceward/internal/platform/ui"
	"raceward/internal/suppress"
	"raceward/internal/toolchain"

	// Import invokers for auto-registration via init()
	_ "raceward/internal/invoke/instrumented"
	_ "raceward/internal/invoke/interpreted"
)

var (
	// Set via -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	exitPass       = 0
	exitFail       = 1
	exitUsage      = 2
	exitResolution = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Load centralized config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return exitUsage
	}

	if cfg.PrintVersion {
		fmt.Printf("raceward %s (commit %s, built %s)\n", version, commit, date)
		return exitPass
	}

	if cfg.Corpus == "" {
		fmt.Fprintln(os.Stderr, "Error: corpus path is required")
		fmt.Fprintln(os.Stderr, "Usage: raceward --corpus <path>")
		fmt.Fprintln(os.Stderr, "Try: raceward -h for help")
		return exitUsage
	}

	// 2. Shared logger
	var logger logx.Logger
	if cfg.Quiet {
		logger = logx.NewSilent()
	} else {
		logger = logx.New()
	}

	logger.Info("raceward starting",
		"version", version,
		"corpus", cfg.Corpus,
		"interpreted", cfg.Modes.Interpreted,
		"instrumented", cfg.Modes.Instrumented,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// 4. Resolve and activate the toolchain before any test executes.
	// Only the interpreted analysis is capability-sensitive; skip resolution
	// entirely when it is not selected.
	var active domain.ToolchainIdentity
	if cfg.Modes.Interpreted {
		resolver := toolchain.NewResolver(toolchain.OpenFeed(cfg.Feed), logger)
		active, err = resolver.Resolve(ctx)
		if err != nil {
			logger.Err(err, "phase", "toolchain-resolution")
			return exitResolution
		}

		restore, err := toolchain.Activate(active)
		if err != nil {
			logger.Err(err, "phase", "toolchain-activation")
			return exitResolution
		}
		defer restore()
	}

	// 5. Load the suppression registry before the instrumented run; a
	// malformed or unjustified rule aborts the whole invocation.
	classifier := suppress.NewEmpty(logger)
	if cfg.Modes.Instrumented {
		if _, statErr := os.Stat(cfg.Suppressions); statErr == nil {
			classifier, err = suppress.LoadFile(cfg.Suppressions, logger)
			if err != nil {
				logger.Err(err, "phase", "registry-load")
				return exitResolution
			}
		} else {
			logger.Warn("suppression file not found, running with empty registry",
				"path", cfg.Suppressions,
			)
		}
	}

	// 6. Build invokers from registry
	invokers, err := buildInvokers(logger, cfg, active, classifier)
	if err != nil {
		logger.Err(err, "phase", "invoker-build")
		return exitUsage
	}

	defer func() {
		for _, inv := range invokers {
			if err := inv.Close(); err != nil {
				logger.Warn("failed to close invoker",
					"invoker", inv.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	// 7. Enumerate the run configuration matrix
	matrix, err := usecases.BuildMatrix(usecases.MatrixOptions{
		Interpreted:  cfg.Modes.Interpreted,
		Instrumented: cfg.Modes.Instrumented,
		Threads:      cfg.Threads,
	})
	if err != nil {
		logger.Err(err, "phase", "matrix")
		return exitUsage
	}

	// 8. Presenter
	var presenter ui.Presenter
	if cfg.Quiet {
		presenter = ui.NewNoopPresenter()
	} else {
		presenter = ui.NewPTermPresenter()
	}
	presenter.Start(ui.RunInfo{
		Corpus:         cfg.Corpus,
		Toolchain:      active.Version,
		Configurations: len(matrix),
		TimeoutSeconds: cfg.TimeoutS,
	})

	// 9. Run the harness sequentially over the matrix
	harness, err := usecases.NewHarness(usecases.HarnessOptions{
		Invokers: invokers,
		Matrix:   matrix,
		Logger:   logger,
		Observer: presenter,
	})
	if err != nil {
		logger.Err(err, "phase", "harness-build")
		return exitUsage
	}

	result, runErr := harness.Run(ctx)
	if runErr != nil {
		logger.Err(runErr, "phase", "run")
		return exitResolution
	}

	result.Toolchain = active.Version
	result.Metadata.Version = version
	result.Metadata.Environment = map[string]string{
		"commit": commit,
		"date":   date,
	}

	// 10. Write outputs
	if err := writeOutputs(cfg, result); err != nil {
		logger.Err(err, "phase", "output")
		return exitResolution
	}

	// 11. Aggregate verdict and exit status
	overall := usecases.Aggregate(result.Results)
	presenter.Verdict(overall)

	logger.Info("raceward finished",
		"outcome", overall.String(),
		"configurations", len(result.Results),
		"findings", result.TotalFindings(),
		"duration_ms", result.Metadata.Duration.Milliseconds(),
	)

	return usecases.ExitCode(overall)
}

// buildInvokers builds enabled invokers from the registry, threading the
// resolved toolchain and the suppression classifier into their factories.
func buildInvokers(
	logger logx.Logger,
	cfg config.Config,
	active domain.ToolchainIdentity,
	classifier ports.Classifier,
) (map[domain.AnalysisMode]ports.Invoker, error) {
	// The corpus path is shared by every invoker.
	for name := range cfg.Invokers {
		invCfg := cfg.Invokers[name]
		if invCfg.Custom == nil {
			invCfg.Custom = make(map[string]interface{})
		}
		invCfg.Custom["corpus"] = cfg.Corpus
		cfg.Invokers[name] = invCfg
	}

	invokers, err := registry.Global().Build(cfg.Invokers, registry.Deps{
		Logger:     logger,
		Toolchain:  active,
		Classifier: classifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build invokers: %w", err)
	}
	if len(invokers) == 0 {
		return nil, fmt.Errorf("no invokers enabled")
	}
	return invokers, nil
}

// writeOutputs decides and executes outputs based on config.
func writeOutputs(cfg config.Config, result *domain.HarnessResult) error {
	// ALWAYS generate the JSON report; structured consumers rely on it
	if err := output.OutputJSON(cfg.OutputDir, result); err != nil {
		return fmt.Errorf("json output: %w", err)
	}

	if !cfg.Quiet {
		if err := output.OutputTable(result); err != nil {
			return fmt.Errorf("table output: %w", err)
		}
	}

	return nil
}

// rootContextWithSignals creates a root context cancelled on SIGINT/SIGTERM.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
