package instrumented

import (
	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/platform/logx"
	"raceward/internal/platform/registry"
)

// Auto-registration on package import using registry helpers
func init() {
	if err := registry.Global().Register(
		Name,
		factory,
		ports.InvokerMetadata{
			Name:        Name,
			Description: "Dynamic race-detector run observing real thread interleavings",
			Version:     "1.0.0",
			Mode:        domain.AnalysisModeInstrumented,
			Priority:    5,
		},
	); err != nil {
		// Log error but don't panic - allow application to start
		logx.New().Warn("failed to register instrumented invoker", "error", err.Error())
	}
}

// factory creates the instrumented Invoker from InvokerConfig using registry helpers
func factory(cfg ports.InvokerConfig, deps registry.Deps) (ports.Invoker, error) {
	execPath := registry.GetStringConfig(cfg.Custom, "exec_path", "race-harness")
	if cfg.ExecPath != "" {
		execPath = cfg.ExecPath
	}
	corpus := registry.GetStringConfig(cfg.Custom, "corpus", "./corpus")
	extraArgs := registry.GetSliceConfig(cfg.Custom, "extra_args", nil)
	historySize := registry.GetIntConfig(cfg.Custom, "history_size", 0)

	return NewWithConfig(Options{
		Logger:      deps.Logger,
		ExecPath:    execPath,
		Timeout:     cfg.Timeout,
		Corpus:      corpus,
		ExtraArgs:   extraArgs,
		HistorySize: historySize,
		Classifier:  deps.Classifier,
	})
}
