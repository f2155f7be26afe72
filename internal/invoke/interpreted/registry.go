package interpreted

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
			Description: "Abstract-memory-model interpreter run detecting undefined behavior deterministically",
			Version:     "1.0.0",
			Mode:        domain.AnalysisModeInterpreted,
			Priority:    10, // interpreted runs first in the matrix
		},
	); err != nil {
		// Log error but don't panic - allow application to start
		logx.New().Warn("failed to register interpreted invoker", "error", err.Error())
	}
}

// factory creates the interpreted Invoker from InvokerConfig using registry helpers
func factory(cfg ports.InvokerConfig, deps registry.Deps) (ports.Invoker, error) {
	execPath := registry.GetStringConfig(cfg.Custom, "exec_path", "interp-harness")
	if cfg.ExecPath != "" {
		execPath = cfg.ExecPath
	}
	corpus := registry.GetStringConfig(cfg.Custom, "corpus", "./corpus")
	cacheDir := registry.GetStringConfig(cfg.Custom, "cache_dir", "")
	extraArgs := registry.GetSliceConfig(cfg.Custom, "extra_args", nil)
	excludePanics := registry.GetBoolConfig(cfg.Custom, "exclude_expected_panics", true)

	return NewWithConfig(Options{
		Logger:                deps.Logger,
		ExecPath:              execPath,
		Timeout:               cfg.Timeout,
		Corpus:                corpus,
		CacheDir:              cacheDir,
		ExtraArgs:             extraArgs,
		ExcludeExpectedPanics: excludePanics,
		Toolchain:             deps.Toolchain,
	})
}
