// internal/platform/ui/presenter.go
package ui

import (
	"raceward/internal/core/domain"
)

// RunInfo describes the invocation shown in the header.
type RunInfo struct {
	Corpus         string
	Toolchain      string
	Configurations int
	TimeoutSeconds int
}

// Presenter renders harness progress to the terminal. It doubles as the
// harness RunObserver.
type Presenter interface {
	Start(info RunInfo)
	ConfigurationStarted(cfg domain.RunConfiguration)
	ConfigurationFinished(result *domain.RunResult)
	Verdict(outcome domain.Outcome)
}

// NoopPresenter discards all presentation (quiet mode / pipelines).
type NoopPresenter struct{}

// NewNoopPresenter creates a presenter that renders nothing.
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

func (n *NoopPresenter) Start(RunInfo)                                {}
func (n *NoopPresenter) ConfigurationStarted(domain.RunConfiguration) {}
func (n *NoopPresenter) ConfigurationFinished(*domain.RunResult)      {}
func (n *NoopPresenter) Verdict(domain.Outcome)                       {}
