// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"raceward/internal/core/domain"
)

// PTermPresenter renders harness progress with the pterm library.
type PTermPresenter struct {
	mu sync.Mutex

	startTime time.Time
	spinners  map[string]*pterm.SpinnerPrinter
}

// NewPTermPresenter creates a new pterm-backed presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{
		spinners: make(map[string]*pterm.SpinnerPrinter),
	}
}

// Start renders the invocation header.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("raceward - Concurrency Verification Harness")

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	text := fmt.Sprintf("Corpus: %s\n", pterm.Cyan(info.Corpus))
	text += fmt.Sprintf("Toolchain: %s\n", pterm.Yellow(info.Toolchain))
	text += fmt.Sprintf("Configurations: %d\n", info.Configurations)
	text += fmt.Sprintf("Timeout: %ds", info.TimeoutSeconds)

	infoPanel.Println(text)
	pterm.Println()
}

// ConfigurationStarted shows a spinner for the running configuration.
func (p *PTermPresenter) ConfigurationStarted(cfg domain.RunConfiguration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	spinner, err := pterm.DefaultSpinner.Start(cfg.Key())
	if err != nil {
		return
	}
	p.spinners[cfg.Key()] = spinner
}

// ConfigurationFinished resolves the configuration's spinner with its outcome.
func (p *PTermPresenter) ConfigurationFinished(result *domain.RunResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := result.Config.Key()
	spinner, ok := p.spinners[key]
	if !ok {
		return
	}
	delete(p.spinners, key)

	label := fmt.Sprintf("%s  findings=%d suppressed=%d",
		key, len(result.Findings), result.SuppressedCount())

	switch result.Outcome {
	case domain.OutcomePass:
		spinner.Success(label)
	case domain.OutcomeFail:
		spinner.Fail(label)
	default:
		spinner.Warning(fmt.Sprintf("%s  %s", label, result.Err))
	}
}

// Verdict renders the aggregate outcome.
func (p *PTermPresenter) Verdict(outcome domain.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime).Round(time.Millisecond)

	pterm.Println()
	switch outcome {
	case domain.OutcomePass:
		pterm.Success.Printfln("PASS (%s)", elapsed)
	case domain.OutcomeFail:
		pterm.Error.Printfln("FAIL (%s)", elapsed)
	default:
		pterm.Warning.Printfln("RESOLUTION ERROR (%s)", elapsed)
	}
}
