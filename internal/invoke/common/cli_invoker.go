// Package common provides shared subprocess plumbing for analysis invokers.
package common

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"raceward/internal/platform/logx"
)

// OutputHandler consumes diagnostic output from an analysis tool.
// Implementations define how to parse stdout/stderr lines into findings.
type OutputHandler interface {
	// ProcessLine handles each diagnostic line in order.
	// Return error to stop processing (non-fatal errors should be logged instead).
	ProcessLine(line []byte) error

	// Finalize is called after all lines are processed.
	Finalize() error
}

// ToolRun is the raw outcome of one tool execution.
type ToolRun struct {
	// ExitCode process exit code (0 = success)
	ExitCode int

	// Diagnostics combined stdout+stderr, the tool's native payload kept opaque
	Diagnostics string

	// Duration wall time of the execution
	Duration time.Duration
}

// BaseCLIInvoker provides common functionality for subprocess-based analysis
// invokers: execution, I/O management, and resource cleanup.
//
// Usage:
//  1. Embed BaseCLIInvoker in your invoker struct
//  2. Call Initialize() to resolve the tool binary
//  3. Implement OutputHandler for parsing logic
//  4. Call ExecuteTool() in your Execute() method
type BaseCLIInvoker struct {
	logger   logx.Logger
	execPath string
	timeout  time.Duration

	// Process management
	mu  sync.Mutex
	cmd *exec.Cmd
}

// BaseCLIConfig contains configuration for BaseCLIInvoker.
type BaseCLIConfig struct {
	InvokerName string        // Invoker name for logging
	ExecPath    string        // Path to tool binary (resolved via LookPath)
	Timeout     time.Duration // Per-execution timeout (0 = none)
}

// NewBaseCLIInvoker creates a new BaseCLIInvoker with the given configuration.
func NewBaseCLIInvoker(logger logx.Logger, cfg BaseCLIConfig) *BaseCLIInvoker {
	return &BaseCLIInvoker{
		logger:   logger.With("invoker", cfg.InvokerName),
		execPath: cfg.ExecPath,
		timeout:  cfg.Timeout,
	}
}

// ExecuteTool runs the analysis tool once with the given arguments and extra
// environment, streaming every diagnostic line through the handler.
//
// The error return covers only failures to run the tool at all (pipe/start
// errors); a non-zero exit is reported via ToolRun.ExitCode so the caller
// can distinguish findings from tool crashes.
func (b *BaseCLIInvoker) ExecuteTool(
	ctx context.Context,
	args []string,
	extraEnv []string,
	handler OutputHandler,
) (*ToolRun, error) {
	startTime := time.Now()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	b.logger.Info("executing analysis tool",
		"exec_path", b.execPath,
		"args", strings.Join(args, " "),
		"timeout", b.timeout.String(),
	)

	cmd := exec.CommandContext(ctx, b.execPath, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	b.mu.Lock()
	b.cmd = cmd
	b.mu.Unlock()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	b.logger.Debug("subprocess started", "pid", cmd.Process.Pid)

	// Read stderr in background to prevent blocking; race reports usually
	// land there, so it is parsed after stdout completes.
	var stderrBytes []byte
	var stderrMu sync.Mutex
	var stderrWg sync.WaitGroup
	stderrWg.Add(1)

	go func() {
		defer stderrWg.Done()
		data, readErr := io.ReadAll(stderr)
		if readErr != nil {
			b.logger.Warn("error reading stderr", "error", readErr.Error())
		}
		stderrMu.Lock()
		stderrBytes = data
		stderrMu.Unlock()
	}()

	var diagnostics bytes.Buffer

	// Process stdout line by line
	scanner := bufio.NewScanner(stdout)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max token size

	for scanner.Scan() {
		line := scanner.Bytes()
		diagnostics.Write(line)
		diagnostics.WriteByte('\n')

		if err := handler.ProcessLine(line); err != nil {
			b.logger.Warn("handler error", "error", err.Error())
			// Continue processing despite handler errors
		}
	}

	if err := scanner.Err(); err != nil {
		b.logger.Warn("scanner error", "error", err.Error())
	}

	// Wait closes the pipes; stderr must be drained first or a slow writer
	// gets truncated, and race reports land on stderr.
	stderrWg.Wait()
	waitErr := cmd.Wait()

	stderrMu.Lock()
	stderrOutput := stderrBytes
	stderrMu.Unlock()

	// Feed stderr through the same handler, preserving report order within
	// each stream.
	for _, line := range bytes.Split(stderrOutput, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		diagnostics.Write(line)
		diagnostics.WriteByte('\n')
		if err := handler.ProcessLine(line); err != nil {
			b.logger.Warn("handler error", "error", err.Error())
		}
	}

	if err := handler.Finalize(); err != nil {
		b.logger.Warn("handler finalization error", "error", err.Error())
	}

	run := &ToolRun{
		Diagnostics: diagnostics.String(),
		Duration:    time.Since(startTime),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			run.ExitCode = exitErr.ExitCode()
			b.logger.Warn("subprocess exited non-zero",
				"exit_code", run.ExitCode,
				"duration", run.Duration.String(),
			)
			return run, nil
		}
		return run, fmt.Errorf("process did not complete: %w", waitErr)
	}

	b.logger.Info("analysis tool completed",
		"duration", run.Duration.String(),
	)
	return run, nil
}

// Close terminates the subprocess if still running.
// Safe to call multiple times (idempotent).
func (b *BaseCLIInvoker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug("closing CLI invoker")

	if b.cmd != nil && b.cmd.Process != nil {
		proc := b.cmd.Process
		state := b.cmd.ProcessState

		if state == nil || !state.Exited() {
			// Try SIGTERM first (graceful shutdown)
			if err := proc.Signal(os.Interrupt); err != nil {
				if err != os.ErrProcessDone {
					b.logger.Warn("SIGTERM failed, forcing kill", "error", err.Error())
					if killErr := proc.Kill(); killErr != nil && killErr != os.ErrProcessDone {
						b.logger.Warn("failed to kill process", "error", killErr.Error())
					}
				}
			}
		}

		b.cmd = nil
	}

	return nil
}

// Initialize verifies that the tool binary exists and is executable.
func (b *BaseCLIInvoker) Initialize(invokerName, installInstructions string) error {
	b.logger.Debug("initializing CLI invoker", "exec_path", b.execPath)

	execPath, err := exec.LookPath(b.execPath)
	if err != nil {
		return fmt.Errorf("%s tool not found in PATH: %w (install: %s)", invokerName, err, installInstructions)
	}

	b.execPath = execPath
	b.logger.Debug("found binary", "path", execPath)
	return nil
}

// Validate checks the invoker's own configuration.
func (b *BaseCLIInvoker) Validate() error {
	if b.execPath == "" {
		return fmt.Errorf("exec path is empty")
	}
	if b.timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// GetExecPath returns the resolved executable path.
func (b *BaseCLIInvoker) GetExecPath() string {
	return b.execPath
}

// GetTimeout returns the configured timeout.
func (b *BaseCLIInvoker) GetTimeout() time.Duration {
	return b.timeout
}

// GetLogger returns the logger instance.
func (b *BaseCLIInvoker) GetLogger() logx.Logger {
	return b.logger
}
