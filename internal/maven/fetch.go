// Package maven runs the external Maven command that populates the local repository.
package maven

import (
	"bytes"
	"context"
	"deployables/internal/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the process itself was killed.
const waitDelay = 2 * time.Second

// Request describes one artifact to fetch.
type Request struct {
	Artifact   string // group:artifact:version:type
	Repository string // Local repository root; empty uses Maven's default
}

// Result holds the outcome of a fetch that ran to completion.
type Result struct {
	Output   string // Combined stdout and stderr
	ExitCode int
	Duration time.Duration
}

// Fetcher downloads an artifact into the local repository.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Result, error)
}

// CommandFetcher implements Fetcher by running the Maven executable.
type CommandFetcher struct {
	program string
	args    []string
	timeout time.Duration
}

var _ Fetcher = (*CommandFetcher)(nil)

// NewCommandFetcher creates a fetcher from the given configuration.
func NewCommandFetcher(cfg Config) *CommandFetcher {
	program := cfg.Program
	if program == "" {
		program = "mvn"
	}
	args := cfg.Args
	if args == nil {
		args = []string{"dependency:get"}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &CommandFetcher{
		program: program,
		args:    args,
		timeout: timeout,
	}
}

// Timeout returns the bound applied to each fetch.
func (f *CommandFetcher) Timeout() time.Duration {
	return f.timeout
}

// Program returns the executable this fetcher runs.
func (f *CommandFetcher) Program() string {
	return f.program
}

// Ready reports whether the executable can be found on PATH.
func (f *CommandFetcher) Ready(ctx context.Context) error {
	if _, err := exec.LookPath(f.program); err != nil {
		return fmt.Errorf("maven executable %q not available: %w", f.program, err)
	}
	return nil
}

// Fetch runs the command once and waits for it, killing the whole process
// group if the timeout elapses. A non-zero exit code is reported in the
// result rather than as an error.
func (f *CommandFetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(fetchCtx, f.program, f.commandArgs(req)...)
	configureProcess(cmd)
	cmd.WaitDelay = waitDelay

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logger := slog.With("artifact", req.Artifact, "command", f.program)
	logger.Info("Fetching artifact")

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Output:   output.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("fetch %s: %w", req.Artifact, ctx.Err())
	}
	if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		logger.Error("Fetch timed out", "timeout", f.timeout)
		return result, apperrors.DownloadTimeout(req.Artifact, f.timeout)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		logger.Debug("Fetch completed", "duration", result.Duration)
	case errors.As(err, &exitErr):
		logger.Warn("Fetch exited with non-zero status", "exitCode", result.ExitCode, "output", Tail(result.Output, 20))
	default:
		return result, apperrors.IOFailure("maven.fetch", req.Artifact, err)
	}

	return result, nil
}

func (f *CommandFetcher) commandArgs(req Request) []string {
	args := make([]string, 0, len(f.args)+2)
	args = append(args, f.args...)
	args = append(args, "-Dartifact="+req.Artifact)
	if req.Repository != "" {
		args = append(args, "-Dmaven.repo.local="+req.Repository)
	}
	return args
}

// Tail returns the last n lines of output.
func Tail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
