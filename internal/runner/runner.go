// Package runner invokes the external solver in test mode and locates
// the log files it writes. The solver is a collaborator: the runner
// never interprets its output beyond exit code capture; log parsing
// belongs to pkg/runlog.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
)

// Runner executes solver test runs.
type Runner struct {
	exe    string
	logger *slog.Logger
}

// New creates a Runner for the given solver executable path.
func New(exe string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{exe: exe, logger: logger}
}

// RunResult captures one solver invocation.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// TestRun runs the solver in test mode against the root control file:
//
//	solver -t -b -<name> <value> ... model.tcf
//
// Placeholder flags are passed in sorted name order; the control file
// path is passed last with its placeholders unresolved, as the solver
// substitutes them itself. The working directory is the control
// file's own directory.
func (r *Runner) TestRun(ctx context.Context, rootPath string, placeholders map[string]string) (RunResult, error) {
	args := []string{"-t", "-b"}

	names := make([]string, 0, len(placeholders))
	for name := range placeholders {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "-"+name, placeholders[name])
	}
	args = append(args, rootPath)

	r.logger.Debug("starting solver test run", "exe", r.exe, "args", args)

	cmd := exec.CommandContext(ctx, r.exe, args...)
	cmd.Dir = filepath.Dir(rootPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		// Non-zero exit is an outcome, not a failure: the log files
		// still carry the diagnosis.
		r.logger.Debug("solver exited non-zero", "code", result.ExitCode)
	default:
		return result, fmt.Errorf("run solver: %w", err)
	}

	return result, nil
}
