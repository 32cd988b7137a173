// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Minute

// ErrNotFound is returned when the audit executable is not on PATH.
var ErrNotFound = errors.New("audit command not found")

// Runner runs a package manager's audit command and captures its JSON output.
type Runner struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// NewRunner returns a Runner for `npm audit --json` in dir.
func NewRunner(dir string) *Runner {
	return &Runner{
		Command: "npm",
		Args:    []string{"audit", "--json"},
		Dir:     dir,
		Timeout: defaultTimeout,
	}
}

// Run executes the audit command and returns its stdout. npm exits non-zero
// whenever it finds vulnerabilities, so a failed exit with output on stdout
// is still a successful run; only a failure without output is an error.
func (r *Runner) Run(ctx context.Context) ([]byte, error) {
	path, err := exec.LookPath(r.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Command)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, r.Args...)
	cmd.Dir = r.Dir
	// npm spawns helpers that can keep stdout open after it is killed.
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running audit command", "command", cmd.String(), "dir", r.Dir)
	start := time.Now()
	err = cmd.Run()
	slog.Debug("audit command finished", "duration", time.Since(start), "stdoutBytes", stdout.Len())

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out after %s", r.describe(), timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			slog.Debug("audit command exited non-zero with output", "exitCode", exitErr.ExitCode())
			return stdout.Bytes(), nil
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("running %s: %w", r.describe(), err)
		}
		return nil, fmt.Errorf("running %s: %w\nStderr: %s", r.describe(), err, msg)
	}

	return stdout.Bytes(), nil
}

func (r *Runner) describe() string {
	return strings.TrimSpace(r.Command + " " + strings.Join(r.Args, " "))
}
