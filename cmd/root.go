// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bonial-oss/deptriage/internal/audit"
	"github.com/bonial-oss/deptriage/internal/input"
	"github.com/bonial-oss/deptriage/internal/output"
	"github.com/bonial-oss/deptriage/internal/risk"
	"github.com/bonial-oss/deptriage/internal/tui"
	"github.com/bonial-oss/deptriage/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// NewRootCommand creates the root cobra command with all flags.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deptriage",
		Short:   "Rank npm audit findings by remediation priority",
		Version: Version,
		Long: `deptriage runs npm audit (or reads its JSON report), aggregates the
findings per package and ranks them by severity, whether the package is a
direct dependency and whether a fix is available.

Usage:
  deptriage                              # run npm audit in the current directory
  npm audit --json | deptriage -i terminal
  deptriage -f audit.json --min-severity high --fail-on critical`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			return run(cmd.Context(), cmd, optionsFrom(v))
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

// run orchestrates the pipeline: read, parse, classify, rank, present.
func run(ctx context.Context, cmd *cobra.Command, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	setupLogging(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := opts.validate()
	if err != nil {
		return err
	}

	data, err := readReport(ctx, cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	report, err := input.Parse(data)
	if errors.Is(err, input.ErrEmpty) {
		return &ExitError{Code: 2, Message: "no audit report to read: input is empty"}
	}
	if err != nil {
		return fmt.Errorf("parsing audit report: %w", err)
	}

	classified := risk.Classify(report)
	risks := risk.Rank(classified, cfg.criteria)
	slog.Debug("classified audit report",
		"packages", len(classified),
		"shown", len(risks),
		"reportedTotal", report.Metadata.Vulnerabilities.Total)

	if err := present(ctx, cmd, cfg, risks, report.Metadata); err != nil {
		return err
	}

	if cfg.hasFailOn && risk.AtLeast(risks, cfg.failOn) {
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("found packages with severity %s or higher", cfg.failOn),
		}
	}
	return nil
}

func present(ctx context.Context, cmd *cobra.Command, cfg settings, risks []risk.PackageRisk, meta types.Metadata) error {
	w := cmd.OutOrStdout()

	switch cfg.iface {
	case interfaceJSON:
		return output.WriteRisksJSON(w, risks)
	case interfaceTUI:
		if output.IsOutputToTerminal(w) {
			if err := tui.Run(ctx, risks, programOptions()...); err != nil {
				return fmt.Errorf("running interactive session: %w", err)
			}
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: stdout is not a terminal, writing the static table instead")
	}

	return output.WriteTable(w, risks, meta, output.TableConfig{
		IsTerminal: output.IsOutputToTerminal(w),
	})
}

// programOptions reads keys from the controlling terminal when stdin carries
// the report.
func programOptions() []tea.ProgramOption {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return []tea.ProgramOption{tea.WithInputTTY()}
}

// readReport returns the raw audit report from --input, piped stdin or a
// fresh npm audit run, in that order of preference.
func readReport(ctx context.Context, stdin io.Reader, opts Options) ([]byte, error) {
	switch {
	case opts.Input == "-":
		return readAll(stdin)
	case opts.Input != "":
		slog.Debug("reading audit report", "path", opts.Input)
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("reading input file: %w", err)
		}
		return data, nil
	case isPiped(stdin):
		return readAll(stdin)
	}

	runner := audit.NewRunner(opts.Dir)
	runner.Timeout = opts.Timeout
	data, err := runner.Run(ctx)
	if errors.Is(err, audit.ErrNotFound) {
		return nil, fmt.Errorf("%w (install npm, or pipe a report with `npm audit --json | deptriage`)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("running npm audit: %w", err)
	}
	return data, nil
}

func readAll(stdin io.Reader) ([]byte, error) {
	slog.Debug("reading audit report from stdin")
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

// isPiped reports whether stdin carries data rather than a terminal. Readers
// other than files (tests, embedding callers) always count as piped.
func isPiped(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// setupLogging routes slog to w: debug records with --verbose, warnings and
// errors otherwise.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
