// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bonial-oss/deptriage/internal/risk"
)

// ErrTerminal is returned when the interactive session cannot acquire, read
// from, or release the terminal.
var ErrTerminal = errors.New("terminal session failed")

// Run shows risks in the interactive browser until the user quits. The
// program switches to the alternate screen and raw input mode; both are
// restored before Run returns, also when it fails. opts are appended to the
// defaults, e.g. tea.WithInputTTY when stdin carries the report.
func Run(ctx context.Context, risks []risk.PackageRisk, opts ...tea.ProgramOption) error {
	_, err := run(ctx, New(risks), opts...)
	return err
}

func run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	options := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	slog.Debug("starting interactive session", "packages", len(m.risks))
	final, err := tea.NewProgram(m, options...).Run()
	if err != nil {
		return m, fmt.Errorf("%w: %w", ErrTerminal, err)
	}
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, nil
}
