// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/bonial-oss/deptriage/internal/risk"
	"github.com/bonial-oss/deptriage/internal/types"
)

const defaultTitle = "Audit Report"

// TableConfig controls the static report.
type TableConfig struct {
	Title      string // heading above the table, "Audit Report" when empty
	IsTerminal bool   // true when output goes to a terminal (enables ANSI styling)
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// Columns are the headers shared by the static table and the interactive list.
var Columns = []string{"Package", "Direct", "Severity", "Advisories", "Fix", "Score"}

// ColumnAlignments holds the alignment of each entry in Columns.
var ColumnAlignments = []aqtable.Alignment{
	aqtable.AlignLeft,   // Package
	aqtable.AlignCenter, // Direct
	aqtable.AlignLeft,   // Severity
	aqtable.AlignRight,  // Advisories
	aqtable.AlignCenter, // Fix
	aqtable.AlignRight,  // Score
}

// WriteTable writes the ranked risks as a table, in the order given.
// meta is descriptive only and contributes the dependency count line.
func WriteTable(w io.Writer, risks []risk.PackageRisk, meta types.Metadata, cfg TableConfig) error {
	writeHeader(w, risks, meta, cfg)

	if len(risks) == 0 {
		fmt.Fprintln(w, "No vulnerable packages match the current filters.")
		return nil
	}

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders(Columns...)
	tw.SetAlignment(ColumnAlignments...)
	for _, r := range risks {
		tw.AddRow(rowCells(r, cfg.IsTerminal)...)
	}
	tw.Render()
	return nil
}

// writeHeader writes the title and the severity summary.
func writeHeader(w io.Writer, risks []risk.PackageRisk, meta types.Metadata, cfg TableConfig) {
	title := cfg.Title
	if title == "" {
		title = defaultTitle
	}
	if cfg.IsTerminal {
		_ = tml.Fprintf(w, "\n<underline><bold>%s</bold></underline>\n", title)
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
	}
	fmt.Fprintln(w, SeveritySummary(risks))
	if meta.Dependencies.Total > 0 {
		fmt.Fprintf(w, "Dependencies audited: %d\n", meta.Dependencies.Total)
	}
	fmt.Fprintln(w)
}

// newTableWriter creates a table writer with borders. When isTerminal is
// true, header and line styles use ANSI formatting.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetRowLines(false)
	return tw
}

// rowCells returns the cell values for a single package row.
func rowCells(r risk.PackageRisk, isTerminal bool) []string {
	severity := SeverityLabel(r.MaxSeverity)
	if isTerminal {
		severity = colorizeSeverity(r.MaxSeverity, severity)
	}
	return []string{
		r.Name,
		DirectMarker(r.IsDirect),
		severity,
		strconv.Itoa(r.AdvisoryCount),
		FixMarker(r.HasFix),
		strconv.Itoa(risk.Score(r)),
	}
}

// SeveritySummary returns a line like:
// Packages: 5 (LOW: 2, MODERATE: 1, HIGH: 1, CRITICAL: 1)
func SeveritySummary(risks []risk.PackageRisk) string {
	counts := risk.CountBySeverity(risks)
	return fmt.Sprintf("Packages: %d (LOW: %d, MODERATE: %d, HIGH: %d, CRITICAL: %d)",
		len(risks), counts[risk.SeverityLow], counts[risk.SeverityModerate],
		counts[risk.SeverityHigh], counts[risk.SeverityCritical])
}

// severityColors maps severities to color functions.
var severityColors = map[risk.Severity]func(a ...any) string{
	risk.SeverityLow:      color.New(color.FgBlue).SprintFunc(),
	risk.SeverityModerate: color.New(color.FgYellow).SprintFunc(),
	risk.SeverityHigh:     color.New(color.FgHiRed).SprintFunc(),
	risk.SeverityCritical: color.New(color.FgRed, color.Bold).SprintFunc(),
}

// colorizeSeverity returns label wrapped in the ANSI color for s.
func colorizeSeverity(s risk.Severity, label string) string {
	if fn, ok := severityColors[s]; ok {
		return fn(label)
	}
	return label
}
