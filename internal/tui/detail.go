// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bonial-oss/deptriage/internal/output"
	"github.com/bonial-oss/deptriage/internal/risk"
	"github.com/bonial-oss/deptriage/internal/types"
)

// detailLine is one logical line of popup content.
type detailLine struct {
	text  string
	style lipgloss.Style
}

// detailLines builds the popup body for r. The result depends only on r, so
// the scroll bounds computed when the popup opens stay valid while it is shown.
func detailLines(r risk.PackageRisk) []detailLine {
	var lines []detailLine
	add := func(text string, style lipgloss.Style) {
		for _, l := range strings.Split(strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth)), "\n") {
			lines = append(lines, detailLine{text: l, style: style})
		}
	}
	plain := lipgloss.NewStyle()

	if len(r.Advisories) == 0 {
		add("No advisory found", dimStyle)
		if len(r.Via) > 0 {
			add("Vulnerable through: "+strings.Join(r.Via, ", "), plain)
		}
	}

	for i, adv := range r.Advisories {
		if i > 0 {
			add("", plain)
		}
		sev, known := risk.FromNPM(adv.Severity)
		label := strings.ToUpper(adv.Severity)
		if known {
			label = output.SeverityLabel(sev)
		}
		add(fmt.Sprintf("%d. [%s] %s", i+1, label, adv.Title), severityStyle(sev))
		add(adv.URL, urlStyle)
		if extra := advisoryFacts(adv); extra != "" {
			add(extra, dimStyle)
		}
	}

	add("", plain)
	add(fixSummary(r), fixStyle)
	return lines
}

// advisoryFacts joins the optional range, CVSS and CWE details of adv.
func advisoryFacts(adv types.Advisory) string {
	var facts []string
	if adv.Range != "" {
		facts = append(facts, "range "+adv.Range)
	}
	if adv.CVSS != nil && adv.CVSS.Score > 0 {
		facts = append(facts, "CVSS "+strconv.FormatFloat(adv.CVSS.Score, 'f', 1, 64))
	}
	if len(adv.CWE) > 0 {
		facts = append(facts, strings.Join(adv.CWE, ", "))
	}
	return strings.Join(facts, " | ")
}

func fixSummary(r risk.PackageRisk) string {
	switch {
	case r.Fix != nil && r.Fix.Name != "":
		s := fmt.Sprintf("fix: %s@%s", r.Fix.Name, r.Fix.Version)
		if r.Fix.IsSemVerMajor {
			s += " (semver major)"
		}
		return s
	case r.HasFix:
		return "fix: available via npm audit fix"
	default:
		return "fix: none available"
	}
}

// popupTitle is the fixed heading above the scrollable popup body.
func popupTitle(r risk.PackageRisk) string {
	noun := "advisories"
	if r.AdvisoryCount == 1 {
		noun = "advisory"
	}
	return fmt.Sprintf("%s  %d %s  max %s", r.Name, r.AdvisoryCount, noun, output.SeverityLabel(r.MaxSeverity))
}

func lineTexts(lines []detailLine) []string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	return texts
}

// renderLines wraps and styles lines into terminal rows of at most width columns.
func renderLines(lines []detailLine, width int) []string {
	var rows []string
	for _, l := range lines {
		for _, row := range wrapLine(l.text, width) {
			rows = append(rows, l.style.Render(row))
		}
	}
	return rows
}
