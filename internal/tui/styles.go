// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bonial-oss/deptriage/internal/risk"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Purple
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")) // Pink
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))            // Grey
	urlStyle      = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	fixStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	popupStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().MarginTop(1)
)

var severityStyles = map[risk.Severity]lipgloss.Style{
	risk.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	risk.SeverityModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	risk.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	risk.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
}

func severityStyle(s risk.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
