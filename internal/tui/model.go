// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strconv"
	"strings"

	aqtable "github.com/aquasecurity/table"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bonial-oss/deptriage/internal/output"
	"github.com/bonial-oss/deptriage/internal/risk"
)

type mode int

const (
	listView mode = iota
	detailPopup
)

const (
	// Size assumed until the first tea.WindowSizeMsg arrives.
	defaultWidth  = 80
	defaultHeight = 24

	headerHeight = 2 // title + column headings
	footerHeight = 2 // blank line + key help

	popupPercent   = 70
	minPopupWidth  = 40
	minPopupHeight = 10
	// Border plus padding horizontally; border plus the title block vertically.
	popupFrame = 4

	maxNameWidth = 40
)

// Model is the interactive risk browser. It is either showing the ranked
// list or the detail popup for the selected package.
type Model struct {
	risks    []risk.PackageRisk
	selected int // -1 when the list is empty
	offset   int // first list row on screen

	mode      mode
	scroll    int
	maxScroll int

	width    int
	height   int
	keys     keyMap
	help     help.Model
	quitting bool
}

// New returns a model in the list view with the first row selected. risks
// are shown in the order given.
func New(risks []risk.PackageRisk) Model {
	selected := 0
	if len(risks) == 0 {
		selected = -1
	}
	return Model{
		risks:    risks,
		selected: selected,
		width:    defaultWidth,
		height:   defaultHeight,
		keys:     defaultKeys,
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles a single key press or resize.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.mode == detailPopup {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Back):
			return m.closePopup(), nil
		case key.Matches(msg, m.keys.Down):
			return m.scrollDown(), nil
		case key.Matches(msg, m.keys.Up):
			return m.scrollUp(), nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit, m.keys.Back):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		return m.next(), nil
	case key.Matches(msg, m.keys.Up):
		return m.previous(), nil
	case key.Matches(msg, m.keys.Open):
		return m.openPopup(), nil
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// next moves the selection down, wrapping from the last row to the first.
func (m Model) next() Model {
	if len(m.risks) == 0 {
		return m
	}
	m.selected = (m.selected + 1) % len(m.risks)
	return m.follow()
}

// previous moves the selection up, wrapping from the first row to the last.
func (m Model) previous() Model {
	if len(m.risks) == 0 {
		return m
	}
	m.selected = (m.selected - 1 + len(m.risks)) % len(m.risks)
	return m.follow()
}

// follow adjusts the list offset so the selected row is on screen.
func (m Model) follow() Model {
	rows := m.listHeight()
	switch {
	case m.selected < 0:
		m.offset = 0
	case m.selected < m.offset:
		m.offset = m.selected
	case m.selected >= m.offset+rows:
		m.offset = m.selected - rows + 1
	}
	return m
}

func (m Model) openPopup() Model {
	if m.selected < 0 {
		return m
	}
	m.mode = detailPopup
	m.scroll = 0
	m.maxScroll = m.popupMaxScroll()
	return m
}

func (m Model) closePopup() Model {
	m.mode = listView
	m.scroll = 0
	m.maxScroll = 0
	return m
}

func (m Model) scrollDown() Model {
	if m.scroll < m.maxScroll {
		m.scroll++
	}
	return m
}

func (m Model) scrollUp() Model {
	if m.scroll > 0 {
		m.scroll--
	}
	return m
}

func (m Model) resize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	if m.mode == detailPopup {
		m.maxScroll = m.popupMaxScroll()
		m.scroll = min(m.scroll, m.maxScroll)
	}
	return m.follow()
}

func (m Model) popupMaxScroll() int {
	w, h := m.popupContentSize()
	return maxScroll(lineTexts(detailLines(m.risks[m.selected])), w, h)
}

func (m Model) bodyHeight() int {
	return max(1, m.height-footerHeight)
}

func (m Model) listHeight() int {
	return max(1, m.bodyHeight()-headerHeight)
}

// popupSize returns the outer popup dimensions, border included.
func (m Model) popupSize() (width, height int) {
	width = min(max(m.width*popupPercent/100, minPopupWidth), m.width)
	height = min(max(m.bodyHeight()*popupPercent/100, minPopupHeight), m.bodyHeight())
	return width, height
}

// popupContentSize returns the columns and rows available to the scrollable
// popup body.
func (m Model) popupContentSize() (width, height int) {
	w, h := m.popupSize()
	return max(1, w-popupFrame), max(1, h-popupFrame)
}

// View renders the current state without modifying it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body, footer string
	if m.mode == detailPopup {
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.popupView())
		footer = m.help.ShortHelpView(m.keys.popupHelp())
	} else {
		body = m.listView()
		footer = m.help.ShortHelpView(m.keys.listHelp())
	}
	return body + "\n" + footerStyle.Render(footer)
}

func (m Model) listView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("npm audit: %d vulnerable packages", len(m.risks))))
	sb.WriteString("\n")

	if len(m.risks) == 0 {
		sb.WriteString(dimStyle.Render("No vulnerable packages match the current filters."))
		return sb.String()
	}

	nameWidth := m.nameWidth()
	sb.WriteString(headerStyle.Render(formatRow("  ", nameWidth, output.Columns...)))

	end := min(len(m.risks), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		sb.WriteString("\n")
		sb.WriteString(m.renderRow(i, nameWidth))
	}
	return sb.String()
}

func (m Model) renderRow(i, nameWidth int) string {
	r := m.risks[i]
	cursor, name := "  ", runewidth.Truncate(r.Name, nameWidth, "…")
	if i == m.selected {
		cursor = selectedStyle.Render("▸ ")
		name = selectedStyle.Render(runewidth.FillRight(name, nameWidth))
	}
	severity := output.SeverityLabel(r.MaxSeverity)
	return formatRow(cursor, nameWidth,
		name,
		output.DirectMarker(r.IsDirect),
		severityStyle(r.MaxSeverity).Render(severity),
		strconv.Itoa(r.AdvisoryCount),
		output.FixMarker(r.HasFix),
		strconv.Itoa(risk.Score(r)),
	)
}

func (m Model) nameWidth() int {
	w := runewidth.StringWidth(output.Columns[0])
	for _, r := range m.risks {
		w = max(w, runewidth.StringWidth(r.Name))
	}
	return min(w, maxNameWidth)
}

// formatRow lays out cells under output.Columns. The name column is
// nameWidth wide, every other column as wide as its heading; alignment
// follows output.ColumnAlignments. Cells may carry ANSI styling; padding is
// computed from their printable width.
func formatRow(cursor string, nameWidth int, cells ...string) string {
	var sb strings.Builder
	sb.WriteString(cursor)
	for i, cell := range cells {
		width := nameWidth
		if i > 0 {
			sb.WriteString("  ")
			width = runewidth.StringWidth(output.Columns[i])
		}
		sb.WriteString(alignCell(cell, width, output.ColumnAlignments[i]))
	}
	return strings.TrimRight(sb.String(), " ")
}

func alignCell(cell string, width int, align aqtable.Alignment) string {
	pad := max(0, width-lipgloss.Width(cell))
	switch align {
	case aqtable.AlignRight:
		return strings.Repeat(" ", pad) + cell
	case aqtable.AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", pad-left)
	default:
		return cell + strings.Repeat(" ", pad)
	}
}

func (m Model) popupView() string {
	r := m.risks[m.selected]
	w, h := m.popupContentSize()

	rows := renderLines(detailLines(r), w)
	start := min(m.scroll, len(rows))
	end := min(len(rows), start+h)

	header := titleStyle.Render(runewidth.Truncate(popupTitle(r), w, "…"))
	if m.maxScroll > 0 {
		position := fmt.Sprintf("%d/%d", m.scroll, m.maxScroll)
		title := runewidth.Truncate(popupTitle(r), max(1, w-len(position)-1), "…")
		header = titleStyle.Render(title) + " " + dimStyle.Render(position)
	}

	content := header + "\n\n" + strings.Join(rows[start:end], "\n")
	return popupStyle.Width(w + 2).Height(h + 2).Render(content)
}
