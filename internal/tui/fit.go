// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wrap"
)

// tabWidth is the number of spaces a tab expands to when wrapping.
const tabWidth = 4

// visualLines returns how many terminal rows lines occupy when hard-wrapped
// at width columns, breaking where wrapLine breaks. An empty line still takes
// one row. A wide rune that does not fit the rest of a row starts the next
// one, so the count can exceed the total width divided by width.
func visualLines(lines []string, width int) int {
	if width < 1 {
		width = 1
	}
	total := 0
	for _, line := range lines {
		total += lineRows(line, width)
	}
	return total
}

func lineRows(line string, width int) int {
	line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
	if runewidth.StringWidth(line) <= width {
		return 1
	}
	rows, col := 1, 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if col+w > width {
			rows++
			col = 0
		}
		col += w
	}
	return rows
}

// maxScroll is the largest scroll offset that still fills a viewport of
// height rows.
func maxScroll(lines []string, width, height int) int {
	return max(0, visualLines(lines, width)-height)
}

// wrapLine hard-wraps text at width columns, keeping spaces so the row
// count matches visualLines.
func wrapLine(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	if width < 1 {
		width = 1
	}
	w := wrap.NewWriter(width)
	w.PreserveSpace = true
	w.TabWidth = tabWidth
	_, _ = w.Write([]byte(text))
	return strings.Split(w.String(), "\n")
}
