// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"strings"

	"github.com/bonial-oss/deptriage/internal/risk"
)

// Row markers, shared by the static table and the interactive list so both
// presentations render a package identically.
const (
	DirectMark     = "●"
	TransitiveMark = "○"
	FixMark        = "✓"
	NoFixMark      = "✗"
)

// DirectMarker returns the filled marker for direct dependencies and the
// hollow one for transitive ones.
func DirectMarker(isDirect bool) string {
	if isDirect {
		return DirectMark
	}
	return TransitiveMark
}

// FixMarker returns a check mark when a fix is available, a cross otherwise.
func FixMarker(hasFix bool) string {
	if hasFix {
		return FixMark
	}
	return NoFixMark
}

// SeverityLabel is the upper-case label used in both presentations.
func SeverityLabel(s risk.Severity) string {
	return strings.ToUpper(s.String())
}
