// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package risk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is npm's ordinal impact rating. The zero value is SeverityLow.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

// Severities lists every severity in ascending order.
var Severities = []Severity{SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical}

// npmSeverities maps the exact names npm writes on advisories.
var npmSeverities = map[string]Severity{
	"low":      SeverityLow,
	"moderate": SeverityModerate,
	"high":     SeverityHigh,
	"critical": SeverityCritical,
}

// FromNPM looks up a severity as npm writes it on an advisory. Matching is
// exact; "info" and any other spelling report false.
func FromNPM(name string) (Severity, bool) {
	s, ok := npmSeverities[name]
	return s, ok
}

// ParseSeverity parses a user-supplied severity name case-insensitively.
// "medium" is accepted as an alias for moderate.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "moderate", "medium":
		return SeverityModerate, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("invalid severity %q (want low, moderate, high or critical)", s)
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityModerate:
		return "moderate"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

// Base is the severity component of the risk score.
func (s Severity) Base() int {
	switch s {
	case SeverityCritical:
		return 100
	case SeverityHigh:
		return 60
	case SeverityModerate:
		return 30
	default:
		return 10
	}
}

// MarshalJSON writes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
