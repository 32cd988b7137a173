// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package risk

import (
	"github.com/bonial-oss/deptriage/internal/types"
)

// PackageRisk is the per-package aggregate of an audit report. Values are
// built once by Classify and are not modified afterwards; the slices are
// shared with the report and must be treated as read-only.
type PackageRisk struct {
	Name          string           `json:"name"`
	IsDirect      bool             `json:"isDirect"`
	MaxSeverity   Severity         `json:"maxSeverity"`
	AdvisoryCount int              `json:"advisoryCount"`
	HasFix        bool             `json:"hasFix"`
	Range         string           `json:"range,omitempty"`
	Fix           *types.FixDetail `json:"fix,omitempty"`
	Advisories    []types.Advisory `json:"advisories,omitempty"`
	// Via lists the dependencies through which the package is vulnerable.
	Via []string `json:"via,omitempty"`
}

// Classify builds one PackageRisk per entry of the report's vulnerabilities
// map. The order of the result is unspecified.
func Classify(report *types.AuditReport) []PackageRisk {
	if report == nil {
		return nil
	}

	risks := make([]PackageRisk, 0, len(report.Vulnerabilities))
	for name, record := range report.Vulnerabilities {
		risks = append(risks, classifyRecord(name, record))
	}
	return risks
}

func classifyRecord(name string, record types.VulnerabilityRecord) PackageRisk {
	r := PackageRisk{
		Name:        name,
		IsDirect:    record.IsDirect,
		MaxSeverity: MaxSeverity(record.Via),
		HasFix:      HasFix(record.FixAvailable),
		Range:       record.Range,
	}
	if record.FixAvailable.State == types.FixAvailableWithDetail {
		r.Fix = record.FixAvailable.Detail
	}

	for _, entry := range record.Via {
		if entry.Kind != types.ViaAdvisory || entry.Advisory == nil {
			r.Via = append(r.Via, entry.Package)
			continue
		}
		r.AdvisoryCount++
		r.Advisories = append(r.Advisories, *entry.Advisory)
	}
	return r
}

// MaxSeverity returns the highest advisory severity in via, or SeverityLow
// when via holds no advisory with a recognised severity. Only npm's exact
// lowercase names count; "info" and other spellings are skipped.
func MaxSeverity(via []types.ViaEntry) Severity {
	highest := SeverityLow
	for _, entry := range via {
		if entry.Kind != types.ViaAdvisory || entry.Advisory == nil {
			continue
		}
		if sev, ok := FromNPM(entry.Advisory.Severity); ok && sev > highest {
			highest = sev
		}
	}
	return highest
}

// HasFix collapses npm's fixAvailable union to a boolean: true and any
// object mean a fix exists, everything else means it does not.
func HasFix(f types.FixAvailable) bool {
	switch f.State {
	case types.FixAvailableBool, types.FixAvailableWithDetail:
		return true
	default:
		return false
	}
}
