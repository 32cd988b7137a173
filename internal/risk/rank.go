// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package risk

import (
	"sort"
)

const (
	directBonus  = 20
	fixBonus     = 10
	noFixPenalty = -20
)

// Criteria holds the filter options. The three predicates are independent
// and combine with AND.
type Criteria struct {
	MinSeverity Severity
	OnlyDirect  bool
	OnlyFixable bool
}

// Score computes the remediation priority of a package: the severity base
// (10, 30, 60, 100), +20 for a direct dependency, +10 when a fix exists and
// -20 when it does not.
func Score(r PackageRisk) int {
	score := r.MaxSeverity.Base()
	if r.IsDirect {
		score += directBonus
	}
	if r.HasFix {
		score += fixBonus
	} else {
		score += noFixPenalty
	}
	return score
}

// Matches reports whether r passes every predicate in c.
func (c Criteria) Matches(r PackageRisk) bool {
	if r.MaxSeverity < c.MinSeverity {
		return false
	}
	if c.OnlyDirect && !r.IsDirect {
		return false
	}
	if c.OnlyFixable && !r.HasFix {
		return false
	}
	return true
}

// Filter returns the risks that match c, preserving their order.
func Filter(risks []PackageRisk, c Criteria) []PackageRisk {
	filtered := make([]PackageRisk, 0, len(risks))
	for _, r := range risks {
		if c.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortByPriority returns a copy of risks ordered by descending score. Equal
// scores are ordered by package name so the result does not depend on map
// iteration order.
func SortByPriority(risks []PackageRisk) []PackageRisk {
	sorted := make([]PackageRisk, len(risks))
	copy(sorted, risks)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := Score(sorted[i]), Score(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// Rank filters risks with c and sorts the result by priority.
func Rank(risks []PackageRisk, c Criteria) []PackageRisk {
	return SortByPriority(Filter(risks, c))
}

// AtLeast reports whether any risk has a maximum severity of threshold or higher.
func AtLeast(risks []PackageRisk, threshold Severity) bool {
	for _, r := range risks {
		if r.MaxSeverity >= threshold {
			return true
		}
	}
	return false
}

// CountBySeverity tallies risks by maximum severity.
func CountBySeverity(risks []PackageRisk) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		counts[s] = 0
	}
	for _, r := range risks {
		counts[r.MaxSeverity]++
	}
	return counts
}
