// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bonial-oss/deptriage/internal/risk"
)

// RankedRisk is the JSON form of a ranked package: the aggregate plus its
// score and position.
type RankedRisk struct {
	Rank  int `json:"rank"`
	Score int `json:"score"`
	risk.PackageRisk
}

// WriteRisksJSON writes the ranked risks as an indented JSON array, keeping
// their order.
func WriteRisksJSON(w io.Writer, risks []risk.PackageRisk) error {
	ranked := make([]RankedRisk, len(risks))
	for i, r := range risks {
		ranked[i] = RankedRisk{Rank: i + 1, Score: risk.Score(r), PackageRisk: r}
	}
	return WriteJSON(w, ranked)
}

func WriteJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
