// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AuditReport is the document written by `npm audit --json` (report
// version 2). Only the fields the tool reads are typed; unknown fields are
// ignored.
type AuditReport struct {
	AuditReportVersion int                            `json:"auditReportVersion"`
	Metadata           Metadata                       `json:"metadata"`
	Vulnerabilities    map[string]VulnerabilityRecord `json:"vulnerabilities"`
}

// Metadata holds the descriptive counts npm prints next to the findings.
// They are not authoritative: derived counts always come from the
// vulnerabilities map.
type Metadata struct {
	Vulnerabilities VulnerabilityCount `json:"vulnerabilities"`
	Dependencies    DependencyCount    `json:"dependencies"`
}

// VulnerabilityCount is the per-severity summary from the report metadata.
type VulnerabilityCount struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// DependencyCount is the dependency summary from the report metadata.
type DependencyCount struct {
	Prod         int `json:"prod"`
	Dev          int `json:"dev"`
	Optional     int `json:"optional"`
	Peer         int `json:"peer"`
	PeerOptional int `json:"peerOptional"`
	Total        int `json:"total"`
}

// UnmarshalJSON decodes an AuditReport and rejects documents that lack the
// keys every version 2 report carries or set them to null.
func (r *AuditReport) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	if err := decodeField(all, "auditReportVersion", &r.AuditReportVersion, true); err != nil {
		return err
	}
	if err := decodeField(all, "vulnerabilities", &r.Vulnerabilities, true); err != nil {
		return err
	}
	return decodeField(all, "metadata", &r.Metadata, true)
}

// VulnerabilityRecord is one entry of the vulnerabilities map. Severity is
// npm's headline rating and is not used for ranking.
type VulnerabilityRecord struct {
	Name         string       `json:"name"`
	IsDirect     bool         `json:"isDirect"`
	Severity     string       `json:"severity"`
	FixAvailable FixAvailable `json:"fixAvailable"`
	Range        string       `json:"range"`
	Nodes        []string     `json:"nodes"`
	Effects      []string     `json:"effects,omitempty"`
	Via          []ViaEntry   `json:"via"`
}

// UnmarshalJSON decodes a VulnerabilityRecord. Every key npm always writes
// is required; fixAvailable and effects are optional.
func (v *VulnerabilityRecord) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	if err := decodeField(all, "name", &v.Name, true); err != nil {
		return err
	}
	if err := decodeField(all, "isDirect", &v.IsDirect, true); err != nil {
		return err
	}
	if err := decodeField(all, "severity", &v.Severity, true); err != nil {
		return err
	}
	if err := decodeField(all, "fixAvailable", &v.FixAvailable, false); err != nil {
		return err
	}
	if err := decodeField(all, "range", &v.Range, true); err != nil {
		return err
	}
	if err := decodeField(all, "nodes", &v.Nodes, true); err != nil {
		return err
	}
	if err := decodeField(all, "effects", &v.Effects, false); err != nil {
		return err
	}
	return decodeField(all, "via", &v.Via, true)
}

// ViaKind discriminates the two shapes a via entry can take.
type ViaKind int

const (
	// ViaPackageReference is a bare dependency name (JSON string).
	ViaPackageReference ViaKind = iota
	// ViaAdvisory is a full advisory record (JSON object).
	ViaAdvisory
)

// ViaEntry is one element of a record's via list. npm does not tag the
// variants, so the kind is taken from the JSON value itself.
type ViaEntry struct {
	Kind     ViaKind
	Package  string
	Advisory *Advisory
}

// PackageRef builds a package-reference via entry.
func PackageRef(name string) ViaEntry {
	return ViaEntry{Kind: ViaPackageReference, Package: name}
}

// AdvisoryRef builds an advisory via entry.
func AdvisoryRef(a Advisory) ViaEntry {
	return ViaEntry{Kind: ViaAdvisory, Advisory: &a}
}

// UnmarshalJSON picks the variant from the kind of the JSON value: a string
// is a package reference, an object is an advisory.
func (e *ViaEntry) UnmarshalJSON(data []byte) error {
	switch jsonKind(data) {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = PackageRef(name)
		return nil
	case '{':
		var a Advisory
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		*e = AdvisoryRef(a)
		return nil
	default:
		return fmt.Errorf("via entry must be a string or an object, got %s", truncate(data))
	}
}

// MarshalJSON writes the entry back in npm's untagged form.
func (e ViaEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == ViaAdvisory && e.Advisory != nil {
		return json.Marshal(e.Advisory)
	}
	return json.Marshal(e.Package)
}

// Advisory is a structured vulnerability disclosure.
type Advisory struct {
	Source     json.RawMessage `json:"source,omitempty"`
	Name       string          `json:"name"`
	Dependency string          `json:"dependency,omitempty"`
	Title      string          `json:"title"`
	URL        string          `json:"url"`
	Severity   string          `json:"severity"`
	Range      string          `json:"range,omitempty"`
	CWE        []string        `json:"cwe,omitempty"`
	CVSS       *CVSS           `json:"cvss,omitempty"`
}

// CVSS holds the score npm attaches to an advisory.
type CVSS struct {
	Score        float64 `json:"score"`
	VectorString string  `json:"vectorString"`
}

// advisoryFields mirrors Advisory without its UnmarshalJSON method.
type advisoryFields Advisory

// UnmarshalJSON decodes an Advisory and requires the disclosure fields.
func (a *Advisory) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range []string{"name", "severity", "title", "url"} {
		if _, ok := all[key]; !ok {
			return fmt.Errorf("advisory: missing required field %q", key)
		}
	}
	var f advisoryFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("advisory: %w", err)
	}
	*a = Advisory(f)
	return nil
}

// FixState is the resolved form of npm's boolean-or-object fixAvailable.
type FixState int

const (
	// FixUnavailable covers false, null, a missing key and any other shape.
	FixUnavailable FixState = iota
	// FixAvailableBool is a plain `true`.
	FixAvailableBool
	// FixAvailableWithDetail is an object describing the upgrade.
	FixAvailableWithDetail
)

// FixDetail is the upgrade npm proposes when fixAvailable is an object.
type FixDetail struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	IsSemVerMajor bool   `json:"isSemVerMajor"`
}

// FixAvailable keeps the union form of the fixAvailable field. Raw holds the
// original object so detail npm adds later is not lost; Detail is decoded
// best-effort and may be nil even when State is FixAvailableWithDetail.
type FixAvailable struct {
	State  FixState
	Detail *FixDetail
	Raw    json.RawMessage
}

// UnmarshalJSON never fails on an unexpected shape: anything that is not a
// boolean or an object resolves to FixUnavailable.
func (f *FixAvailable) UnmarshalJSON(data []byte) error {
	*f = FixAvailable{}
	switch jsonKind(data) {
	case 't':
		f.State = FixAvailableBool
	case '{':
		f.State = FixAvailableWithDetail
		f.Raw = append(json.RawMessage(nil), data...)
		var d FixDetail
		if err := json.Unmarshal(data, &d); err == nil {
			f.Detail = &d
		}
	}
	return nil
}

// MarshalJSON writes the value back as npm's boolean-or-object.
func (f FixAvailable) MarshalJSON() ([]byte, error) {
	switch f.State {
	case FixAvailableBool:
		return []byte("true"), nil
	case FixAvailableWithDetail:
		if len(f.Raw) > 0 {
			return f.Raw, nil
		}
		return json.Marshal(f.Detail)
	default:
		return []byte("false"), nil
	}
}

// decodeField unmarshals all[key] into dst. A required key must be present
// and not null; an optional null leaves dst untouched.
func decodeField(all map[string]json.RawMessage, key string, dst any, required bool) error {
	raw, ok := all[key]
	if !ok {
		if required {
			return fmt.Errorf("missing required field %q", key)
		}
		return nil
	}
	if required && jsonKind(raw) == 'n' {
		return fmt.Errorf("field %q must not be null", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// jsonKind returns the first significant byte of a JSON value: '"' for
// strings, '{' for objects, 't'/'f' for booleans, 'n' for null and so on.
func jsonKind(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func truncate(data []byte) string {
	const limit = 32
	s := string(bytes.TrimSpace(data))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
