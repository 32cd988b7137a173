// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViaEntry_String(t *testing.T) {
	var e ViaEntry
	require.NoError(t, json.Unmarshal([]byte(`"esbuild"`), &e))

	assert.Equal(t, ViaPackageReference, e.Kind)
	assert.Equal(t, "esbuild", e.Package)
	assert.Nil(t, e.Advisory)
}

func TestViaEntry_Object(t *testing.T) {
	data := []byte(`{
		"source": 1102341,
		"name": "vite",
		"dependency": "vite",
		"title": "Vite's server.fs.deny bypassed",
		"url": "https://github.com/advisories/GHSA-xxxx",
		"severity": "moderate",
		"cwe": ["CWE-200"],
		"cvss": {"score": 5.3, "vectorString": "CVSS:3.1/AV:N"},
		"range": ">=6.0.0 <6.1.6"
	}`)

	var e ViaEntry
	require.NoError(t, json.Unmarshal(data, &e))

	assert.Equal(t, ViaAdvisory, e.Kind)
	require.NotNil(t, e.Advisory)
	assert.Equal(t, "vite", e.Advisory.Name)
	assert.Equal(t, "moderate", e.Advisory.Severity)
	assert.Equal(t, ">=6.0.0 <6.1.6", e.Advisory.Range)
	assert.Equal(t, []string{"CWE-200"}, e.Advisory.CWE)
	require.NotNil(t, e.Advisory.CVSS)
	assert.InDelta(t, 5.3, e.Advisory.CVSS.Score, 0.001)
	assert.JSONEq(t, `1102341`, string(e.Advisory.Source))
}

func TestViaEntry_InvalidKinds(t *testing.T) {
	for _, input := range []string{`42`, `true`, `null`, `["a"]`} {
		t.Run(input, func(t *testing.T) {
			var e ViaEntry
			assert.Error(t, json.Unmarshal([]byte(input), &e))
		})
	}
}

func TestAdvisory_MissingRequiredField(t *testing.T) {
	var a Advisory
	err := json.Unmarshal([]byte(`{"name": "x", "severity": "high", "title": "t"}`), &a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"url"`)
}

func TestFixAvailable_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState FixState
		wantRaw   bool
	}{
		{"true", `true`, FixAvailableBool, false},
		{"false", `false`, FixUnavailable, false},
		{"null", `null`, FixUnavailable, false},
		{"object", `{"name": "vite", "version": "6.1.7", "isSemVerMajor": false}`, FixAvailableWithDetail, true},
		{"string", `"yes"`, FixUnavailable, false},
		{"number", `1`, FixUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FixAvailable
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.wantState, f.State)
			assert.Equal(t, tt.wantRaw, len(f.Raw) > 0)
		})
	}
}

func TestFixAvailable_ObjectDetail(t *testing.T) {
	var f FixAvailable
	require.NoError(t, json.Unmarshal([]byte(`{"name": "vite", "version": "6.1.7", "isSemVerMajor": true, "extra": 1}`), &f))

	require.NotNil(t, f.Detail)
	assert.Equal(t, "vite", f.Detail.Name)
	assert.Equal(t, "6.1.7", f.Detail.Version)
	assert.True(t, f.Detail.IsSemVerMajor)
	assert.Contains(t, string(f.Raw), `"extra"`)
}

func TestFixAvailable_ObjectWithUnexpectedDetail(t *testing.T) {
	// The object form still means a fix exists even when its fields do not
	// decode.
	var f FixAvailable
	require.NoError(t, json.Unmarshal([]byte(`{"version": 7}`), &f))

	assert.Equal(t, FixAvailableWithDetail, f.State)
	assert.Nil(t, f.Detail)
}

func TestVulnerabilityRecord_Decode(t *testing.T) {
	data := []byte(`{
		"name": "esbuild",
		"severity": "moderate",
		"isDirect": false,
		"via": [
			"something",
			{"name": "esbuild", "title": "dev server", "url": "https://x", "severity": "moderate"}
		],
		"effects": ["vite"],
		"range": "<=0.24.2",
		"nodes": ["node_modules/esbuild"],
		"fixAvailable": true,
		"unknownField": {"ignored": true}
	}`)

	var v VulnerabilityRecord
	require.NoError(t, json.Unmarshal(data, &v))

	assert.Equal(t, "esbuild", v.Name)
	assert.False(t, v.IsDirect)
	assert.Equal(t, "<=0.24.2", v.Range)
	assert.Equal(t, []string{"node_modules/esbuild"}, v.Nodes)
	assert.Equal(t, []string{"vite"}, v.Effects)
	assert.Equal(t, FixAvailableBool, v.FixAvailable.State)
	require.Len(t, v.Via, 2)
	assert.Equal(t, ViaPackageReference, v.Via[0].Kind)
	assert.Equal(t, ViaAdvisory, v.Via[1].Kind)
}

func TestVulnerabilityRecord_MissingFixAvailable(t *testing.T) {
	var v VulnerabilityRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name": "a", "isDirect": true, "severity": "low", "range": "*", "nodes": [], "via": []}`), &v))
	assert.Equal(t, FixUnavailable, v.FixAvailable.State)
}

func TestVulnerabilityRecord_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing name", `{"isDirect": true, "severity": "low", "range": "*", "nodes": [], "via": []}`, `"name"`},
		{"missing isDirect", `{"name": "a", "severity": "low", "range": "*", "nodes": [], "via": []}`, `"isDirect"`},
		{"missing via", `{"name": "a", "isDirect": true, "severity": "low", "range": "*", "nodes": []}`, `"via"`},
		{"missing range", `{"name": "a", "isDirect": true, "severity": "low", "nodes": [], "via": []}`, `"range"`},
		{"missing nodes", `{"name": "a", "isDirect": true, "severity": "low", "range": "*", "via": []}`, `"nodes"`},
		{"null via", `{"name": "a", "isDirect": true, "severity": "low", "range": "*", "nodes": [], "via": null}`, `"via" must not be null`},
		{"null name", `{"name": null, "isDirect": true, "severity": "low", "range": "*", "nodes": [], "via": []}`, `"name" must not be null`},
		{"wrong isDirect kind", `{"name": "a", "isDirect": "yes", "severity": "low", "range": "*", "nodes": [], "via": []}`, `"isDirect"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v VulnerabilityRecord
			err := json.Unmarshal([]byte(tt.input), &v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAuditReport_Decode(t *testing.T) {
	data := []byte(`{
		"auditReportVersion": 2,
		"vulnerabilities": {
			"a": {"name": "a", "isDirect": true, "severity": "high", "range": "*", "nodes": ["node_modules/a"], "via": ["b"], "fixAvailable": false}
		},
		"metadata": {
			"vulnerabilities": {"info": 0, "low": 0, "moderate": 0, "high": 1, "critical": 0, "total": 1},
			"dependencies": {"prod": 10, "dev": 5, "optional": 0, "peer": 0, "peerOptional": 0, "total": 15}
		}
	}`)

	var r AuditReport
	require.NoError(t, json.Unmarshal(data, &r))

	assert.Equal(t, 2, r.AuditReportVersion)
	assert.Equal(t, 1, r.Metadata.Vulnerabilities.High)
	assert.Equal(t, 15, r.Metadata.Dependencies.Total)
	require.Contains(t, r.Vulnerabilities, "a")
	assert.Equal(t, "b", r.Vulnerabilities["a"].Via[0].Package)
}

func TestAuditReport_MissingVulnerabilities(t *testing.T) {
	var r AuditReport
	err := json.Unmarshal([]byte(`{"auditReportVersion": 2}`), &r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"vulnerabilities"`)
}

func TestAuditReport_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing metadata", `{"auditReportVersion": 2, "vulnerabilities": {}}`, `"metadata"`},
		{"null metadata", `{"auditReportVersion": 2, "vulnerabilities": {}, "metadata": null}`, `"metadata" must not be null`},
		{"null vulnerabilities", `{"auditReportVersion": 2, "vulnerabilities": null, "metadata": {}}`, `"vulnerabilities" must not be null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r AuditReport
			err := json.Unmarshal([]byte(tt.input), &r)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestViaEntry_MarshalUntagged(t *testing.T) {
	out, err := json.Marshal([]ViaEntry{
		PackageRef("dep"),
		AdvisoryRef(Advisory{Name: "pkg", Title: "t", URL: "u", Severity: "low"}),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["dep", {"name": "pkg", "title": "t", "url": "u", "severity": "low"}]`, string(out))
}
