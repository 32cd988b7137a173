// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bonial-oss/deptriage/internal/types"
)

var (
	// ErrEmpty is returned when there are no bytes to parse, or only whitespace.
	ErrEmpty = errors.New("audit report is empty")

	// ErrMalformed is wrapped by every MalformedError.
	ErrMalformed = errors.New("malformed audit report")
)

// MalformedError reports input that is not valid JSON or does not match the
// npm audit report schema.
type MalformedError struct {
	Detail string
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformed, e.Detail)
}

// Unwrap lets errors.Is match both ErrMalformed and the decode error.
func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

func malformed(err error) *MalformedError {
	return &MalformedError{Detail: err.Error(), Err: err}
}

// Parse decodes the output of `npm audit --json`.
func Parse(data []byte) (*types.AuditReport, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	// Check for npm's error envelope, written instead of a report when the
	// audit itself fails (no lockfile, registry unreachable, ...).
	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Summary string `json:"summary"`
		} `json:"error"`
		AuditReportVersion *int `json:"auditReportVersion"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, malformed(fmt.Errorf("invalid JSON input: %w", err))
	}
	if envelope.Error != nil && envelope.AuditReportVersion == nil {
		detail := envelope.Error.Summary
		if envelope.Error.Code != "" {
			detail = fmt.Sprintf("%s (%s)", detail, envelope.Error.Code)
		}
		return nil, &MalformedError{Detail: "audit command reported an error: " + detail}
	}

	var report types.AuditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, malformed(fmt.Errorf("parsing npm audit JSON: %w", err))
	}
	return &report, nil
}
