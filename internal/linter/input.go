package linter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wharflab/hush/internal/rules"
)

// ErrNoInput is returned when the violation stream holds no JSON document.
var ErrNoInput = errors.New("no violations input")

// record is one violation as an external checker writes it.
type record struct {
	File      string         `json:"file"`
	Line      int            `json:"line"`
	Column    int            `json:"column"`
	EndLine   int            `json:"endLine,omitempty"`
	EndColumn int            `json:"endColumn,omitempty"`
	Rule      string         `json:"rule"`
	Module    string         `json:"module,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity,omitempty"`
	Node      *rules.NodeRef `json:"node,omitempty"`
}

func (r record) violation() (rules.Violation, error) {
	severity := rules.SeverityWarning
	if r.Severity != "" {
		var err error
		if severity, err = rules.ParseSeverity(r.Severity); err != nil {
			return rules.Violation{}, err
		}
	}

	var loc rules.Location
	switch {
	case r.Line <= 0:
		loc = rules.NewFileLocation(r.File)
	case r.EndLine > 0:
		loc = rules.NewRangeLocation(r.File, r.Line, r.Column, r.EndLine, r.EndColumn)
	default:
		loc = rules.NewPointLocation(r.File, r.Line, r.Column)
	}
	v := rules.NewViolation(loc, r.Rule, r.Message, severity).WithModuleID(r.Module)
	v.Node = r.Node
	return v, nil
}

// ReadViolations decodes a JSON array of violations, or an object holding
// the array under "violations". Input order is kept.
func ReadViolations(r io.Reader) ([]rules.Violation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoInput
	}

	var records []record
	if data[0] == '{' {
		var doc struct {
			Violations []record `json:"violations"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode violations: %w", err)
		}
		records = doc.Violations
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode violations: %w", err)
	}

	out := make([]rules.Violation, 0, len(records))
	for i, rec := range records {
		if rec.Rule == "" {
			return nil, fmt.Errorf("violation %d: missing rule", i+1)
		}
		v, err := rec.violation()
		if err != nil {
			return nil, fmt.Errorf("violation %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadViolationsFile reads violations from path; "-" reads standard input.
func ReadViolationsFile(path string) ([]rules.Violation, error) {
	if path == "-" {
		return ReadViolations(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadViolations(f)
}
