// Package reporter writes audit results.
//
// The package supports these output formats:
//   - text: terminal output with colors and syntax highlighted snippets
//   - json: machine-readable results plus the suppressed violations
//   - sarif: SARIF 2.1.0, suppressed results carry a suppression object
//   - github-actions: workflow command annotations
package reporter

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/wharflab/hush/internal/rules"
)

// ReportMetadata contains contextual information about the audit run.
type ReportMetadata struct {
	// FilesScanned is the number of distinct files violations referred to.
	FilesScanned int
	// RuleSets is the number of non-empty suppression rule sets.
	RuleSets int
	// Suppressed lists the violations dropped by a rule set.
	Suppressed []rules.SuppressedViolation
	// FileErrors is the number of files whose violations were withheld.
	FileErrors int
}

// Reporter formats and outputs audit results.
type Reporter interface {
	// Report writes the surviving violations to the configured output.
	Report(violations []rules.Violation, sources map[string][]byte, metadata ReportMetadata) error
}

func compareLocation(a, b rules.Violation) int {
	return cmp.Or(
		cmp.Compare(a.Location.File, b.Location.File),
		cmp.Compare(a.Location.Start.Line, b.Location.Start.Line),
		cmp.Compare(a.Location.Start.Column, b.Location.Start.Column),
		cmp.Compare(a.RuleCode, b.RuleCode),
	)
}

// SortViolations returns a copy of violations ordered by file, line,
// column and rule code. Equal violations keep their input order.
func SortViolations(violations []rules.Violation) []rules.Violation {
	sorted := slices.Clone(violations)
	slices.SortStableFunc(sorted, compareLocation)
	return sorted
}

// SortSuppressed orders suppressed violations like SortViolations.
func SortSuppressed(suppressed []rules.SuppressedViolation) []rules.SuppressedViolation {
	sorted := slices.Clone(suppressed)
	slices.SortStableFunc(sorted, func(a, b rules.SuppressedViolation) int {
		return compareLocation(a.Violation, b.Violation)
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
)

// ParseFormat parses a format string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	Format Format
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowSource enables source code snippets (text format only).
	ShowSource bool

	// ShowSuppressed lists suppressed violations (text format only).
	ShowSuppressed bool

	// Tool information for SARIF output.
	ToolName    string
	ToolVersion string
	ToolURI     string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ShowSource:  true,
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return &textReporterAdapter{
			reporter: NewTextReporter(TextOptions{
				Color:           opts.Color,
				SyntaxHighlight: opts.Color == nil || *opts.Color,
				ShowSource:      opts.ShowSource,
				ShowSuppressed:  opts.ShowSuppressed,
			}),
			writer: opts.Writer,
		}, nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

type textReporterAdapter struct {
	reporter *TextReporter
	writer   io.Writer
}

func (a *textReporterAdapter) Report(violations []rules.Violation, sources map[string][]byte, metadata ReportMetadata) error {
	if err := a.reporter.Print(a.writer, violations, sources); err != nil {
		return err
	}
	if a.reporter.opts.ShowSuppressed {
		if err := a.reporter.PrintSuppressed(a.writer, metadata.Suppressed); err != nil {
			return err
		}
	}
	return a.reporter.PrintSummary(a.writer, len(violations), metadata)
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
