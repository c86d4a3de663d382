package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/wharflab/hush/internal/rules"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains the surviving violations grouped by file.
	Files []FileResult `json:"files"`
	// Suppressed lists the violations a rule set dropped.
	Suppressed []rules.SuppressedViolation `json:"suppressed"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the number of distinct files violations referred to.
	FilesScanned int `json:"files_scanned"`
	// RuleSets is the number of non-empty suppression rule sets.
	RuleSets int `json:"rule_sets"`
}

// FileResult contains the surviving violations of one file.
type FileResult struct {
	File       string            `json:"file"`
	Violations []rules.Violation `json:"violations"`
}

// Summary contains aggregate statistics about violations.
type Summary struct {
	Total      int `json:"total"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Info       int `json:"info"`
	Style      int `json:"style"`
	Files      int `json:"files"`
	Suppressed int `json:"suppressed"`
	FileErrors int `json:"file_errors"`
}

// JSONReporter formats violations as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	byFile := make(map[string][]rules.Violation)
	var order []string
	for _, v := range SortViolations(violations) {
		v.Location.File = filepath.ToSlash(v.Location.File)
		if _, ok := byFile[v.Location.File]; !ok {
			order = append(order, v.Location.File)
		}
		byFile[v.Location.File] = append(byFile[v.Location.File], v)
	}

	suppressed := SortSuppressed(metadata.Suppressed)
	for i := range suppressed {
		suppressed[i].Location.File = filepath.ToSlash(suppressed[i].Location.File)
	}

	summary := calculateSummary(violations, len(order))
	summary.Suppressed = len(suppressed)
	summary.FileErrors = metadata.FileErrors

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(order)),
		Suppressed:   suppressed,
		Summary:      summary,
		FilesScanned: metadata.FilesScanned,
		RuleSets:     metadata.RuleSets,
	}
	if output.Suppressed == nil {
		output.Suppressed = []rules.SuppressedViolation{}
	}
	for _, file := range order {
		output.Files = append(output.Files, FileResult{File: file, Violations: byFile[file]})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func calculateSummary(violations []rules.Violation, fileCount int) Summary {
	summary := Summary{Total: len(violations), Files: fileCount}
	for _, v := range violations {
		switch v.Severity {
		case rules.SeverityError:
			summary.Errors++
		case rules.SeverityWarning:
			summary.Warnings++
		case rules.SeverityInfo:
			summary.Info++
		case rules.SeverityStyle:
			summary.Style++
		case rules.SeverityIgnore:
		}
	}
	return summary
}
