package reporter

import (
	"io"
	"path/filepath"
	"slices"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/hush/internal/rules"
)

const (
	defaultToolName = "hush"
	defaultToolURI  = "https://github.com/wharflab/hush"
)

// suppressionKind marks results suppressed by configuration outside the
// analyzed source (suppression files, filters).
const suppressionKind = "external"

// SARIFReporter formats results as SARIF 2.1.0. Suppressed violations
// are emitted as results with a suppression object, the way GitHub Code
// Scanning expects dismissed findings.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{writer: w, toolName: toolName, toolVersion: toolVersion, toolURI: toolURI}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	report := sarif.NewReport()
	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	kept := SortViolations(violations)
	suppressed := SortSuppressed(metadata.Suppressed)

	ruleCodes := make(map[string]struct{})
	files := make(map[string]struct{})
	collect := func(v rules.Violation) {
		ruleCodes[v.RuleCode] = struct{}{}
		files[filepath.ToSlash(v.Location.File)] = struct{}{}
	}
	for _, v := range kept {
		collect(v)
	}
	for _, s := range suppressed {
		collect(s.Violation)
	}

	for _, code := range sortedKeys(ruleCodes) {
		run.AddRule(code)
	}
	for _, file := range sortedKeys(files) {
		run.AddDistinctArtifact(file)
	}

	for _, v := range kept {
		run.AddResult(newResult(v))
	}
	for _, s := range suppressed {
		result := newResult(s.Violation)
		result.Suppressions = []*sarif.Suppression{sarif.NewSuppression().WithKind(suppressionKind)}
		run.AddResult(result)
	}

	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}

func newResult(v rules.Violation) *sarif.Result {
	message := v.Message
	if v.HasModuleID() {
		message += " [" + v.ModuleID + "]"
	}
	result := sarif.NewRuleResult(v.RuleCode).
		WithMessage(sarif.NewTextMessage(message)).
		WithLevel(severityToSARIFLevel(v.Severity))

	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewSimpleArtifactLocation(filepath.ToSlash(v.Location.File)))
	if !v.Location.IsFileLevel() {
		// SARIF columns are 1-based.
		region := sarif.NewRegion().
			WithStartLine(v.Location.Start.Line).
			WithStartColumn(v.Location.Start.Column + 1)
		if !v.Location.IsPointLocation() && v.Location.End.Line > 0 {
			region.WithEndLine(v.Location.End.Line)
			if v.Location.End.Column >= 0 {
				region.WithEndColumn(v.Location.End.Column + 1)
			}
		}
		if v.SourceCode != "" {
			region.WithSnippet(sarif.NewArtifactContent().WithText(v.SourceCode))
		}
		physical.WithRegion(region)
	}
	result.WithLocations([]*sarif.Location{sarif.NewLocationWithPhysicalLocation(physical)})
	return result
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

func severityToSARIFLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return sarifLevelError
	case rules.SeverityInfo, rules.SeverityStyle, rules.SeverityIgnore:
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
