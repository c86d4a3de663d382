package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wharflab/hush/internal/rules"
)

// GitHubActionsReporter formats violations as GitHub Actions workflow commands.
//
// Format: ::{level} file={file},line={line},col={col},title={rule}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter. Suppressed violations are not annotated;
// their count goes into a single notice.
func (r *GitHubActionsReporter) Report(violations []rules.Violation, _ map[string][]byte, metadata ReportMetadata) error {
	for _, v := range SortViolations(violations) {
		props := []string{"file=" + escapeGitHubProperty(filepath.ToSlash(v.Location.File))}
		if !v.Location.IsFileLevel() {
			props = append(props,
				fmt.Sprintf("line=%d", v.Location.Start.Line),
				fmt.Sprintf("col=%d", v.Location.Start.Column+1))
			if !v.Location.IsPointLocation() && v.Location.End.Line > v.Location.Start.Line {
				props = append(props, fmt.Sprintf("endLine=%d", v.Location.End.Line))
			}
		}
		title := v.RuleCode
		if v.HasModuleID() {
			title += " (" + v.ModuleID + ")"
		}
		props = append(props, "title="+escapeGitHubProperty(title))

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			severityToGitHubLevel(v.Severity), strings.Join(props, ","), escapeGitHubMessage(v.Message),
		); err != nil {
			return err
		}
	}

	if n := len(metadata.Suppressed); n > 0 {
		_, err := fmt.Fprintf(r.writer, "::%s title=hush::%s\n", ghLevelNotice,
			escapeGitHubMessage(fmt.Sprintf("%d %s suppressed", n, pluralize(n, "violation", "violations"))))
		return err
	}
	return nil
}

const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

func severityToGitHubLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return ghLevelError
	case rules.SeverityInfo, rules.SeverityStyle, rules.SeverityIgnore:
		return ghLevelNotice
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage applies the toolkit's escapeData rules: "%", "\r"
// and "\n" are escaped, ":" and "," are not.
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

// escapeGitHubProperty applies escapeProperty, which also escapes ":" and ",".
func escapeGitHubProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
