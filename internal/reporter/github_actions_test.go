package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wharflab/hush/internal/rules"
)

func TestGitHubActionsReporter(t *testing.T) {
	kept, meta := fixture()

	var buf bytes.Buffer
	if err := NewGitHubActionsReporter(&buf).Report(kept, nil, meta); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"::error file=src/Quiet.java,line=3,col=1,endLine=6,title=ClassLength::Class is too long.",
		"::warning file=src/Quiet.java,line=5,col=13,title=MagicNumber (numbers)::'7' is a magic number.",
		"::notice title=hush::1 violation suppressed",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %s\nwant %s", i, lines[i], want[i])
		}
	}
}

func TestGitHubActionsReporterSeverityMapping(t *testing.T) {
	tests := []struct {
		severity rules.Severity
		want     string
	}{
		{rules.SeverityError, "error"},
		{rules.SeverityWarning, "warning"},
		{rules.SeverityInfo, "notice"},
		{rules.SeverityStyle, "notice"},
	}
	for _, tt := range tests {
		if got := severityToGitHubLevel(tt.severity); got != tt.want {
			t.Errorf("severityToGitHubLevel(%v) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestGitHubActionsReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewGitHubActionsReporter(&buf).Report(nil, nil, ReportMetadata{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestGitHubActionsReporterFileLevel(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(rules.NewFileLocation("A.java"), "NewlineAtEndOfFile", "missing newline", rules.SeverityWarning),
	}
	var buf bytes.Buffer
	if err := NewGitHubActionsReporter(&buf).Report(violations, nil, ReportMetadata{}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "::warning file=A.java,title=NewlineAtEndOfFile::missing newline" {
		t.Errorf("got %s", got)
	}
}

func TestEscapeGitHubMessage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"100%", "100%25"},
		{"line1\nline2", "line1%0Aline2"},
		{"a\r\nb", "a%0D%0Ab"},
		{"key: a, b", "key: a, b"},
	}
	for _, tt := range tests {
		if got := escapeGitHubMessage(tt.in); got != tt.want {
			t.Errorf("escapeGitHubMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeGitHubProperty(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/A.java", "src/A.java"},
		{"C:/src/A.java", "C%3A/src/A.java"},
		{"a,b", "a%2Cb"},
		{"50%\n", "50%25%0A"},
	}
	for _, tt := range tests {
		if got := escapeGitHubProperty(tt.in); got != tt.want {
			t.Errorf("escapeGitHubProperty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
