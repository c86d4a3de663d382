package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/testutil"
)

func TestPrintTextPlain_Snapshot(t *testing.T) {
	kept, _ := fixture()

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, kept, map[string][]byte{"src/Quiet.java": []byte(quietJava)}); err != nil {
		t.Fatal(err)
	}
	testutil.MatchSnapshot(t, ".txt", buf.String())
}

func TestPrintTextPlain_SingleViolation(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(rules.NewPointLocation("src/Quiet.java", 4, 12), "MagicNumber", "'42' is a magic number.", rules.SeverityWarning),
	}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, violations, map[string][]byte{"src/Quiet.java": []byte(quietJava)}); err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"WARNING: MagicNumber",
		"'42' is a magic number.",
		"src/Quiet.java:4:13",
		"--------------------",
		"   4 | >>>     int a = 42;",
		"   1 |     package com.example;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q, got:\n%s", want, output)
		}
	}
}

func TestPrintTextPlain_DifferentSeverities(t *testing.T) {
	tests := []struct {
		severity rules.Severity
		label    string
	}{
		{rules.SeverityError, "ERROR:"},
		{rules.SeverityWarning, "WARNING:"},
		{rules.SeverityInfo, "INFO:"},
		{rules.SeverityStyle, "STYLE:"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			violations := []rules.Violation{
				rules.NewViolation(rules.NewLineLocation("A.java", 1), "Check", "msg", tt.severity),
			}
			var buf bytes.Buffer
			if err := PrintTextPlain(&buf, violations, nil); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.label+" Check") {
				t.Errorf("expected %q, got:\n%s", tt.label, buf.String())
			}
		})
	}
}

func TestPrintTextPlain_FileLevel(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(rules.NewFileLocation("A.java"), "NewlineAtEndOfFile", "File does not end with a newline.", rules.SeverityInfo),
	}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, violations, map[string][]byte{"A.java": []byte("class A {}")}); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if strings.Contains(output, ">>>") {
		t.Errorf("file-level violation should have no snippet:\n%s", output)
	}
	if !strings.Contains(output, "\nA.java\n") {
		t.Errorf("expected bare file name, got:\n%s", output)
	}
}

func TestPrintTextPlain_Range(t *testing.T) {
	kept, _ := fixture()

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, kept[1:], map[string][]byte{"src/Quiet.java": []byte(quietJava)}); err != nil {
		t.Fatal(err)
	}
	markers := strings.Count(buf.String(), ">>>")
	if markers != 4 {
		t.Errorf("expected lines 3-6 marked, got %d markers:\n%s", markers, buf.String())
	}
}

func TestPrintTextPlain_OutOfRangeLine(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(rules.NewLineLocation("A.java", 99), "Check", "msg", rules.SeverityWarning),
	}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, violations, map[string][]byte{"A.java": []byte("class A {}\n")}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "A.java:99:1") || strings.Contains(buf.String(), ">>>") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestNewTextReporter_Options(t *testing.T) {
	colorOn := true
	colorOff := false

	tests := []struct {
		name string
		opts TextOptions
	}{
		{"auto", TextOptions{SyntaxHighlight: true, ShowSource: true}},
		{"color on", TextOptions{Color: &colorOn, SyntaxHighlight: true}},
		{"color off", TextOptions{Color: &colorOff}},
		{"custom style", TextOptions{Color: &colorOn, SyntaxHighlight: true, ChromaStyle: "dracula"}},
		{"unknown style", TextOptions{Color: &colorOn, SyntaxHighlight: true, ChromaStyle: "no-such-style"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTextReporter(tt.opts)
			if r == nil {
				t.Fatal("NewTextReporter returned nil")
			}
		})
	}
}

func TestTextReporter_Highlighted(t *testing.T) {
	colorOn := true
	r := NewTextReporter(TextOptions{Color: &colorOn, SyntaxHighlight: true, ShowSource: true})
	kept, _ := fixture()

	var buf bytes.Buffer
	if err := r.Print(&buf, kept, map[string][]byte{"src/Quiet.java": []byte(quietJava)}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), "MagicNumber") {
		t.Errorf("missing rule code in output:\n%s", buf.String())
	}
	if r.lexer("src/Quiet.java") == nil {
		t.Error("expected a cached lexer for a java file")
	}
}

func TestPrintSummary(t *testing.T) {
	noColor := false
	r := NewTextReporter(TextOptions{Color: &noColor})

	var buf bytes.Buffer
	if err := r.PrintSummary(&buf, 0, ReportMetadata{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no summary for a clean run, got %q", buf.String())
	}

	if err := r.PrintSummary(&buf, 1, ReportMetadata{FilesScanned: 2, FileErrors: 1}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "1 violation in 2 files, 1 file not decided" {
		t.Errorf("summary = %q", got)
	}
}
