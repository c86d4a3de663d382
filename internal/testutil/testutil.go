// Package testutil provides test helpers for suppression rules: parsing
// inline Java and Go fixtures, binding rules to them, and table-driven
// suppression checks.
package testutil

import (
	"context"
	"testing"

	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/suppress"
	"github.com/wharflab/hush/internal/syntax"
)

// Parse parses src with the grammar for lang.
func Parse(tb testing.TB, lang syntax.Language, src string) *syntax.Tree {
	tb.Helper()

	tree, err := syntax.Parse(context.Background(), lang, []byte(src))
	if err != nil {
		tb.Fatalf("failed to parse %s source: %v", lang, err)
	}
	return tree
}

// NewFile builds a suppress.File for path. Sources with a known grammar
// are parsed; anything else gets no tree.
func NewFile(tb testing.TB, path, src string) *suppress.File {
	tb.Helper()

	var tree *syntax.Tree
	if lang, ok := syntax.LanguageForPath(path); ok {
		tree = Parse(tb, lang, src)
	}
	return suppress.NewFile(path, []byte(src), tree)
}

// At creates a warning for rule at line (1-based) and column (0-based).
func At(file string, line, column int, rule string) rules.Violation {
	return rules.NewViolation(rules.NewPointLocation(file, line, column), rule, rule+" violation", rules.SeverityWarning)
}

// SuppressionCase defines one violation and whether a rule suppresses it.
type SuppressionCase struct {
	// Name is the test case name.
	Name string

	// Violation is the violation to match. Its file is ignored: cases run
	// against the bound file.
	Violation rules.Violation

	// Want reports whether the rule matches (suppresses) the violation.
	Want bool
}

// RunSuppressionTests binds rule to file once and checks every case.
func RunSuppressionTests(t *testing.T, rule suppress.Rule, file *suppress.File, cases []SuppressionCase) {
	t.Helper()

	m, err := rule.Bind(file)
	if err != nil {
		t.Fatalf("Bind(%s) error = %v", file.Path, err)
	}
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			v := tc.Violation
			v.Location.File = file.Path
			got, err := m.Matches(v)
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if got != tc.Want {
				t.Errorf("%s at %d:%d: matched = %v, want %v", v.RuleCode, v.Line(), v.Column(), got, tc.Want)
			}
		})
	}
}

// AssertNoViolations fails the test if there are any violations.
func AssertNoViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	if len(violations) > 0 {
		tb.Errorf("expected no violations, got %d:", len(violations))
		for _, v := range violations {
			tb.Logf("  - %s at line %d: %s", v.RuleCode, v.Line(), v.Message)
		}
	}
}

// AssertViolationCount fails if the violation count doesn't match.
func AssertViolationCount(tb testing.TB, violations []rules.Violation, want int) {
	tb.Helper()
	if len(violations) != want {
		tb.Errorf("got %d violations, want %d", len(violations), want)
		for _, v := range violations {
			tb.Logf("  - %s at line %d: %s", v.RuleCode, v.Line(), v.Message)
		}
	}
}
