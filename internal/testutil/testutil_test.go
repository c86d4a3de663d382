package testutil

import (
	"testing"

	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/suppress"
	"github.com/wharflab/hush/internal/syntax"
)

func TestParse(t *testing.T) {
	tree := Parse(t, syntax.Java, "class A {}\n")
	if tree == nil {
		t.Fatal("Parse returned nil")
	}
	if tree.Kind(tree.Root()) != "program" {
		t.Errorf("root kind = %q, want program", tree.Kind(tree.Root()))
	}
}

func TestNewFile(t *testing.T) {
	java := NewFile(t, "src/A.java", "class A {}\n")
	if java.Tree == nil {
		t.Error("expected a tree for a .java file")
	}
	text := NewFile(t, "README.md", "# readme\n")
	if text.Tree != nil {
		t.Error("expected no tree for a markdown file")
	}
	if text.Text.TextLine(1) != "# readme" {
		t.Errorf("TextLine(1) = %q", text.Text.TextLine(1))
	}
}

func TestRunSuppressionTests(t *testing.T) {
	rule, err := suppress.NewAttributeRule(suppress.AttributeSpec{Name: "magic", Checks: "^MagicNumber$", Lines: "3-4"})
	if err != nil {
		t.Fatal(err)
	}
	RunSuppressionTests(t, rule, NewFile(t, "A.java", "class A {}\n"), []SuppressionCase{
		{Name: "in range", Violation: At("", 3, 0, "MagicNumber"), Want: true},
		{Name: "out of range", Violation: At("", 5, 0, "MagicNumber"), Want: false},
		{Name: "other check", Violation: At("", 3, 0, "Javadoc"), Want: false},
	})
}

func TestAssertViolationCount(t *testing.T) {
	AssertNoViolations(t, nil)
	AssertViolationCount(t, []rules.Violation{At("A.java", 1, 0, "X")}, 1)
}
