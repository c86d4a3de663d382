package rules

import (
	"encoding/json"
	"testing"
)

func TestNewViolation(t *testing.T) {
	loc := NewPointLocation("src/Foo.java", 5, 12)
	v := NewViolation(loc, "MagicNumber", "'42' is a magic number.", SeverityWarning)

	if v.RuleCode != "MagicNumber" {
		t.Errorf("RuleCode = %q, want %q", v.RuleCode, "MagicNumber")
	}
	if v.File() != "src/Foo.java" {
		t.Errorf("File() = %q, want %q", v.File(), "src/Foo.java")
	}
	if v.Line() != 5 || v.Column() != 12 {
		t.Errorf("position = %d:%d, want 5:12", v.Line(), v.Column())
	}
	if v.HasModuleID() {
		t.Error("HasModuleID() = true, want false")
	}
	if v.Node != nil {
		t.Error("Node should be nil by default")
	}
}

func TestViolation_WithMethods(t *testing.T) {
	base := NewViolation(NewLineLocation("A.java", 1), "rule", "msg", SeverityError)
	v := base.
		WithModuleID("mn1").
		WithNode("decimal_integer_literal", 1, 4).
		WithSourceCode("int x = 42;")

	if v.ModuleID != "mn1" || !v.HasModuleID() {
		t.Errorf("ModuleID = %q", v.ModuleID)
	}
	if v.Node == nil || v.Node.Kind != "decimal_integer_literal" || v.Node.Column != 4 {
		t.Errorf("Node = %+v", v.Node)
	}
	if v.SourceCode != "int x = 42;" {
		t.Errorf("SourceCode = %q", v.SourceCode)
	}
	// Value receivers must leave the original untouched.
	if base.ModuleID != "" || base.Node != nil {
		t.Error("With* methods modified the receiver")
	}
}

func TestViolation_UnmarshalJSON(t *testing.T) {
	input := `{
		"location": {"file": "A.java", "start": {"line": 3, "column": 8}, "end": {"line": -1, "column": -1}},
		"rule": "MagicNumber",
		"module": "mn",
		"message": "magic",
		"severity": "info",
		"node": {"kind": "decimal_integer_literal", "line": 3, "column": 8}
	}`

	var v Violation
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		t.Fatal(err)
	}
	if v.Severity != SeverityInfo {
		t.Errorf("Severity = %v, want info", v.Severity)
	}
	if v.Node == nil || v.Node.Line != 3 {
		t.Errorf("Node = %+v", v.Node)
	}
	if v.ModuleID != "mn" {
		t.Errorf("ModuleID = %q, want mn", v.ModuleID)
	}
}
