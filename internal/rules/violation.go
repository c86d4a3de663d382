package rules

// NodeRef identifies the syntax node a check was looking at when it reported
// a violation. Tree query suppression compares these by kind and position,
// never by identity: the checker and the query evaluator may hold different
// handles for the same node.
type NodeRef struct {
	// Kind is the grammar node type (e.g. "method_declaration").
	Kind string `json:"kind"`
	// Line is the 1-based line of the node start.
	Line int `json:"line"`
	// Column is the 0-based column of the node start.
	Column int `json:"column"`
}

// Violation represents a single reported rule infraction.
//
// Violations are produced by an external checker and are treated as
// immutable by every suppression rule: rules read them, never modify them.
type Violation struct {
	// Location specifies where the violation occurred.
	Location Location `json:"location"`

	// RuleCode is the name of the check that reported the violation
	// (e.g. "MagicNumber", "com.example.checks.MagicNumberCheck").
	RuleCode string `json:"rule"`

	// ModuleID is the optional per-instance identifier of the check.
	ModuleID string `json:"module,omitempty"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Severity indicates how critical this violation is.
	Severity Severity `json:"severity"`

	// Node is the syntax node the violation refers to, if the check ran
	// against the syntax tree.
	Node *NodeRef `json:"node,omitempty"`

	// SourceCode is the source snippet where the violation occurred (optional).
	// Populated by post-processing.
	SourceCode string `json:"sourceCode,omitempty"`
}

// NewViolation creates a new violation with the minimum required fields.
func NewViolation(loc Location, ruleCode, message string, severity Severity) Violation {
	return Violation{
		Location: loc,
		RuleCode: ruleCode,
		Message:  message,
		Severity: severity,
	}
}

// WithModuleID sets the module identifier.
func (v Violation) WithModuleID(id string) Violation {
	v.ModuleID = id
	return v
}

// WithNode attaches a syntax node reference.
func (v Violation) WithNode(kind string, line, column int) Violation {
	v.Node = &NodeRef{Kind: kind, Line: line, Column: column}
	return v
}

// WithSourceCode adds source code snippet to the violation.
func (v Violation) WithSourceCode(code string) Violation {
	v.SourceCode = code
	return v
}

// File returns the file path from the location.
func (v Violation) File() string {
	return v.Location.File
}

// Line returns the 1-based starting line number.
func (v Violation) Line() int {
	return v.Location.Start.Line
}

// Column returns the 0-based starting column.
func (v Violation) Column() int {
	return v.Location.Start.Column
}

// HasModuleID reports whether the violation carries a module identifier.
func (v Violation) HasModuleID() bool {
	return v.ModuleID != ""
}

// SuppressedViolation is a violation dropped by a suppression rule.
type SuppressedViolation struct {
	Violation

	// RuleSet and Rule name what suppressed the violation.
	RuleSet string `json:"ruleSet"`
	Rule    string `json:"suppressedBy"`
}
