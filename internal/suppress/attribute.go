package suppress

import (
	"errors"
	"regexp"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/intrange"
	"github.com/wharflab/hush/internal/rules"
)

// AttributeSpec holds the raw parameters of an attribute rule. Every field
// is optional, but at least one of Checks, ID and Message must be set.
type AttributeSpec struct {
	Name    string
	Files   string
	Checks  string
	Message string
	ID      string
	Lines   string
	Columns string
}

// AttributeRule matches a violation by its attributes. Patterns are searched
// anywhere in the subject; the module id is compared exactly.
type AttributeRule struct {
	name     string
	files    *regexp.Regexp
	checks   *regexp.Regexp
	message  *regexp.Regexp
	moduleID string
	lines    *intrange.Set
	columns  *intrange.Set
}

// ErrNoDiscriminator is returned for attribute rules that would match
// without looking at the check, id or message.
var ErrNoDiscriminator = errors.New("one of checks, id or message is required")

// NewAttributeRule validates spec and compiles its patterns.
func NewAttributeRule(spec AttributeSpec) (*AttributeRule, error) {
	if spec.Checks == "" && spec.ID == "" && spec.Message == "" {
		return nil, errdef.NewConfigError(spec.Name, "checks", "", ErrNoDiscriminator)
	}
	r := &AttributeRule{name: spec.Name, moduleID: spec.ID}

	var err error
	if r.files, err = compileOptional(spec.Name, "files", spec.Files); err != nil {
		return nil, err
	}
	if r.checks, err = compileOptional(spec.Name, "checks", spec.Checks); err != nil {
		return nil, err
	}
	if r.message, err = compileOptional(spec.Name, "message", spec.Message); err != nil {
		return nil, err
	}
	if spec.Lines != "" {
		if r.lines, err = intrange.Parse(spec.Lines); err != nil {
			return nil, errdef.NewConfigError(spec.Name, "lines", spec.Lines, err)
		}
	}
	if spec.Columns != "" {
		if r.columns, err = intrange.Parse(spec.Columns); err != nil {
			return nil, errdef.NewConfigError(spec.Name, "columns", spec.Columns, err)
		}
	}
	return r, nil
}

func compileOptional(rule, field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errdef.NewConfigError(rule, field, pattern, &errdef.PatternError{Pattern: pattern, Err: err})
	}
	return re, nil
}

// Name implements Rule.
func (r *AttributeRule) Name() string { return r.name }

// Bind implements Rule. Attribute rules need no file state.
func (r *AttributeRule) Bind(*File) (Matcher, error) {
	return predicate(r.Match), nil
}

// Match reports whether every configured attribute matches v.
func (r *AttributeRule) Match(v rules.Violation) bool {
	if r.files != nil && !r.files.MatchString(v.File()) {
		return false
	}
	if r.moduleID != "" && r.moduleID != v.ModuleID {
		return false
	}
	if r.checks != nil && !r.checks.MatchString(v.RuleCode) {
		return false
	}
	if r.message != nil && !r.message.MatchString(v.Message) {
		return false
	}
	if r.lines != nil && !r.lines.Contains(v.Line()) {
		return false
	}
	if r.columns != nil && !r.columns.Contains(v.Column()) {
		return false
	}
	return true
}

// SeverityRule matches violations of one severity. It is typically used as
// an allow-list gate.
type SeverityRule struct {
	name     string
	severity rules.Severity
}

// NewSeverityRule parses a severity name into a rule.
func NewSeverityRule(name, severity string) (*SeverityRule, error) {
	sev, err := rules.ParseSeverity(severity)
	if err != nil {
		return nil, errdef.NewConfigError(name, "severity", severity, err)
	}
	return &SeverityRule{name: name, severity: sev}, nil
}

// Name implements Rule.
func (r *SeverityRule) Name() string { return r.name }

// Bind implements Rule.
func (r *SeverityRule) Bind(*File) (Matcher, error) {
	return predicate(func(v rules.Violation) bool { return v.Severity == r.severity }), nil
}
