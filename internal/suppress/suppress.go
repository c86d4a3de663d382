// Package suppress decides whether a reported violation is kept or dropped.
//
// Rules are grouped into rule sets. A reject-list set drops a violation when
// any of its rules matches; an allow-list set keeps it only when every gate
// agrees. An Engine chains rule sets and keeps a violation only if it
// survives all of them.
//
// Rules and rule sets are immutable once built and may be shared. Per-file
// state (comment tags, annotation ranges, query results) lives in a Session,
// which each worker creates for itself.
package suppress

import (
	"github.com/wharflab/hush/internal/rules"
)

// Rule is a suppression predicate.
type Rule interface {
	// Name identifies the rule in logs and reports.
	Name() string
	// Bind prepares the rule for one file. It is called at most once per
	// file per session, on the first violation of that file. f may be nil
	// when the violation is not tied to a loaded file.
	Bind(f *File) (Matcher, error)
}

// Matcher evaluates a bound rule against violations of one file.
// A non-match is a false return, never an error.
type Matcher interface {
	Matches(v rules.Violation) (bool, error)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(v rules.Violation) (bool, error)

// Matches calls fn(v).
func (fn MatcherFunc) Matches(v rules.Violation) (bool, error) { return fn(v) }

// predicate adapts a check that needs no per-file state.
type predicate func(v rules.Violation) bool

func (p predicate) Matches(v rules.Violation) (bool, error) { return p(v), nil }

// Mode is the composition policy of a rule set.
type Mode int

const (
	// RejectList drops a violation when any rule matches.
	RejectList Mode = iota
	// AllowList keeps a violation only when every gate accepts it.
	AllowList
)

func (m Mode) String() string {
	if m == AllowList {
		return "allow-list"
	}
	return "reject-list"
}

// Gate is an allow-list entry: it accepts a violation when the rule's match
// result equals AcceptOnMatch.
type Gate struct {
	Rule          Rule
	AcceptOnMatch bool
}

// RuleSet is a named group of rules with one composition policy.
type RuleSet struct {
	name  string
	mode  Mode
	rules []Rule
	gates []Gate
}

// NewRejectList builds a reject-list rule set.
func NewRejectList(name string, rs ...Rule) *RuleSet {
	return &RuleSet{name: name, mode: RejectList, rules: rs}
}

// NewAllowList builds an allow-list rule set.
func NewAllowList(name string, gates ...Gate) *RuleSet {
	return &RuleSet{name: name, mode: AllowList, gates: gates}
}

// Name returns the rule set name.
func (s *RuleSet) Name() string { return s.name }

// Mode returns the composition policy.
func (s *RuleSet) Mode() Mode { return s.mode }

// Len returns the number of rules or gates in the set.
func (s *RuleSet) Len() int { return len(s.rules) + len(s.gates) }

// Rules returns every rule of the set, gates included.
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, 0, s.Len())
	out = append(out, s.rules...)
	for _, g := range s.gates {
		out = append(out, g.Rule)
	}
	return out
}

// Decision explains the outcome for one violation.
type Decision struct {
	Accepted bool
	// Set and Rule name what rejected the violation; empty when accepted.
	Set  string
	Rule string
}
