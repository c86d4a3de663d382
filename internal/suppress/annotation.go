package suppress

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/syntax"
)

// AnnotationSpec holds the raw parameters of an annotation rule.
type AnnotationSpec struct {
	Name string
	// Names are the annotation names that suppress, simple or qualified.
	Names []string
	// Exempt rule patterns are never suppressed. They must match the whole
	// rule name.
	Exempt []string
	// ExcludeModifiers starts the covered range after the declaration's
	// modifiers and annotations.
	ExcludeModifiers bool
	// MatchValues restricts suppression to the rules named in the
	// annotation's string arguments.
	MatchValues bool
}

// AnnotationRange is the source region covered by one suppressing
// annotation. Both ends are inclusive.
type AnnotationRange struct {
	Annotation  string
	Values      []string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Contains reports whether (line, column) lies in the range.
func (r AnnotationRange) Contains(line, column int) bool {
	if line < r.StartLine || line > r.EndLine {
		return false
	}
	if line == r.StartLine && column < r.StartColumn {
		return false
	}
	if line == r.EndLine && column > r.EndColumn {
		return false
	}
	return true
}

var errNoNames = errors.New("at least one annotation name is required")

// AnnotationRule suppresses violations inside declarations that carry a
// configured annotation.
type AnnotationRule struct {
	name             string
	names            map[string]bool
	exempt           []*regexp.Regexp
	excludeModifiers bool
	matchValues      bool
	log              logrus.FieldLogger
}

// NewAnnotationRule validates spec and compiles the exempt patterns.
func NewAnnotationRule(spec AnnotationSpec, log logrus.FieldLogger) (*AnnotationRule, error) {
	if len(spec.Names) == 0 {
		return nil, errdef.NewConfigError(spec.Name, "names", "", errNoNames)
	}
	r := &AnnotationRule{
		name:             spec.Name,
		names:            make(map[string]bool, len(spec.Names)),
		excludeModifiers: spec.ExcludeModifiers,
		matchValues:      spec.MatchValues,
		log:              orDiscard(log),
	}
	for _, n := range spec.Names {
		n = strings.TrimPrefix(strings.TrimSpace(n), "@")
		if n == "" {
			return nil, errdef.NewConfigError(spec.Name, "names", n, errNoNames)
		}
		r.names[n] = true
	}
	for _, p := range spec.Exempt {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, errdef.NewConfigError(spec.Name, "exempt", p, &errdef.PatternError{Pattern: p, Err: err})
		}
		r.exempt = append(r.exempt, re)
	}
	return r, nil
}

// Name implements Rule.
func (r *AnnotationRule) Name() string { return r.name }

// Bind collects the annotated ranges of f once.
func (r *AnnotationRule) Bind(f *File) (Matcher, error) {
	var ranges []AnnotationRange
	if f != nil {
		ranges = r.Ranges(f.Tree)
		r.log.WithFields(logrus.Fields{"file": f.Path, "rule": r.name, "ranges": len(ranges)}).Debug("collected annotation ranges")
	}
	return predicate(func(v rules.Violation) bool {
		if r.exempted(v.RuleCode) {
			return false
		}
		for _, rg := range ranges {
			if rg.Contains(v.Line(), v.Column()) && r.allows(rg, v.RuleCode) {
				return true
			}
		}
		return false
	}), nil
}

func (r *AnnotationRule) exempted(rule string) bool {
	for _, re := range r.exempt {
		if re.MatchString(rule) {
			return true
		}
	}
	return false
}

func (r *AnnotationRule) allows(rg AnnotationRange, rule string) bool {
	if !r.matchValues || len(rg.Values) == 0 {
		return true
	}
	alias := checkAlias(rule)
	for _, val := range rg.Values {
		val = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(val)), "checkstyle:")
		if val == "all" || val == alias {
			return true
		}
	}
	return false
}

// checkAlias lowercases the simple rule name and drops a "Check" suffix:
// "com.example.MagicNumberCheck" becomes "magicnumber".
func checkAlias(rule string) string {
	if i := strings.LastIndexByte(rule, '.'); i >= 0 {
		rule = rule[i+1:]
	}
	return strings.ToLower(strings.TrimSuffix(rule, "Check"))
}

// Ranges walks tree depth-first and returns the range of every declaration
// carrying a configured annotation, in source order.
func (r *AnnotationRule) Ranges(tree *syntax.Tree) []AnnotationRange {
	if tree == nil {
		return nil
	}
	var out []AnnotationRange
	tree.Walk(tree.Root(), func(id syntax.NodeID) bool {
		mods := tree.ChildOfKind(id, "modifiers")
		if mods == syntax.NoNode {
			return true
		}
		for _, a := range tree.Children(mods) {
			kind := tree.Kind(a)
			if kind != "annotation" && kind != "marker_annotation" {
				continue
			}
			name := annotationName(tree, a)
			if !r.matchName(name) {
				continue
			}
			out = append(out, r.declRange(tree, id, mods, name, annotationValues(tree, a)))
		}
		return true
	})
	return out
}

func (r *AnnotationRule) matchName(name string) bool {
	if name == "" {
		return false
	}
	if r.names[name] {
		return true
	}
	simple := name[strings.LastIndexByte(name, '.')+1:]
	if r.names[simple] {
		return true
	}
	for n := range r.names {
		if n[strings.LastIndexByte(n, '.')+1:] == name {
			return true
		}
	}
	return false
}

func (r *AnnotationRule) declRange(tree *syntax.Tree, decl, mods syntax.NodeID, name string, values []string) AnnotationRange {
	start := tree.Start(decl)
	if r.excludeModifiers {
		for c := tree.NextSibling(mods); c != syntax.NoNode; c = tree.NextSibling(c) {
			if !strings.HasSuffix(tree.Kind(c), "comment") {
				start = tree.Start(c)
				break
			}
		}
	}
	end := tree.End(tree.DeepestLast(decl))
	return AnnotationRange{
		Annotation:  name,
		Values:      values,
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   max(0, end.Column-1),
	}
}

// annotationName returns the written name of an annotation node, e.g.
// "SuppressWarnings" or "java.lang.SuppressWarnings".
func annotationName(tree *syntax.Tree, a syntax.NodeID) string {
	for c := tree.FirstChild(a); c != syntax.NoNode; c = tree.NextSibling(c) {
		switch tree.Kind(c) {
		case "identifier", "scoped_identifier":
			return tree.LeafText(c)
		}
	}
	return ""
}

// annotationValues returns the string literal arguments of an annotation,
// unquoted. Nested element arrays are included.
func annotationValues(tree *syntax.Tree, a syntax.NodeID) []string {
	args := tree.ChildOfKind(a, "annotation_argument_list")
	if args == syntax.NoNode {
		return nil
	}
	var out []string
	tree.Walk(args, func(id syntax.NodeID) bool {
		if tree.Kind(id) != "string_literal" {
			return true
		}
		out = append(out, unquote(tree.Text(id)))
		return false
	})
	return out
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"""`)
	s = strings.TrimSuffix(s, `"""`)
	return strings.Trim(s, `"`)
}
