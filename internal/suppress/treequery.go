package suppress

import (
	"errors"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/syntax"
)

// QuerySpec holds the raw parameters of a tree query rule.
type QuerySpec struct {
	Name     string
	Files    string
	Checks   string
	Message  string
	ID       string
	Language string
	// Query is a tree-sitter S-expression. Every captured node is a
	// suppression target. Empty means match on the attributes alone.
	Query string
}

var fileDefaults = map[syntax.Language]string{
	syntax.Java: `\.java$`,
	syntax.Go:   `\.go$`,
}

// TreeQueryRule suppresses violations whose node is among the results of a
// tree query.
type TreeQueryRule struct {
	name     string
	files    *regexp.Regexp
	checks   *regexp.Regexp
	message  *regexp.Regexp
	moduleID string
	query    *syntax.Query
	log      logrus.FieldLogger
}

// NewTreeQueryRule validates spec and compiles the query.
func NewTreeQueryRule(spec QuerySpec, log logrus.FieldLogger) (*TreeQueryRule, error) {
	r := &TreeQueryRule{name: spec.Name, moduleID: spec.ID, log: orDiscard(log)}

	files := spec.Files
	if spec.Query != "" {
		lang := syntax.Java
		if spec.Language != "" {
			var err error
			if lang, err = syntax.ParseLanguage(spec.Language); err != nil {
				return nil, errdef.NewConfigError(spec.Name, "language", spec.Language, err)
			}
		}
		q, err := syntax.CompileQuery(lang, spec.Query)
		if err != nil {
			return nil, errdef.NewConfigError(spec.Name, "query", spec.Query, err)
		}
		r.query = q
		if files == "" {
			files = fileDefaults[lang]
		}
	} else if spec.Checks == "" && spec.ID == "" && spec.Message == "" {
		return nil, errdef.NewConfigError(spec.Name, "query", "", errors.New("query or one of checks, id or message is required"))
	}

	var err error
	if r.files, err = compileOptional(spec.Name, "files", files); err != nil {
		return nil, err
	}
	if r.checks, err = compileOptional(spec.Name, "checks", spec.Checks); err != nil {
		return nil, err
	}
	if r.message, err = compileOptional(spec.Name, "message", spec.Message); err != nil {
		return nil, err
	}
	return r, nil
}

// Name implements Rule.
func (r *TreeQueryRule) Name() string { return r.name }

func (r *TreeQueryRule) attributesMatch(v rules.Violation) bool {
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
	return true
}

// Bind implements Rule. The query is evaluated at most once per file, the
// first time a violation passes the attribute checks.
func (r *TreeQueryRule) Bind(f *File) (Matcher, error) {
	var results map[rules.NodeRef]bool
	return MatcherFunc(func(v rules.Violation) (bool, error) {
		// Violations from checks that do not walk the tree are never
		// matched.
		if v.Node == nil || !r.attributesMatch(v) {
			return false, nil
		}
		if r.query == nil {
			return true, nil
		}
		if results == nil {
			var err error
			if results, err = r.evaluate(f); err != nil {
				return false, err
			}
		}
		// The node contributes its kind; the position is the violation's.
		key := rules.NodeRef{Kind: v.Node.Kind, Line: v.Line(), Column: v.Column()}
		return results[key], nil
	}), nil
}

func (r *TreeQueryRule) evaluate(f *File) (map[rules.NodeRef]bool, error) {
	path := ""
	var tree *syntax.Tree
	if f != nil {
		path, tree = f.Path, f.Tree
	}
	if tree == nil {
		return nil, &errdef.QueryEvaluationError{File: path, Query: r.query.String(), Err: syntax.ErrNotQueryable}
	}
	refs, err := r.query.Evaluate(tree)
	if err != nil {
		return nil, &errdef.QueryEvaluationError{File: path, Query: r.query.String(), Err: err}
	}
	out := make(map[rules.NodeRef]bool, len(refs))
	for _, ref := range refs {
		out[ref] = true
	}
	r.log.WithFields(logrus.Fields{"file": path, "rule": r.name, "nodes": len(out)}).Debug("evaluated tree query")
	return out, nil
}
