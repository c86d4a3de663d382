package syntax

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/wharflab/hush/internal/rules"
)

var (
	// ErrNotQueryable is returned when a tree has no parser backend.
	ErrNotQueryable = errors.New("tree cannot be queried")
	// ErrLanguageMismatch is returned when a query is evaluated against a
	// tree of another grammar.
	ErrLanguageMismatch = errors.New("query language does not match tree")
	// ErrNoCaptures is returned for queries that capture no nodes.
	ErrNoCaptures = errors.New("query has no captures")
)

// Query is a compiled tree-sitter S-expression query. Every captured node is
// part of the result set. A Query is immutable and safe for concurrent use.
type Query struct {
	lang   Language
	source string
	q      *sitter.Query
}

// CompileQuery compiles src for lang.
//
// Predicates such as #eq? and #match? are applied during evaluation.
func CompileQuery(lang Language, src string) (*Query, error) {
	grammar, err := lang.grammar()
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery([]byte(src), grammar)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	if q.CaptureCount() == 0 {
		return nil, ErrNoCaptures
	}
	return &Query{lang: lang, source: src, q: q}, nil
}

// Language returns the grammar the query was compiled for.
func (q *Query) Language() Language { return q.lang }

// String returns the query source.
func (q *Query) String() string { return q.source }

// Evaluate runs the query against t and returns the captured nodes in match
// order. Duplicate captures are reported once.
func (q *Query) Evaluate(t *Tree) ([]rules.NodeRef, error) {
	if t == nil || t.backend == nil {
		return nil, ErrNotQueryable
	}
	if t.lang != q.lang {
		return nil, fmt.Errorf("%w: query is %s, tree is %s", ErrLanguageMismatch, q.lang, t.lang)
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q.q, t.backend.RootNode())

	seen := make(map[rules.NodeRef]bool)
	var out []rules.NodeRef
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, t.src)
		for _, c := range m.Captures {
			sp := c.Node.StartPoint()
			ref := rules.NodeRef{
				Kind:   c.Node.Type(),
				Line:   int(sp.Row) + 1,
				Column: int(sp.Column),
			}
			if seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out, nil
}
