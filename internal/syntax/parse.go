package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
)

// Language names a supported grammar.
type Language string

const (
	Java Language = "java"
	Go   Language = "go"
)

// ErrUnsupportedLanguage is returned for files no grammar is registered for.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var extensions = map[string]Language{
	".java": Java,
	".go":   Go,
}

// LanguageForPath picks a grammar from the file extension.
func LanguageForPath(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ParseLanguage validates a language name from configuration.
func ParseLanguage(name string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(name)))
	if _, err := lang.grammar(); err != nil {
		return "", err
	}
	return lang, nil
}

func (l Language) grammar() (*sitter.Language, error) {
	switch l {
	case Java:
		return java.GetLanguage(), nil
	case Go:
		return golang.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(l))
	}
}

// ParseFile parses src with the grammar matching path's extension.
func ParseFile(ctx context.Context, path string, src []byte) (*Tree, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedLanguage)
	}
	return Parse(ctx, lang, src)
}

// Parse parses src and builds the arena tree.
func Parse(ctx context.Context, lang Language, src []byte) (*Tree, error) {
	grammar, err := lang.grammar()
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	backend, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", lang, err)
	}

	t := &Tree{lang: lang, src: src, backend: backend}
	t.build(backend.RootNode())
	return t, nil
}

// build copies the tree-sitter tree into the arena. Nodes are numbered in
// depth-first pre-order, so the root is 0 and a parent always precedes its
// children.
func (t *Tree) build(root *sitter.Node) {
	if root == nil {
		return
	}
	type frame struct {
		sn     *sitter.Node
		parent NodeID
	}
	stack := []frame{{sn: root, parent: NoNode}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := NodeID(len(t.nodes))
		sp, ep := f.sn.StartPoint(), f.sn.EndPoint()
		t.nodes = append(t.nodes, node{
			kind:        f.sn.Type(),
			start:       Point{Line: int(sp.Row) + 1, Column: int(sp.Column)},
			end:         Point{Line: int(ep.Row) + 1, Column: int(ep.Column)},
			startByte:   f.sn.StartByte(),
			endByte:     f.sn.EndByte(),
			parent:      f.parent,
			firstChild:  NoNode,
			lastChild:   NoNode,
			nextSibling: NoNode,
		})
		if f.parent != NoNode {
			p := &t.nodes[f.parent]
			if p.lastChild == NoNode {
				p.firstChild = id
			} else {
				t.nodes[p.lastChild].nextSibling = id
			}
			p.lastChild = id
		}
		if isCommentKind(t.nodes[id].kind) {
			text := t.Text(id)
			t.comments = append(t.comments, Comment{
				Kind:  classifyComment(text),
				Start: t.nodes[id].start,
				End:   t.nodes[id].end,
				Text:  text,
			})
		}

		n := int(f.sn.ChildCount())
		for i := n - 1; i >= 0; i-- {
			if c := f.sn.Child(i); c != nil {
				stack = append(stack, frame{sn: c, parent: id})
			}
		}
	}
}
