// Package syntax exposes parsed source files as an immutable, arena-indexed
// tree. Suppression rules only read the tree: they navigate parent, child and
// sibling links, look at comments, and evaluate tree queries against it.
//
// Parsing is delegated to tree-sitter. The arena is built once per file and
// never mutated afterwards, so a Tree may be shared freely between readers.
package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// NodeID indexes a node within its Tree.
type NodeID int32

// NoNode is returned by navigation methods when the link does not exist.
const NoNode NodeID = -1

// Point is a position in the source. Line is 1-based, Column is a 0-based
// byte offset within the line.
type Point struct {
	Line   int
	Column int
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type node struct {
	kind      string
	start     Point
	end       Point
	startByte uint32
	endByte   uint32

	parent      NodeID
	firstChild  NodeID
	lastChild   NodeID
	nextSibling NodeID
}

// Tree is a parsed source file.
type Tree struct {
	lang     Language
	src      []byte
	nodes    []node
	comments []Comment

	// backend is the tree-sitter tree the arena was built from. Queries run
	// against it; nil for trees that cannot be queried.
	backend *sitter.Tree
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() Language { return t.lang }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Kind returns the grammar type of the node (e.g. "method_declaration").
func (t *Tree) Kind(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].kind
}

// Start returns the position of the first byte of the node.
func (t *Tree) Start(id NodeID) Point {
	if !t.valid(id) {
		return Point{}
	}
	return t.nodes[id].start
}

// End returns the position just past the last byte of the node.
func (t *Tree) End(id NodeID) Point {
	if !t.valid(id) {
		return Point{}
	}
	return t.nodes[id].end
}

// Parent returns the parent node.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// FirstChild returns the first child, named or not.
func (t *Tree) FirstChild(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].firstChild
}

// NextSibling returns the next sibling.
func (t *Tree) NextSibling(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].nextSibling
}

// Children returns the direct children of the node in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.FirstChild(id); c != NoNode; c = t.NextSibling(c) {
		out = append(out, c)
	}
	return out
}

// ChildOfKind returns the first direct child of the given kind.
func (t *Tree) ChildOfKind(id NodeID, kind string) NodeID {
	for c := t.FirstChild(id); c != NoNode; c = t.NextSibling(c) {
		if t.nodes[c].kind == kind {
			return c
		}
	}
	return NoNode
}

// Text returns the source text spanned by the node.
func (t *Tree) Text(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	n := t.nodes[id]
	return string(t.src[n.startByte:n.endByte])
}

// LeafText concatenates the text of every leaf below the node, dropping
// whitespace and comments between them. For a qualified name spread over
// several lines this yields "a.b.C".
func (t *Tree) LeafText(id NodeID) string {
	var b strings.Builder
	t.Walk(id, func(n NodeID) bool {
		if isCommentKind(t.nodes[n].kind) {
			return false
		}
		if t.nodes[n].firstChild == NoNode {
			b.WriteString(t.Text(n))
		}
		return true
	})
	return b.String()
}

// DeepestLast returns the node reached by following last-child links from id
// until a leaf is found.
func (t *Tree) DeepestLast(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	for t.nodes[id].lastChild != NoNode {
		id = t.nodes[id].lastChild
	}
	return id
}

// ContainsKind reports whether the subtree rooted at id has a node of the
// given kind, including id itself.
func (t *Tree) ContainsKind(id NodeID, kind string) bool {
	found := false
	t.Walk(id, func(n NodeID) bool {
		if t.nodes[n].kind == kind {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits the subtree rooted at id depth-first in source order.
// Returning false from fn skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !t.valid(id) {
		return
	}
	// Explicit stack: deeply nested expressions can exceed comfortable
	// recursion depth.
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		mark := len(stack)
		for c := t.nodes[n].firstChild; c != NoNode; c = t.nodes[c].nextSibling {
			stack = append(stack, c)
		}
		// Reverse the children just pushed so the first child pops first.
		for i, j := mark, len(stack)-1; i < j; i, j = i+1, j-1 {
			stack[i], stack[j] = stack[j], stack[i]
		}
	}
}
