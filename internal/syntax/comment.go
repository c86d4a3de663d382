package syntax

import "strings"

// CommentKind distinguishes single-line comments from block comments.
type CommentKind int

const (
	// LineComment is a "//" comment running to the end of its line.
	LineComment CommentKind = iota
	// BlockComment is a "/* ... */" comment, possibly spanning lines.
	BlockComment
)

func (k CommentKind) String() string {
	if k == BlockComment {
		return "block"
	}
	return "line"
}

// Comment is one comment of a parsed file. Text includes the delimiters.
type Comment struct {
	Kind  CommentKind
	Start Point
	End   Point
	Text  string
}

// Lines splits the comment into its source lines. The first line keeps the
// comment's start column; later lines start at column 0.
func (c Comment) Lines() []CommentLine {
	parts := strings.Split(c.Text, "\n")
	out := make([]CommentLine, len(parts))
	for i, p := range parts {
		col := 0
		if i == 0 {
			col = c.Start.Column
		}
		out[i] = CommentLine{Line: c.Start.Line + i, Column: col, Text: strings.TrimSuffix(p, "\r")}
	}
	return out
}

// CommentLine is a single source line of a comment.
type CommentLine struct {
	Line   int
	Column int
	Text   string
}

func isCommentKind(kind string) bool {
	return kind == "comment" || strings.HasSuffix(kind, "_comment")
}

func classifyComment(text string) CommentKind {
	if strings.HasPrefix(text, "/*") {
		return BlockComment
	}
	return LineComment
}

// Comments returns every comment of the file in source order.
// The returned slice must not be modified.
func (t *Tree) Comments() []Comment {
	return t.comments
}

// SingleLineComments maps a line number to the single-line comment that
// starts on it.
func (t *Tree) SingleLineComments() map[int]Comment {
	out := make(map[int]Comment)
	for _, c := range t.comments {
		if c.Kind == LineComment {
			out[c.Start.Line] = c
		}
	}
	return out
}

// BlockComments maps the line a block comment ends on to the block comments
// ending there, in source order.
func (t *Tree) BlockComments() map[int][]Comment {
	out := make(map[int][]Comment)
	for _, c := range t.comments {
		if c.Kind == BlockComment {
			out[c.End.Line] = append(out[c.End.Line], c)
		}
	}
	return out
}
