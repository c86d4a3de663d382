// Package sourcemap provides line-indexed access to file text: line lookup,
// snippet extraction, and pattern scans over raw lines for plain-text
// suppression comments.
package sourcemap

import (
	"bytes"
	"regexp"
	"strings"
)

// SourceMap provides efficient access to source code by line.
//
// Index-based methods (Line, Snippet) are 0-based; methods named after
// reported positions (TextLine, Scan) use 1-based lines like violations do.
type SourceMap struct {
	// lines are the individual lines (without line endings).
	lines []string
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		lines[i] = strings.TrimSuffix(string(line), "\r")
	}
	return &SourceMap{lines: lines}
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// TextLine returns the text of a 1-based line.
func (sm *SourceMap) TextLine(line int) string {
	return sm.Line(line - 1)
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
// Returns empty string if range is invalid.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// LineMatch is a pattern occurrence found by Scan.
type LineMatch struct {
	// Line is the 1-based line number.
	Line int
	// Column is the 0-based byte offset of the match start.
	Column int
	// Text is the full line text.
	Text string
	// Pattern is the index of the matching pattern in the Scan arguments.
	Pattern int
}

// Scan returns at most one match per line, in line order: the first pattern,
// in argument order, that matches the line. Nil patterns are skipped.
func (sm *SourceMap) Scan(patterns ...*regexp.Regexp) []LineMatch {
	var out []LineMatch
	for i, line := range sm.lines {
		for p, re := range patterns {
			if re == nil {
				continue
			}
			if loc := re.FindStringIndex(line); loc != nil {
				out = append(out, LineMatch{Line: i + 1, Column: loc[0], Text: line, Pattern: p})
				break
			}
		}
	}
	return out
}
