package processor

import (
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/sourcemap"
)

// SnippetAttachment copies the reported lines of each surviving violation
// into SourceCode. Violations with no line, or whose file was never loaded,
// are left alone.
type SnippetAttachment struct{}

// NewSnippetAttachment creates a new snippet attachment processor.
func NewSnippetAttachment() *SnippetAttachment {
	return &SnippetAttachment{}
}

func (p *SnippetAttachment) Name() string {
	return "snippet-attachment"
}

func (p *SnippetAttachment) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		if v.SourceCode != "" || v.Location.IsFileLevel() {
			return v
		}
		if sm := ctx.GetSourceMap(v.Location.File); sm != nil {
			v.SourceCode = snippetFor(sm, v.Location)
		}
		return v
	})
}

// snippetFor returns the lines covered by loc. A range ending at column 0
// of a later line stops on the line before it.
func snippetFor(sm *sourcemap.SourceMap, loc rules.Location) string {
	first := loc.Start.Line
	if first < 1 {
		return ""
	}
	if loc.IsPointLocation() {
		return sm.TextLine(first)
	}
	last := loc.End.Line
	if loc.End.Column == 0 && last > first {
		last--
	}
	return sm.Snippet(first-1, last-1)
}
