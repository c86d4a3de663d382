// Package processor holds the stages a violation list passes through
// around suppression.
//
// The linter runs two chains. Before files are decided:
//
//	PathNormalization -> PathExclusionFilter -> Deduplication
//
// then one Suppression per file, and after all files are merged:
//
//	Sorting -> SnippetAttachment
package processor

import (
	"github.com/wharflab/hush/internal/config"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/sourcemap"
)

// Processor is one stage. Process must leave its input slice untouched.
type Processor interface {
	Name() string
	Process(violations []rules.Violation, ctx *Context) []rules.Violation
}

// Context is the state shared by the stages of one chain run.
type Context struct {
	Config *config.Config

	// FileSources holds the content of every file that was loaded, keyed by
	// the normalized path.
	FileSources map[string][]byte

	sourceMaps map[string]*sourcemap.SourceMap
}

// NewContext returns a Context. A nil cfg means config.Default().
func NewContext(cfg *config.Config, fileSources map[string][]byte) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Config:      cfg,
		FileSources: fileSources,
		sourceMaps:  make(map[string]*sourcemap.SourceMap),
	}
}

// GetSourceMap returns the line index of file, building it on first use.
// It is nil for files that were never loaded.
func (ctx *Context) GetSourceMap(file string) *sourcemap.SourceMap {
	if sm := ctx.sourceMaps[file]; sm != nil {
		return sm
	}
	src, ok := ctx.FileSources[file]
	if !ok {
		return nil
	}
	sm := sourcemap.New(src)
	ctx.sourceMaps[file] = sm
	return sm
}

// Chain applies processors in order.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

func (c *Chain) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	for _, p := range c.processors {
		violations = p.Process(violations, ctx)
	}
	return violations
}

// Names lists the stage names, for debug logging.
func (c *Chain) Names() []string {
	names := make([]string, len(c.processors))
	for i, p := range c.processors {
		names[i] = p.Name()
	}
	return names
}

func filterViolations(violations []rules.Violation, keep func(v rules.Violation) bool) []rules.Violation {
	out := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func transformViolations(violations []rules.Violation, fn func(v rules.Violation) rules.Violation) []rules.Violation {
	out := make([]rules.Violation, len(violations))
	for i, v := range violations {
		out[i] = fn(v)
	}
	return out
}
