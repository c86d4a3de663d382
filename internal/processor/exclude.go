package processor

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/hush/internal/rules"
)

// PathExclusionFilter removes violations in files matching the
// processing.exclude globs. It runs before suppression, so excluded files
// are never loaded or parsed.
type PathExclusionFilter struct{}

// NewPathExclusionFilter creates a new path exclusion filter processor.
func NewPathExclusionFilter() *PathExclusionFilter {
	return &PathExclusionFilter{}
}

// Name returns the processor's identifier.
func (p *PathExclusionFilter) Name() string {
	return "path-exclusion-filter"
}

// Process filters out violations for files that match exclusion patterns.
func (p *PathExclusionFilter) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	patterns := ctx.Config.Processing.Exclude
	if len(patterns) == 0 {
		return violations
	}
	return filterViolations(violations, func(v rules.Violation) bool {
		for _, pattern := range patterns {
			matched, err := doublestar.Match(pattern, v.Location.File)
			if err != nil {
				// Invalid pattern - skip this check
				continue
			}
			if matched {
				return false // excluded
			}
		}
		return true
	})
}

// ValidateGlobs reports the first malformed exclusion pattern.
func ValidateGlobs(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return doublestar.ErrBadPattern
		}
	}
	return nil
}
