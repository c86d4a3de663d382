package processor

import (
	"fmt"
	"path/filepath"

	"github.com/wharflab/hush/internal/rules"
)

// Deduplication removes duplicate violations.
// Two violations are duplicates if they share file, position, rule, module
// id and message. Checkers that run a rule twice (or report the same node from
// two visitors) otherwise produce identical lines in the output.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

// Process removes duplicate violations.
// Keeps the first occurrence of each unique violation.
func (p *Deduplication) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	seen := make(map[string]bool)
	return filterViolations(violations, func(v rules.Violation) bool {
		// Normalize path for cross-platform deduplication
		key := fmt.Sprintf("%s:%d:%d:%s:%s:%s",
			filepath.ToSlash(v.Location.File), v.Location.Start.Line, v.Location.Start.Column,
			v.RuleCode, v.ModuleID, v.Message)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
