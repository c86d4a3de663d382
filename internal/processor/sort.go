package processor

import (
	"github.com/wharflab/hush/internal/reporter"
	"github.com/wharflab/hush/internal/rules"
)

// Sorting orders surviving violations by file, position and rule so the
// report is identical however the workers interleaved.
type Sorting struct{}

func NewSorting() *Sorting {
	return &Sorting{}
}

func (p *Sorting) Name() string {
	return "sorting"
}

func (p *Sorting) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return reporter.SortViolations(violations)
}
