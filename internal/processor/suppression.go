package processor

import (
	"fmt"

	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/suppress"
)

// Suppression runs the violations of one file through a suppression session.
//
// Unlike the other processors it is built per file: the session carries the
// file's cached tag, annotation and query state. A rule error stops the file;
// Err reports it and Process returns no violations for that file.
type Suppression struct {
	session *suppress.Session
	file    *suppress.File

	suppressed []rules.SuppressedViolation
	err        error
}

// NewSuppression creates a suppression processor for file.
func NewSuppression(session *suppress.Session, file *suppress.File) *Suppression {
	return &Suppression{session: session, file: file}
}

// Name returns the processor's identifier.
func (p *Suppression) Name() string {
	return "suppression"
}

// Process keeps the violations the engine accepts.
func (p *Suppression) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	p.session.BeginFile(p.file)
	kept := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		d, err := p.session.Decide(v)
		if err != nil {
			p.err = fmt.Errorf("%s:%d: %w", v.File(), v.Line(), err)
			p.suppressed = nil
			return nil
		}
		if d.Accepted {
			kept = append(kept, v)
			continue
		}
		p.suppressed = append(p.suppressed, rules.SuppressedViolation{Violation: v, RuleSet: d.Set, Rule: d.Rule})
	}
	return kept
}

// Suppressed returns the violations dropped by the last Process call.
func (p *Suppression) Suppressed() []rules.SuppressedViolation {
	return p.suppressed
}

// Err returns the rule error that stopped the last Process call.
func (p *Suppression) Err() error {
	return p.err
}
