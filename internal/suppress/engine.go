package suppress

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/hush/internal/rules"
)

// Engine chains rule sets. The overall decision is the conjunction of the
// decisions of every set, evaluated in chain order.
type Engine struct {
	sets []*RuleSet
}

// New builds an engine from rule sets. Empty sets are kept; they accept
// everything.
func New(sets ...*RuleSet) *Engine {
	return &Engine{sets: sets}
}

// Sets returns the chained rule sets.
func (e *Engine) Sets() []*RuleSet { return e.sets }

// Empty reports whether no rule is configured at all.
func (e *Engine) Empty() bool {
	for _, s := range e.sets {
		if s.Len() > 0 {
			return false
		}
	}
	return true
}

// NewSession starts a session. A nil logger discards output.
func (e *Engine) NewSession(log logrus.FieldLogger) *Session {
	return &Session{
		engine: e,
		log:    orDiscard(log),
		bound:  make(map[Rule]Matcher),
	}
}

// Session evaluates violations for a sequence of files. It caches per-file
// rule state and must not be shared between goroutines.
type Session struct {
	engine *Engine
	log    logrus.FieldLogger

	file  *File
	id    FileID
	bound map[Rule]Matcher
}

// BeginFile makes f the current file. Cached rule state is dropped when the
// identity of f differs from the previous file, and kept otherwise.
func (s *Session) BeginFile(f *File) {
	id := f.ID()
	if s.file != nil && id == s.id {
		s.file = f
		return
	}
	clear(s.bound)
	s.file = f
	s.id = id
}

// File returns the current file.
func (s *Session) File() *File { return s.file }

func (s *Session) matcher(r Rule) (Matcher, error) {
	if m, ok := s.bound[r]; ok {
		return m, nil
	}
	m, err := r.Bind(s.file)
	if err != nil {
		return nil, err
	}
	s.bound[r] = m
	return m, nil
}

func (s *Session) matches(r Rule, v rules.Violation) (bool, error) {
	m, err := s.matcher(r)
	if err != nil {
		return false, err
	}
	return m.Matches(v)
}

// Decide evaluates v against every rule set.
func (s *Session) Decide(v rules.Violation) (Decision, error) {
	for _, set := range s.engine.sets {
		switch set.mode {
		case RejectList:
			for _, r := range set.rules {
				ok, err := s.matches(r, v)
				if err != nil {
					return Decision{}, err
				}
				if ok {
					return s.reject(v, set, r), nil
				}
			}
		case AllowList:
			for _, g := range set.gates {
				ok, err := s.matches(g.Rule, v)
				if err != nil {
					return Decision{}, err
				}
				if ok != g.AcceptOnMatch {
					return s.reject(v, set, g.Rule), nil
				}
			}
		}
	}
	return Decision{Accepted: true}, nil
}

func (s *Session) reject(v rules.Violation, set *RuleSet, r Rule) Decision {
	s.log.WithFields(logrus.Fields{
		"file": v.File(),
		"line": v.Line(),
		"rule": v.RuleCode,
		"set":  set.name,
	}).Debugf("suppressed by %s", r.Name())
	return Decision{Set: set.name, Rule: r.Name()}
}

// Accept reports whether v survives every rule set.
func (s *Session) Accept(v rules.Violation) (bool, error) {
	d, err := s.Decide(v)
	return d.Accepted, err
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
