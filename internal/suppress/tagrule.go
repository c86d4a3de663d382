package suppress

import (
	"github.com/sirupsen/logrus"

	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/tags"
)

// TagRule suppresses violations covered by comment tags.
type TagRule struct {
	engine *tags.Engine
	log    logrus.FieldLogger
}

// NewTagRule builds a comment tag rule. cfg is validated here; template
// expansion errors surface when a file is first bound.
func NewTagRule(cfg tags.Config, log logrus.FieldLogger) (*TagRule, error) {
	e, err := tags.New(cfg)
	if err != nil {
		return nil, err
	}
	return &TagRule{engine: e, log: orDiscard(log)}, nil
}

// Name implements Rule.
func (r *TagRule) Name() string { return r.engine.Config().Name }

// Engine returns the underlying tag engine.
func (r *TagRule) Engine() *tags.Engine { return r.engine }

// Bind scans the comments of f once.
func (r *TagRule) Bind(f *File) (Matcher, error) {
	if f == nil {
		return predicate(func(rules.Violation) bool { return false }), nil
	}
	found, err := r.engine.Scan(f.Tree, f.Text)
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{"file": f.Path, "rule": r.Name(), "tags": len(found)}).Debug("scanned comment tags")
	return predicate(func(v rules.Violation) bool {
		return r.engine.Suppressed(found, v)
	}), nil
}
