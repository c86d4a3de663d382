package tags

import "github.com/wharflab/hush/internal/rules"

// Suppressed reports whether tags, as returned by Scan, suppress v under the
// engine's scope model.
func (e *Engine) Suppressed(tags []Tag, v rules.Violation) bool {
	return e.Decisive(tags, v) != nil
}

// Decisive returns the tag that suppresses v, or nil when v is reported.
func (e *Engine) Decisive(tags []Tag, v rules.Violation) *Tag {
	switch e.cfg.Model {
	case PairedOnOff:
		return e.nearest(tags, v)
	case SingleInfluence:
		return anyInfluence(tags, v)
	case AreaWithFallback:
		return e.lastApplicable(tags, v)
	}
	return nil
}

// reached reports whether the tag position is at or before the violation.
func (e *Engine) reached(t *Tag, v rules.Violation) bool {
	if t.Line != v.Line() {
		return t.Line < v.Line()
	}
	return !e.cfg.UseColumns || t.Column <= v.Column()
}

// nearest finds the last tag at or before v whose predicates match v.
// Only an OFF tag suppresses; an ON tag found nearest means v is reported.
// A violation on the ON tag's own line is therefore outside the region.
func (e *Engine) nearest(tags []Tag, v rules.Violation) *Tag {
	var found *Tag
	for i := range tags {
		t := &tags[i]
		if !e.reached(t, v) {
			break
		}
		if t.Matches(v) {
			found = t
		}
	}
	if found == nil || found.Kind != Off {
		return nil
	}
	return found
}

func anyInfluence(tags []Tag, v rules.Violation) *Tag {
	line := v.Line()
	for i := range tags {
		t := &tags[i]
		if t.FirstLine <= line && line <= t.LastLine && t.Matches(v) {
			return t
		}
	}
	return nil
}

// lastApplicable keeps the last tag whose scope contains v and whose
// predicates match. OFF and ON scopes run from the tag onwards; area scopes
// are bounded by their influence.
func (e *Engine) lastApplicable(tags []Tag, v rules.Violation) *Tag {
	var found *Tag
	line := v.Line()
	for i := range tags {
		t := &tags[i]
		var inScope bool
		if t.Kind == Area {
			inScope = t.FirstLine <= line && line <= t.LastLine
		} else {
			inScope = e.reached(t, v)
		}
		if inScope && t.Matches(v) {
			found = t
		}
	}
	if found == nil || found.Kind == On {
		return nil
	}
	return found
}
