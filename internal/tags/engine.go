package tags

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/sourcemap"
	"github.com/wharflab/hush/internal/syntax"
	"github.com/wharflab/hush/internal/template"
)

// Unbounded is the LastLine of a tag whose scope runs to the end of file.
const Unbounded = math.MaxInt

// Kind is the role of a tag.
type Kind int

const (
	// Off opens a suppressed region.
	Off Kind = iota
	// On closes a suppressed region. It never suppresses on its own.
	On
	// Area is a single trigger with an influence-bounded scope.
	Area
)

func (k Kind) String() string {
	switch k {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return "area"
	}
}

// Tag is one trigger comment found in a file.
type Tag struct {
	Kind Kind
	// Text is the comment line the trigger was found on.
	Text string
	// Line and Column locate the tag. For tree comments Column is where the
	// comment line starts; for text scans it is where the trigger matched.
	Line   int
	Column int
	// FirstLine and LastLine bound the scope. LastLine is Unbounded for
	// regions that are never closed.
	FirstLine int
	LastLine  int

	Check   *regexp.Regexp
	Message *regexp.Regexp
	ID      *regexp.Regexp
}

// Matches reports whether the tag's expanded predicates all match v.
// Every pattern is searched for anywhere in its subject.
func (t *Tag) Matches(v rules.Violation) bool {
	if t.Check != nil && !t.Check.MatchString(v.RuleCode) {
		return false
	}
	if t.ID != nil && (!v.HasModuleID() || !t.ID.MatchString(v.ModuleID)) {
		return false
	}
	if t.Message != nil && !t.Message.MatchString(v.Message) {
		return false
	}
	return true
}

// Engine holds the compiled form of a Config. It is immutable and may be
// shared by concurrent scans.
type Engine struct {
	cfg     Config
	off     *regexp.Regexp
	on      *regexp.Regexp
	trigger *regexp.Regexp
}

// New validates cfg and compiles its trigger patterns.
func New(cfg Config) (*Engine, error) {
	e := &Engine{cfg: cfg}
	var err error

	needPair := cfg.Model == PairedOnOff
	needTrigger := cfg.Model == SingleInfluence || cfg.Model == AreaWithFallback
	if cfg.Model == AreaWithFallback && (cfg.Off != "") != (cfg.On != "") {
		return nil, errdef.NewConfigError(cfg.Name, "off", cfg.Off, errors.New("off and on must be set together"))
	}

	if needPair || cfg.Model == AreaWithFallback {
		if e.off, err = compileTrigger(cfg.Name, "off", cfg.Off, needPair); err != nil {
			return nil, err
		}
		if e.on, err = compileTrigger(cfg.Name, "on", cfg.On, needPair); err != nil {
			return nil, err
		}
	}
	if needTrigger {
		if e.trigger, err = compileTrigger(cfg.Name, "trigger", cfg.Trigger, true); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(cfg.Checks) == "" {
		return nil, errdef.NewConfigError(cfg.Name, "checks", cfg.Checks, errors.New("must not be empty"))
	}
	// Templates without placeholders are fixed patterns and can be
	// validated now; the rest are only known per occurrence.
	for _, f := range []struct{ name, tmpl string }{
		{"checks", cfg.Checks},
		{"message", cfg.Message},
		{"id-format", cfg.ID},
	} {
		if f.tmpl == "" || hasPlaceholder(f.tmpl) {
			continue
		}
		if _, err := regexp.Compile(f.tmpl); err != nil {
			return nil, errdef.NewConfigError(cfg.Name, f.name, f.tmpl, &errdef.PatternError{Pattern: f.tmpl, Err: err})
		}
	}
	if needTrigger && !hasPlaceholder(cfg.Influence) {
		if _, err := strconv.Atoi(strings.TrimSpace(cfg.influence())); err != nil {
			return nil, errdef.NewConfigError(cfg.Name, "influence", cfg.Influence, err)
		}
	}
	if cfg.Source == SourceTree && !cfg.CheckC && !cfg.CheckCPP {
		return nil, errdef.NewConfigError(cfg.Name, "check-c", "false", errors.New("check-c and check-cpp are both disabled"))
	}
	return e, nil
}

var placeholder = regexp.MustCompile(`\$\d`)

// hasPlaceholder reports whether tmpl refers to a capture group. A `$` not
// followed by a digit is a plain regexp anchor.
func hasPlaceholder(tmpl string) bool {
	return placeholder.MatchString(tmpl)
}

func compileTrigger(rule, field, pattern string, required bool) (*regexp.Regexp, error) {
	if pattern == "" {
		if required {
			return nil, errdef.NewConfigError(rule, field, pattern, errors.New("pattern is required"))
		}
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errdef.NewConfigError(rule, field, pattern, &errdef.PatternError{Pattern: pattern, Err: err})
	}
	return re, nil
}

func (c Config) influence() string {
	if strings.TrimSpace(c.Influence) == "" {
		return DefaultInfluence
	}
	return c.Influence
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() Config { return e.cfg }

// candidate is a trigger occurrence before template expansion.
type candidate struct {
	kind   Kind
	line   int
	column int
	text   string
	re     *regexp.Regexp
}

// Scan extracts the tags of one file, sorted by position. Tree comments are
// read from tree, raw lines from text; either may be nil when the selected
// source does not need it, in which case no tags are found.
//
// Expansion errors surface here, the first time a file is scanned, as a
// ConfigError wrapping a PatternError.
func (e *Engine) Scan(tree *syntax.Tree, text *sourcemap.SourceMap) ([]Tag, error) {
	var cands []candidate
	switch e.cfg.Source {
	case SourceText:
		cands = e.scanText(text)
	default:
		cands = e.scanTree(tree)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.line != b.line {
			return a.line - b.line
		}
		return a.column - b.column
	})

	out := make([]Tag, 0, len(cands))
	for _, c := range cands {
		tag, err := e.expand(c)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	if e.cfg.Model == PairedOnOff || e.cfg.Model == AreaWithFallback {
		closeRegions(out)
	}
	return out, nil
}

func (e *Engine) scanTree(tree *syntax.Tree) []candidate {
	if tree == nil {
		return nil
	}
	var out []candidate
	for _, c := range tree.Comments() {
		if c.Kind == syntax.LineComment && !e.cfg.CheckCPP {
			continue
		}
		if c.Kind == syntax.BlockComment && !e.cfg.CheckC {
			continue
		}
		for _, l := range c.Lines() {
			if cand, ok := e.classify(l.Text); ok {
				cand.line, cand.column, cand.text = l.Line, l.Column, l.Text
				out = append(out, cand)
			}
		}
	}
	return out
}

// classify checks a comment line against the triggers. OFF wins over ON,
// ON over an area trigger.
// triggers returns the patterns in precedence order: OFF, then ON, then the
// area trigger. Absent patterns are nil.
func (e *Engine) triggers() ([]*regexp.Regexp, []Kind) {
	return []*regexp.Regexp{e.off, e.on, e.trigger}, []Kind{Off, On, Area}
}

// classify picks the first trigger, in precedence order, that matches text.
// A line yields at most one tag.
func (e *Engine) classify(text string) (candidate, bool) {
	patterns, kinds := e.triggers()
	for i, re := range patterns {
		if re != nil && re.MatchString(text) {
			return candidate{kind: kinds[i], re: re}, true
		}
	}
	return candidate{}, false
}

func (e *Engine) scanText(text *sourcemap.SourceMap) []candidate {
	if text == nil {
		return nil
	}
	patterns, kinds := e.triggers()
	var out []candidate
	for _, m := range text.Scan(patterns...) {
		out = append(out, candidate{
			kind:   kinds[m.Pattern],
			line:   m.Line,
			column: m.Column,
			text:   m.Text,
			re:     patterns[m.Pattern],
		})
	}
	return out
}

func (e *Engine) expand(c candidate) (Tag, error) {
	tag := Tag{
		Kind:      c.kind,
		Text:      c.text,
		Line:      c.line,
		Column:    c.column,
		FirstLine: c.line,
		LastLine:  Unbounded,
	}

	var err error
	if tag.Check, err = e.expandPattern("checks", e.cfg.Checks, c); err != nil {
		return Tag{}, err
	}
	if tag.Message, err = e.expandPattern("message", e.cfg.Message, c); err != nil {
		return Tag{}, err
	}
	if tag.ID, err = e.expandPattern("id-format", e.cfg.ID, c); err != nil {
		return Tag{}, err
	}

	if c.kind == Area {
		influence, err := template.ExpandInt(e.cfg.influence(), c.text, c.re)
		if err != nil {
			return Tag{}, errdef.NewConfigError(e.cfg.Name, "influence", e.cfg.Influence, err)
		}
		tag.FirstLine = c.line + min(0, influence)
		tag.LastLine = c.line + max(0, influence)
	}
	return tag, nil
}

func (e *Engine) expandPattern(field, tmpl string, c candidate) (*regexp.Regexp, error) {
	if tmpl == "" {
		return nil, nil
	}
	re, err := template.ExpandRegexp(tmpl, c.text, c.re)
	if err != nil {
		return nil, errdef.NewConfigError(e.cfg.Name, field, tmpl, err)
	}
	return re, nil
}

// closeRegions bounds each OFF tag by the ON tag that closes it. An ON tag
// closes the most recent OFF tag still open. The bound is informational:
// resolution always looks for the nearest tag.
func closeRegions(tags []Tag) {
	var open []int
	for i := range tags {
		switch tags[i].Kind {
		case Off:
			open = append(open, i)
		case On:
			if len(open) == 0 {
				continue
			}
			last := open[len(open)-1]
			open = open[:len(open)-1]
			tags[last].LastLine = max(tags[last].Line, tags[i].Line-1)
		}
	}
}
