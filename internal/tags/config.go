// Package tags finds suppression tags in source comments and decides whether
// a violation falls inside the scope of one.
//
// A tag is a comment matching one of the configured trigger patterns. Each
// tag carries its own check, message and id patterns, expanded from the
// configured templates with the tag's capture groups, so a single trigger
// such as `SUPPRESS (\w+) FOR (\d+) LINES` can name the check and the scope
// width per occurrence.
package tags

import (
	"fmt"
	"strings"
)

// Model selects how tag scopes are computed.
type Model int

const (
	// PairedOnOff opens a region at an OFF tag and ends it at the next ON tag.
	PairedOnOff Model = iota
	// SingleInfluence gives every trigger a scope of its own line widened by
	// the influence offset.
	SingleInfluence
	// AreaWithFallback mixes unbounded OFF/ON regions with influence-bounded
	// area triggers; the last applicable tag decides.
	AreaWithFallback
)

var modelNames = map[string]Model{
	"paired":    PairedOnOff,
	"on-off":    PairedOnOff,
	"influence": SingleInfluence,
	"nearby":    SingleInfluence,
	"area":      AreaWithFallback,
}

// ParseModel parses a model name from configuration.
func ParseModel(name string) (Model, error) {
	m, ok := modelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown scope model %q (want paired, influence or area)", name)
	}
	return m, nil
}

func (m Model) String() string {
	switch m {
	case PairedOnOff:
		return "paired"
	case SingleInfluence:
		return "influence"
	case AreaWithFallback:
		return "area"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Source selects where comments are read from.
type Source int

const (
	// SourceTree reads comments from the parsed syntax tree.
	SourceTree Source = iota
	// SourceText scans raw file lines; works for any file type.
	SourceText
)

// ParseSource parses a comment source name from configuration.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tree":
		return SourceTree, nil
	case "text":
		return SourceText, nil
	default:
		return 0, fmt.Errorf("unknown comment source %q (want tree or text)", name)
	}
}

func (s Source) String() string {
	if s == SourceText {
		return "text"
	}
	return "tree"
}

// Default trigger vocabulary.
const (
	DefaultOff       = `hush:off`
	DefaultOn        = `hush:on`
	DefaultTrigger   = `hush:ignore`
	DefaultChecks    = `.*`
	DefaultInfluence = "0"
)

// Config holds the parameters of one comment tag rule. Off, On, Trigger
// are regular expressions; Checks, Message, ID and Influence are templates
// that may refer to the trigger's capture groups as $1, $2 ...
type Config struct {
	// Name identifies the rule in errors and logs.
	Name   string
	Model  Model
	Source Source

	Off     string
	On      string
	Trigger string

	Checks    string
	Message   string
	ID        string
	Influence string

	// CheckC scans block comments, CheckCPP single-line comments.
	// Only used with SourceTree.
	CheckC   bool
	CheckCPP bool

	// UseColumns compares tag and violation positions by line and column
	// instead of by line alone.
	UseColumns bool
}

// DefaultConfig returns the default parameters for a model.
func DefaultConfig(model Model) Config {
	cfg := Config{
		Model:     model,
		Source:    SourceTree,
		Checks:    DefaultChecks,
		Influence: DefaultInfluence,
		CheckC:    true,
		CheckCPP:  true,
	}
	switch model {
	case PairedOnOff:
		cfg.Off, cfg.On = DefaultOff, DefaultOn
	case SingleInfluence:
		cfg.Trigger = DefaultTrigger
	case AreaWithFallback:
		cfg.Off, cfg.On, cfg.Trigger = DefaultOff, DefaultOn, DefaultTrigger
	}
	return cfg
}
