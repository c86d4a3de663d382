package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/suppress"
	"github.com/wharflab/hush/internal/tags"
)

// Rule set names, in chain order.
const (
	SetSeverityGates    = "gate.severity"
	SetAttributeGates   = "gate.attribute"
	SetSuppressionsFile = "suppressions-file"
	SetAttribute        = "suppress.attribute"
	SetComment          = "suppress.comment"
	SetAnnotation       = "suppress.annotation"
	SetQuery            = "suppress.query"
)

// BuildEngine turns the typed rule blocks of cfg into a suppression engine.
// Rules are validated in file order; the first invalid field is returned as
// a ConfigError. The suppressions file, if configured, is read here.
func BuildEngine(cfg *Config, log logrus.FieldLogger) (*suppress.Engine, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	b := &builder{log: log}

	severityGates := b.severityGates(cfg.Gate.Severity)
	attributeGates := b.attributeGates(cfg.Gate.Attribute)
	fileRules := b.suppressionsFile(cfg)
	attributes := b.attributes(SetAttribute, cfg.Suppress.Attribute)
	comments := b.comments(cfg.Suppress.Comment)
	annotations := b.annotations(cfg.Suppress.Annotation)
	queries := b.queries(cfg.Suppress.Query)
	if b.err != nil {
		return nil, b.err
	}

	e := suppress.New(
		suppress.NewAllowList(SetSeverityGates, severityGates...),
		suppress.NewAllowList(SetAttributeGates, attributeGates...),
		suppress.NewRejectList(SetSuppressionsFile, fileRules...),
		suppress.NewRejectList(SetAttribute, attributes...),
		suppress.NewRejectList(SetComment, comments...),
		suppress.NewRejectList(SetAnnotation, annotations...),
		suppress.NewRejectList(SetQuery, queries...),
	)
	fields := logrus.Fields{}
	for _, s := range e.Sets() {
		if s.Len() > 0 {
			fields[s.Name()] = s.Len()
		}
	}
	log.WithFields(fields).Debug("built suppression engine")
	return e, nil
}

// builder records the first error and turns later steps into no-ops.
type builder struct {
	log logrus.FieldLogger
	err error
}

func ruleName(set, name string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s[%d]", set, i+1)
}

func (b *builder) severityGates(in []SeverityGateConfig) []suppress.Gate {
	var out []suppress.Gate
	for i, g := range in {
		if b.err != nil {
			return nil
		}
		r, err := suppress.NewSeverityRule(ruleName(SetSeverityGates, g.Name, i), g.Severity)
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, suppress.Gate{Rule: r, AcceptOnMatch: g.AcceptOnMatch})
	}
	return out
}

func attributeSpec(name string, a AttributeRuleConfig) suppress.AttributeSpec {
	return suppress.AttributeSpec{
		Name:    name,
		Files:   a.Files,
		Checks:  a.Checks,
		Message: a.Message,
		ID:      a.ID,
		Lines:   a.Lines,
		Columns: a.Columns,
	}
}

func (b *builder) attributeGates(in []AttributeGateConfig) []suppress.Gate {
	var out []suppress.Gate
	for i, g := range in {
		if b.err != nil {
			return nil
		}
		r, err := suppress.NewAttributeRule(attributeSpec(ruleName(SetAttributeGates, g.Name, i), g.AttributeRuleConfig))
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, suppress.Gate{Rule: r, AcceptOnMatch: g.AcceptOnMatch})
	}
	return out
}

func (b *builder) attributes(set string, in []AttributeRuleConfig) []suppress.Rule {
	var out []suppress.Rule
	for i, a := range in {
		if b.err != nil {
			return nil
		}
		r, err := suppress.NewAttributeRule(attributeSpec(ruleName(set, a.Name, i), a))
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, r)
	}
	return out
}

func (b *builder) suppressionsFile(cfg *Config) []suppress.Rule {
	if b.err != nil || cfg.SuppressionsFile.Path == "" {
		return nil
	}
	path := cfg.ResolveSuppressionsPath()
	if cfg.SuppressionsFile.Optional && !fileExists(path) {
		b.log.WithField("file", path).Info("optional suppressions file not found")
		return nil
	}
	rows, err := LoadSuppressions(path, cfg.SuppressionsFile.Optional)
	if err != nil {
		b.err = err
		return nil
	}
	return b.attributes(SetSuppressionsFile, rows)
}

// CommentConfig converts a comment rule block to a tags.Config, applying
// the model defaults for unset fields.
func CommentConfig(name string, c CommentRuleConfig) (tags.Config, error) {
	model := tags.PairedOnOff
	if c.Model != "" {
		var err error
		if model, err = tags.ParseModel(c.Model); err != nil {
			return tags.Config{}, errdef.NewConfigError(name, "model", c.Model, err)
		}
	}
	source, err := tags.ParseSource(c.Source)
	if err != nil {
		return tags.Config{}, errdef.NewConfigError(name, "source", c.Source, err)
	}

	tc := tags.DefaultConfig(model)
	tc.Name = name
	tc.Source = source
	setIfNotEmpty(&tc.Off, c.Off)
	setIfNotEmpty(&tc.On, c.On)
	setIfNotEmpty(&tc.Trigger, c.Trigger)
	setIfNotEmpty(&tc.Checks, c.Checks)
	setIfNotEmpty(&tc.Influence, c.Influence)
	tc.Message = c.Message
	tc.ID = c.IDFormat
	if c.CheckC != nil {
		tc.CheckC = *c.CheckC
	}
	if c.CheckCPP != nil {
		tc.CheckCPP = *c.CheckCPP
	}
	tc.UseColumns = c.UseColumns
	return tc, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (b *builder) comments(in []CommentRuleConfig) []suppress.Rule {
	var out []suppress.Rule
	for i, c := range in {
		if b.err != nil {
			return nil
		}
		tc, err := CommentConfig(ruleName(SetComment, c.Name, i), c)
		if err != nil {
			b.err = err
			return nil
		}
		r, err := suppress.NewTagRule(tc, b.log)
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, r)
	}
	return out
}

func (b *builder) annotations(in []AnnotationRuleConfig) []suppress.Rule {
	var out []suppress.Rule
	for i, a := range in {
		if b.err != nil {
			return nil
		}
		r, err := suppress.NewAnnotationRule(suppress.AnnotationSpec{
			Name:             ruleName(SetAnnotation, a.Name, i),
			Names:            a.Names,
			Exempt:           a.Exempt,
			ExcludeModifiers: a.ExcludeModifiers,
			MatchValues:      a.MatchValues,
		}, b.log)
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, r)
	}
	return out
}

func (b *builder) queries(in []QueryRuleConfig) []suppress.Rule {
	var out []suppress.Rule
	for i, q := range in {
		if b.err != nil {
			return nil
		}
		r, err := suppress.NewTreeQueryRule(suppress.QuerySpec{
			Name:     ruleName(SetQuery, q.Name, i),
			Files:    q.Files,
			Checks:   q.Checks,
			Message:  q.Message,
			ID:       q.ID,
			Language: q.Language,
			Query:    q.Query,
		}, b.log)
		if err != nil {
			b.err = err
			return nil
		}
		out = append(out, r)
	}
	return out
}
