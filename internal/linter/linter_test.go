package linter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/hush/internal/config"
	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/rules"
)

const quietSource = `package com.example;

class Quiet {
    // hush:off
    int a = 1;
    // hush:on
    int b = 2;
}
`

func TestReadViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, vs []rules.Violation)
	}{
		{
			name:  "array",
			input: `[{"file":"A.java","line":3,"column":4,"rule":"MagicNumber","message":"m","severity":"error"}]`,
			check: func(t *testing.T, vs []rules.Violation) {
				require.Len(t, vs, 1)
				assert.Equal(t, "A.java", vs[0].File())
				assert.Equal(t, 3, vs[0].Line())
				assert.Equal(t, 4, vs[0].Column())
				assert.Equal(t, rules.SeverityError, vs[0].Severity)
				assert.True(t, vs[0].Location.IsPointLocation())
			},
		},
		{
			name: "object",
			input: `{"violations":[
				{"file":"A.java","line":1,"rule":"X","module":"m1","message":"m"},
				{"file":"A.java","line":2,"rule":"Y","message":"m","node":{"kind":"identifier","line":2,"column":8}}
			]}`,
			check: func(t *testing.T, vs []rules.Violation) {
				require.Len(t, vs, 2)
				assert.Equal(t, "m1", vs[0].ModuleID)
				assert.Equal(t, rules.SeverityWarning, vs[0].Severity, "severity defaults to warning")
				require.NotNil(t, vs[1].Node)
				assert.Equal(t, rules.NodeRef{Kind: "identifier", Line: 2, Column: 8}, *vs[1].Node)
			},
		},
		{
			name:  "file level and range",
			input: `[{"file":"A.java","rule":"NewlineAtEnd"},{"file":"A.java","line":1,"endLine":3,"endColumn":1,"rule":"Len"}]`,
			check: func(t *testing.T, vs []rules.Violation) {
				require.Len(t, vs, 2)
				assert.True(t, vs[0].Location.IsFileLevel())
				assert.Equal(t, 3, vs[1].Location.End.Line)
			},
		},
		{
			name:  "empty array",
			input: `[]`,
			check: func(t *testing.T, vs []rules.Violation) {
				assert.Empty(t, vs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vs, err := ReadViolations(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.check(t, vs)
		})
	}
}

func TestReadViolations_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ReadViolations(strings.NewReader("  \n"))
	require.ErrorIs(t, err, ErrNoInput)

	_, err = ReadViolations(strings.NewReader(`[{"file":"A.java","line":1,"rule":"X","severity":"fatal"}]`))
	require.ErrorContains(t, err, "violation 1")

	_, err = ReadViolations(strings.NewReader(`[{"file":"A.java","line":1}]`))
	require.ErrorContains(t, err, "missing rule")

	_, err = ReadViolations(strings.NewReader(`{"violations":`))
	require.Error(t, err)
}

func violation(file string, line int, rule string) rules.Violation {
	return rules.NewViolation(rules.NewPointLocation(file, line, 4), rule, "message", rules.SeverityWarning)
}

func TestRun_Suppression(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Processing.Workers = 2
	cfg.Suppress.Comment = []config.CommentRuleConfig{{Name: "tags"}}
	cfg.Suppress.Attribute = []config.AttributeRuleConfig{{Name: "generated", Files: `^gen/`}}

	res, err := Run(context.Background(), Input{
		Config: cfg,
		Violations: []rules.Violation{
			violation("src/Quiet.java", 7, "MagicNumber"),
			violation("src/Quiet.java", 5, "MagicNumber"),
			violation("src/Quiet.java", 5, "MagicNumber"), // duplicate
			violation("gen/Other.java", 1, "Javadoc"),
		},
		Sources: map[string][]byte{
			"src/Quiet.java": []byte(quietSource),
			"gen/Other.java": []byte("class Other {}\n"),
		},
	})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, 2, res.Files)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, 7, res.Violations[0].Line())
	assert.Equal(t, "    int b = 2;", res.Violations[0].SourceCode)

	require.Len(t, res.Suppressed, 2)
	bySet := map[string]string{}
	for _, s := range res.Suppressed {
		bySet[s.File()] = s.Rule
	}
	assert.Equal(t, "tags", bySet["src/Quiet.java"])
	assert.Equal(t, "generated", bySet["gen/Other.java"])
}

func TestRun_Exclusion(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Processing.Exclude = []string{"vendor/**"}

	res, err := Run(context.Background(), Input{
		Config: cfg,
		// The excluded file does not exist, so reading it would fail.
		Violations: []rules.Violation{violation("vendor/lib/A.java", 1, "X")},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Errors)
	assert.Zero(t, res.Files)
}

func TestRun_InvalidExclude(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Processing.Exclude = []string{"[bad"}
	_, err := Run(context.Background(), Input{Config: cfg})
	require.Error(t, err)
}

func TestRun_FileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ok := filepath.Join(dir, "Ok.java")
	require.NoError(t, os.WriteFile(ok, []byte("class Ok {}\n"), 0o644))
	missing := filepath.Join(dir, "Missing.java")

	cfg := config.Default()
	cfg.Suppress.Query = []config.QueryRuleConfig{{Name: "ids", Files: `\.txt$`, Query: "(program) @p"}}

	res, err := Run(context.Background(), Input{
		Config: cfg,
		Violations: []rules.Violation{
			violation(ok, 1, "X"),
			violation(missing, 1, "X"),
			violation("notes.txt", 1, "X").WithNode("program", 1, 0),
		},
		Sources: map[string][]byte{"notes.txt": []byte("plain text\n")},
	})
	require.NoError(t, err)

	require.Len(t, res.Violations, 1)
	assert.Equal(t, filepath.ToSlash(ok), res.Violations[0].File())
	assert.Empty(t, res.Suppressed)

	require.Len(t, res.Errors, 2)
	assert.ErrorIs(t, res.Errors[0], os.ErrNotExist)
	var qe *errdef.QueryEvaluationError
	assert.True(t, errors.As(res.Errors[1], &qe))
	assert.Error(t, res.Err())
}

func TestRun_MaxFileSize(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Processing.MaxFileSize = 4

	res, err := Run(context.Background(), Input{
		Config:     cfg,
		Violations: []rules.Violation{violation("A.java", 1, "X")},
		Sources:    map[string][]byte{"A.java": []byte("class A {}\n")},
	})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Violations)
}

func TestRun_BuildError(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Suppress.Attribute = []config.AttributeRuleConfig{{Name: "bad", Checks: "("}}
	_, err := Run(context.Background(), Input{Config: cfg})
	var ce *errdef.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "checks", ce.Field)
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Processing.Workers = 8
	assert.Equal(t, 3, workerCount(cfg, 3))
	assert.Equal(t, 1, workerCount(cfg, 0))
	cfg.Processing.Workers = 2
	assert.Equal(t, 2, workerCount(cfg, 10))
}
