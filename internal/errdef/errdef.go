// Package errdef defines the error taxonomy of the suppression engine.
//
// Each error type also unwraps to a github.com/containerd/errdefs class, so
// callers that only care about the category can use errdefs.IsInvalidArgument,
// errdefs.IsNotFound or errdefs.IsInternal.
package errdef

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// ConfigError reports an invalid suppression rule parameter.
type ConfigError struct {
	// Rule names the rule being built (e.g. "suppress.comment[1]").
	Rule string
	// Field is the offending parameter name.
	Field string
	// Value is the raw parameter value.
	Value string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	msg := "invalid configuration"
	if e.Rule != "" {
		msg += " for " + e.Rule
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": %s=%q", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{errdefs.ErrInvalidArgument}
	}
	return []error{e.Err, errdefs.ErrInvalidArgument}
}

// NewConfigError builds a ConfigError for a rule field.
func NewConfigError(rule, field, value string, err error) *ConfigError {
	return &ConfigError{Rule: rule, Field: field, Value: value, Err: err}
}

// PatternError reports a pattern that does not compile, or an expanded
// template that is not a valid regular expression or integer.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() []error {
	return []error{e.Err, errdefs.ErrInvalidArgument}
}

// MissingFileError reports a required suppressions file that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("suppressions file not found: %s", e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return errdefs.ErrNotFound
}

// QueryEvaluationError reports a tree query that could not be evaluated
// against a file. It is a hard failure for that file.
type QueryEvaluationError struct {
	File  string
	Query string
	Err   error
}

func (e *QueryEvaluationError) Error() string {
	return fmt.Sprintf("evaluate query %q on %s: %v", e.Query, e.File, e.Err)
}

func (e *QueryEvaluationError) Unwrap() []error {
	return []error{e.Err, errdefs.ErrInternal}
}
