package errdef

import (
	"errors"
	"strconv"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	_, cause := strconv.Atoi("x")
	err := NewConfigError("suppress.attribute[0]", "lines", "x", cause)

	assert.True(t, errdefs.IsInvalidArgument(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `lines="x"`)
	assert.Contains(t, err.Error(), "suppress.attribute[0]")

	var target *ConfigError
	assert.True(t, errors.As(error(err), &target))
}

func TestConfigError_NoCause(t *testing.T) {
	err := &ConfigError{Rule: "r"}
	assert.True(t, errdefs.IsInvalidArgument(err))
	assert.Equal(t, "invalid configuration for r", err.Error())
}

func TestPatternError(t *testing.T) {
	cause := errors.New("missing closing )")
	err := &PatternError{Pattern: "(", Err: cause}
	assert.True(t, errdefs.IsInvalidArgument(err))
	assert.ErrorIs(t, err, cause)
}

func TestMissingFileError(t *testing.T) {
	err := &MissingFileError{Path: "suppressions.toml"}
	assert.True(t, errdefs.IsNotFound(err))
	assert.False(t, errdefs.IsInvalidArgument(err))
}

func TestQueryEvaluationError(t *testing.T) {
	err := &QueryEvaluationError{File: "A.java", Query: "(x)", Err: errors.New("boom")}
	assert.True(t, errdefs.IsInternal(err))
	assert.Contains(t, err.Error(), "A.java")
}
