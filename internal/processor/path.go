package processor

import (
	"path"
	"strings"

	"github.com/wharflab/hush/internal/rules"
)

// PathNormalization rewrites reported paths to clean, slash-separated form
// so the same file reported as `src\A.java` and `./src/A.java` groups
// under one key.
type PathNormalization struct{}

func NewPathNormalization() *PathNormalization {
	return &PathNormalization{}
}

func (p *PathNormalization) Name() string {
	return "path-normalization"
}

func (p *PathNormalization) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return transformViolations(violations, func(v rules.Violation) rules.Violation {
		v.Location.File = normalizePath(v.Location.File)
		return v
	})
}

func normalizePath(p string) string {
	if p == "" {
		return p
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}
