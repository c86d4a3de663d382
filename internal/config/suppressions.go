package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"

	"github.com/wharflab/hush/internal/errdef"
)

// suppressionsDoc is the shape of an external suppressions file:
//
//	[[suppress]]
//	files = "Generated\\.java$"
//	checks = ".*"
//
// or, in YAML:
//
//	suppress:
//	  - files: Generated\.java$
//	    checks: .*
type suppressionsDoc struct {
	Suppress []AttributeRuleConfig `toml:"suppress" yaml:"suppress"`
}

// ResolveSuppressionsPath resolves the suppressions file path against the
// directory of the loaded config file.
func (c *Config) ResolveSuppressionsPath() string {
	p := c.SuppressionsFile.Path
	if p == "" || filepath.IsAbs(p) || c.ConfigFile == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.ConfigFile), p)
}

// LoadSuppressions reads an external suppressions file. The format follows
// the extension: .yaml and .yml are YAML, anything else TOML.
//
// A missing file is a MissingFileError unless optional is set, in which case
// no rules are returned.
func LoadSuppressions(path string, optional bool) ([]AttributeRuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if optional {
				return nil, nil
			}
			return nil, &errdef.MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("read suppressions file: %w", err)
	}

	var doc suppressionsDoc
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errdef.NewConfigError("suppressions-file", "path", path, err)
	}
	return doc.Suppress, nil
}
