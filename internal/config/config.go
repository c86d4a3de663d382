// Package config provides configuration loading and discovery for hush.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (HUSH_* prefix)
//  3. Config file (closest .hush.toml or hush.toml)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the target's directory
// until a config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".hush.toml", "hush.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "HUSH_"

// Config represents the complete hush configuration.
type Config struct {
	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// Processing configures how violations and files are processed.
	Processing ProcessingConfig `json:"processing" koanf:"processing"`

	// SuppressionsFile points at an external list of attribute suppressions.
	SuppressionsFile SuppressionsFileConfig `json:"suppressions-file" koanf:"suppressions-file"`

	// Suppress holds the reject-list rules: a violation matching any of them
	// is dropped.
	Suppress SuppressConfig `json:"suppress" koanf:"suppress"`

	// Gate holds the allow-list rules: a violation must pass every gate.
	Gate GateConfig `json:"gate" koanf:"gate"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `json:"show-source,omitempty" koanf:"show-source"`

	// ShowSuppressed also reports suppressed violations in text output.
	ShowSuppressed bool `json:"show-suppressed,omitempty" koanf:"show-suppressed"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level"`
}

// ProcessingConfig configures the audit run.
//
// Example TOML configuration:
//
//	[processing]
//	workers = 4
//	exclude = ["**/generated/**"]
//	max-file-size = 1048576
type ProcessingConfig struct {
	// Workers is the number of files processed in parallel (0 = GOMAXPROCS).
	Workers int `json:"workers,omitempty" koanf:"workers"`

	// Exclude drops violations in files matching any of these globs.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`

	// MaxFileSize is the maximum source file size in bytes (0 = unlimited).
	MaxFileSize int64 `json:"max-file-size,omitempty" koanf:"max-file-size"`
}

// SuppressionsFileConfig configures the external suppressions file.
//
//	[suppressions-file]
//	path = "config/suppressions.yaml"
//	optional = true
type SuppressionsFileConfig struct {
	// Path is resolved relative to the config file when not absolute.
	Path string `json:"path,omitempty" koanf:"path"`

	// Optional turns a missing file into a no-op instead of an error.
	Optional bool `json:"optional,omitempty" koanf:"optional"`
}

// SuppressConfig lists the reject-list rules by kind.
type SuppressConfig struct {
	Attribute  []AttributeRuleConfig  `json:"attribute,omitempty" koanf:"attribute"`
	Comment    []CommentRuleConfig    `json:"comment,omitempty" koanf:"comment"`
	Annotation []AnnotationRuleConfig `json:"annotation,omitempty" koanf:"annotation"`
	Query      []QueryRuleConfig      `json:"query,omitempty" koanf:"query"`
}

// GateConfig lists the allow-list gates.
type GateConfig struct {
	Severity  []SeverityGateConfig  `json:"severity,omitempty" koanf:"severity"`
	Attribute []AttributeGateConfig `json:"attribute,omitempty" koanf:"attribute"`
}

// AttributeRuleConfig matches violations by file, check, message, module id,
// line and column. The same shape is used by the suppressions file.
//
//	[[suppress.attribute]]
//	files = "/generated/"
//	checks = "Javadoc.*"
//	lines = "1-20"
type AttributeRuleConfig struct {
	Name    string `json:"name,omitempty" koanf:"name" toml:"name" yaml:"name"`
	Files   string `json:"files,omitempty" koanf:"files" toml:"files" yaml:"files"`
	Checks  string `json:"checks,omitempty" koanf:"checks" toml:"checks" yaml:"checks"`
	Message string `json:"message,omitempty" koanf:"message" toml:"message" yaml:"message"`
	ID      string `json:"id,omitempty" koanf:"id" toml:"id" yaml:"id"`
	Lines   string `json:"lines,omitempty" koanf:"lines" toml:"lines" yaml:"lines"`
	Columns string `json:"columns,omitempty" koanf:"columns" toml:"columns" yaml:"columns"`
}

// CommentRuleConfig configures a comment tag rule.
//
//	[[suppress.comment]]
//	model = "influence"
//	trigger = 'SUPPRESS CHECKSTYLE (\w+) FOR NEXT (\d+) LINES'
//	checks = "$1"
//	influence = "$2"
type CommentRuleConfig struct {
	Name string `json:"name,omitempty" koanf:"name"`
	// Model is paired, influence or area.
	Model string `json:"model,omitempty" koanf:"model"`
	// Source is tree (parsed comments) or text (raw lines).
	Source string `json:"source,omitempty" koanf:"source"`

	Off     string `json:"off,omitempty" koanf:"off"`
	On      string `json:"on,omitempty" koanf:"on"`
	Trigger string `json:"trigger,omitempty" koanf:"trigger"`

	Checks    string `json:"checks,omitempty" koanf:"checks"`
	Message   string `json:"message,omitempty" koanf:"message"`
	IDFormat  string `json:"id-format,omitempty" koanf:"id-format"`
	Influence string `json:"influence,omitempty" koanf:"influence"`

	// CheckC and CheckCPP default to true when unset.
	CheckC     *bool `json:"check-c,omitempty" koanf:"check-c"`
	CheckCPP   *bool `json:"check-cpp,omitempty" koanf:"check-cpp"`
	UseColumns bool  `json:"use-columns,omitempty" koanf:"use-columns"`
}

// AnnotationRuleConfig configures annotation range suppression.
//
//	[[suppress.annotation]]
//	names = ["SuppressWarnings", "Generated"]
//	exempt = ["Javadoc.*"]
type AnnotationRuleConfig struct {
	Name             string   `json:"name,omitempty" koanf:"name"`
	Names            []string `json:"names,omitempty" koanf:"names"`
	Exempt           []string `json:"exempt,omitempty" koanf:"exempt"`
	ExcludeModifiers bool     `json:"exclude-modifiers,omitempty" koanf:"exclude-modifiers"`
	MatchValues      bool     `json:"match-values,omitempty" koanf:"match-values"`
}

// QueryRuleConfig configures tree query suppression.
//
//	[[suppress.query]]
//	checks = "MagicNumber"
//	query = '(field_declaration (modifiers "static" "final") (variable_declarator value: (_) @v))'
type QueryRuleConfig struct {
	Name     string `json:"name,omitempty" koanf:"name"`
	Files    string `json:"files,omitempty" koanf:"files"`
	Checks   string `json:"checks,omitempty" koanf:"checks"`
	Message  string `json:"message,omitempty" koanf:"message"`
	ID       string `json:"id,omitempty" koanf:"id"`
	Language string `json:"language,omitempty" koanf:"language"`
	Query    string `json:"query,omitempty" koanf:"query"`
}

// SeverityGateConfig keeps or drops violations by severity.
//
//	[[gate.severity]]
//	severity = "info"
//	accept-on-match = false
type SeverityGateConfig struct {
	Name          string `json:"name,omitempty" koanf:"name"`
	Severity      string `json:"severity" koanf:"severity"`
	AcceptOnMatch bool   `json:"accept-on-match,omitempty" koanf:"accept-on-match"`
}

// AttributeGateConfig is an attribute rule used as an allow-list gate.
type AttributeGateConfig struct {
	AttributeRuleConfig `koanf:",squash"`

	AcceptOnMatch bool `json:"accept-on-match,omitempty" koanf:"accept-on-match"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "style", // Any reported violation causes exit code 1
		},
		Processing: ProcessingConfig{
			MaxFileSize: 10 * 1024 * 1024, // 10 MB
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return LoadWithOverrides(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides loads defaults, the config file at configPath (if any),
// the environment and finally overrides, in that order.
//
// Overrides use the same nested shape as the TOML file:
//
//	overrides := map[string]any{
//	  "output": map[string]any{"format": "json"},
//	}
func LoadWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (HUSH_* prefix)
	// HUSH_OUTPUT_FAIL_LEVEL -> output.fail-level
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. CLI overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, ""), nil); err != nil {
			return nil, err
		}
	}

	// 5. Validate merged raw config and decode.
	cfg, err := decodeConfig(k)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
var knownHyphenatedKeys = map[string]string{
	"show.source":       "show-source",
	"show.suppressed":   "show-suppressed",
	"fail.level":        "fail-level",
	"max.file.size":     "max-file-size",
	"suppressions.file": "suppressions-file",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"output":            {},
	"processing":        {},
	"suppressions-file": {},
}

// envKeyTransform converts environment variable names to config keys.
// HUSH_OUTPUT_FORMAT -> output.format
// HUSH_SUPPRESSIONS_FILE_OPTIONAL -> suppressions-file.optional
//
// Rule lists cannot be set from the environment.
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}
	if s == "processing.exclude" {
		return s, strings.Split(v, ",")
	}

	return s, v
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		dir = absPath
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
