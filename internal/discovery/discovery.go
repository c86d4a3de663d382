// Package discovery expands command-line inputs into the source files
// `hush tags` scans. An input is a file, a directory searched recursively,
// or a doublestar glob.
package discovery

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures discovery.
type Options struct {
	// Patterns select files inside directories. Defaults to DefaultPatterns.
	Patterns []string

	// Exclude drops matching paths from every kind of input.
	Exclude []string
}

// DefaultPatterns returns the file patterns of the languages with a grammar.
func DefaultPatterns() []string {
	return []string{"*.java", "*.go"}
}

// Discover returns the files matched by inputs, without duplicates, in
// lexical order. Explicit file inputs keep the spelling they were given;
// files found in directories or through globs are absolute.
func Discover(inputs []string, opts Options) ([]string, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}
	d := &discoverer{opts: opts, seen: make(map[string]bool)}
	for _, input := range inputs {
		if err := d.input(input); err != nil {
			return nil, err
		}
	}
	slices.Sort(d.out)
	return d.out, nil
}

type discoverer struct {
	opts Options
	seen map[string]bool
	out  []string
}

func (d *discoverer) input(input string) error {
	// os.Stat on a pattern fails on Windows, so globs skip it.
	if strings.ContainsAny(input, "*?[]") {
		return d.glob(input)
	}
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		return d.directory(input)
	case err == nil:
		return d.add(input, input)
	case os.IsNotExist(err):
		return d.glob(input)
	default:
		return err
	}
}

func (d *discoverer) directory(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, p := range d.opts.Patterns {
		if err := d.glob(filepath.Join(abs, "**", p)); err != nil {
			return err
		}
	}
	return nil
}

func (d *discoverer) glob(pattern string) error {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return err
	}
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return err
		}
		if err := d.add(abs, abs); err != nil {
			return err
		}
	}
	return nil
}

// add records path under its absolute key unless excluded or already seen.
func (d *discoverer) add(path, key string) error {
	abs, err := filepath.Abs(key)
	if err != nil {
		return err
	}
	if d.seen[abs] || Excluded(abs, d.opts.Exclude) {
		return nil
	}
	d.seen[abs] = true
	d.out = append(d.out, path)
	return nil
}

// Excluded reports whether path matches one of the patterns. A pattern is
// tried against the whole slash-separated path, then against every suffix of
// it, so `generated/**` matches a generated directory at any depth and
// `*.bak` matches by base name.
func Excluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(path), filepath.VolumeName(path)), "/")
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		for i := range parts {
			sub := strings.Join(parts[i:], "/")
			if sub == "" {
				continue
			}
			if ok, err := doublestar.Match(pattern, sub); err == nil && ok {
				return true
			}
		}
	}
	return false
}
