// Package template instantiates capture-group templates.
//
// A trigger pattern such as `SUPPRESS CHECKSTYLE (\w+) FOR NEXT (\d+) LINES`
// is matched against a comment; a template such as "$1" or "+$2" is then
// filled with the captured text, yielding a per-occurrence check pattern or
// influence value without per-occurrence configuration.
package template

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wharflab/hush/internal/errdef"
)

// Expand runs re against text and replaces every `$<digits>` sequence in
// tmpl with the corresponding capture group (group 0 is the whole match).
// The longest digit run is used as the group number; sequences naming a
// group that does not exist are left as literal text. Groups that did not
// participate in the match expand to the empty string.
//
// If re does not match text the template is returned unchanged.
func Expand(tmpl, text string, re *regexp.Regexp) string {
	if re == nil || !strings.Contains(tmpl, "$") {
		return tmpl
	}
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			i++
			continue
		}
		n, err := strconv.Atoi(tmpl[i+1 : j])
		if err != nil || n >= len(groups) {
			b.WriteString(tmpl[i:j])
		} else {
			b.WriteString(groups[n])
		}
		i = j
	}
	return b.String()
}

// ExpandRegexp expands tmpl and compiles the result.
func ExpandRegexp(tmpl, text string, re *regexp.Regexp) (*regexp.Regexp, error) {
	expanded := Expand(tmpl, text, re)
	compiled, err := regexp.Compile(expanded)
	if err != nil {
		return nil, &errdef.PatternError{Pattern: expanded, Err: err}
	}
	return compiled, nil
}

// ExpandInt expands tmpl and parses the result as a signed integer.
// A leading '+' is accepted.
func ExpandInt(tmpl, text string, re *regexp.Regexp) (int, error) {
	expanded := strings.TrimSpace(Expand(tmpl, text, re))
	n, err := strconv.Atoi(expanded)
	if err != nil {
		return 0, &errdef.PatternError{Pattern: expanded, Err: err}
	}
	return n, nil
}
