// Package intrange parses comma-separated integer lists such as "1,7-15,18"
// into a membership predicate. It backs the line and column filters of
// attribute suppression rules.
package intrange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Element is a single value or an inclusive range. A single value n is
// stored as Lo == Hi == n.
type Element struct {
	Lo int
	Hi int
}

// Contains reports whether n lies within the element.
func (e Element) Contains(n int) bool {
	return e.Lo <= n && n <= e.Hi
}

func (e Element) String() string {
	if e.Lo == e.Hi {
		return strconv.Itoa(e.Lo)
	}
	return strconv.Itoa(e.Lo) + "-" + strconv.Itoa(e.Hi)
}

// Set is an immutable ordered list of elements.
type Set struct {
	elems []Element
}

// ErrEmptyToken is returned for inputs such as "1,,2".
var ErrEmptyToken = errors.New("empty token")

// Parse builds a Set from a CSV string. Whitespace around tokens is ignored.
// An empty input yields an empty set that contains nothing.
//
// A token is an integer ("7") or a range ("7-15"). Negative values are
// accepted as single tokens ("-3"); a range whose low bound is negative is
// written with the minus sign first ("-3-4"). A range with lo > hi is an error.
func Parse(csv string) (*Set, error) {
	s := &Set{}
	if strings.TrimSpace(csv) == "" {
		return s, nil
	}
	for token := range strings.SplitSeq(csv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("parse %q: %w", csv, ErrEmptyToken)
		}
		elem, err := parseToken(token)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", csv, err)
		}
		s.elems = append(s.elems, elem)
	}
	return s, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level defaults.
func MustParse(csv string) *Set {
	s, err := Parse(csv)
	if err != nil {
		panic(err)
	}
	return s
}

func parseToken(token string) (Element, error) {
	// Skip a leading sign so "-3" is read as a value, not a range.
	sep := strings.IndexByte(token[1:], '-')
	if sep < 0 {
		n, err := strconv.Atoi(token)
		if err != nil {
			return Element{}, err
		}
		return Element{Lo: n, Hi: n}, nil
	}
	sep++

	lo, err := strconv.Atoi(strings.TrimSpace(token[:sep]))
	if err != nil {
		return Element{}, err
	}
	hi, err := strconv.Atoi(strings.TrimSpace(token[sep+1:]))
	if err != nil {
		return Element{}, err
	}
	if lo > hi {
		return Element{}, fmt.Errorf("invalid range %q: %d > %d", token, lo, hi)
	}
	return Element{Lo: lo, Hi: hi}, nil
}

// Contains reports whether n is a member of the set. A nil set contains nothing.
func (s *Set) Contains(n int) bool {
	if s == nil {
		return false
	}
	for _, e := range s.elems {
		if e.Contains(n) {
			return true
		}
	}
	return false
}

// Elements returns a copy of the parsed elements in input order.
func (s *Set) Elements() []Element {
	if s == nil {
		return nil
	}
	out := make([]Element, len(s.elems))
	copy(out, s.elems)
	return out
}

// Len returns the number of elements.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

func (s *Set) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}
