// Package rules defines the violation records that flow through hush:
// where a violation is, which check reported it, and how severe it is.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the severity level of a rule violation.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityError indicates a critical issue that should fail the build.
	SeverityError Severity = iota
	// SeverityWarning indicates a significant issue that may cause problems.
	SeverityWarning
	// SeverityInfo indicates a suggestion or best practice recommendation.
	SeverityInfo
	// SeverityStyle indicates a style/formatting preference.
	SeverityStyle
	// SeverityIgnore marks a violation the checker itself asked to drop.
	// Placed after other severities to avoid zero-value confusion.
	SeverityIgnore
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityStyle:
		return "style"
	case SeverityIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// An empty string decodes to SeverityWarning, the checker default.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = SeverityWarning
		return nil
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity string into a Severity value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "style":
		return SeverityStyle, nil
	case "ignore", "off":
		return SeverityIgnore, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity: %q", s)
	}
}

// IsAtLeast returns true if s is at least as severe as threshold.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s <= threshold
}
