package rules

import (
	"encoding/json"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityStyle, "style"},
		{SeverityIgnore, "ignore"},
		{Severity(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.s.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"WARN", SeverityWarning, false},
		{" info ", SeverityInfo, false},
		{"style", SeverityStyle, false},
		{"off", SeverityIgnore, false},
		{"fatal", SeverityError, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSeverity(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SeverityInfo)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"info"` {
		t.Errorf("Marshal = %s, want \"info\"", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`""`), &s); err != nil {
		t.Fatal(err)
	}
	if s != SeverityWarning {
		t.Errorf("empty severity decoded to %v, want warning", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSeverity_IsAtLeast(t *testing.T) {
	if !SeverityError.IsAtLeast(SeverityWarning) {
		t.Error("error should be at least warning")
	}
	if SeverityStyle.IsAtLeast(SeverityInfo) {
		t.Error("style should not be at least info")
	}
}
