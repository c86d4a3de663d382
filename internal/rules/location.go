package rules

// Position represents a single point in a source file.
//
// Lines are 1-based, columns are 0-based byte offsets within the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p sorts strictly before other (line, then column).
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Location represents a range in a source file.
//
// Start is inclusive and End is exclusive. A point location has
// End.Line < 0 (unset) or End equals Start.
type Location struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewFileLocation creates a location for file-level issues (no specific line).
// Uses -1 as sentinel since 0 would be invalid (lines are 1-based).
func NewFileLocation(file string) Location {
	return Location{
		File:  file,
		Start: Position{Line: -1, Column: -1},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewLineLocation creates a point location at the start of a line (1-based).
func NewLineLocation(file string, line int) Location {
	return NewPointLocation(file, line, 0)
}

// NewPointLocation creates a point location at line (1-based) and column (0-based).
func NewPointLocation(file string, line, column int) Location {
	return Location{
		File:  file,
		Start: Position{Line: line, Column: column},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewRangeLocation creates a location spanning multiple lines/columns.
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// IsFileLevel returns true if this is a file-level location (no specific line).
func (l Location) IsFileLevel() bool {
	return l.Start.Line < 0
}

// IsPointLocation returns true if this is a single-point location (no range).
func (l Location) IsPointLocation() bool {
	return l.End.Line < 0 || (l.End.Line == l.Start.Line && l.End.Column == l.Start.Column)
}
