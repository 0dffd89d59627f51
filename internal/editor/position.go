package editor

import "fmt"

// ByteOffset represents a byte position in a buffer.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Selection represents a contiguous byte range in a buffer.
// Start is the primary end of the selection; an empty selection
// (Start == End) is a bare cursor.
type Selection struct {
	Start ByteOffset
	End   ByteOffset
}

// IsEmpty returns true if the selection covers no text.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Len returns the number of bytes covered by the selection.
func (s Selection) Len() ByteOffset {
	if s.End < s.Start {
		return s.Start - s.End
	}
	return s.End - s.Start
}

// Normalized returns the selection with Start <= End.
func (s Selection) Normalized() Selection {
	if s.End < s.Start {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}
