// Package position provides source position tracking for the PL/0 front end.
// Tokens, AST nodes and diagnostics all report locations through this package.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// Span represents a range of source code between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// String returns a string representation of the span
func (s Span) String() string {
	prefix := ""
	if s.Start.Filename != "" {
		prefix = filepath.Base(s.Start.Filename) + ":"
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s%d:%d-%d", prefix, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s%d:%d-%d:%d", prefix, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if s.Start.Filename != other.Start.Filename {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if end.Before(other.End) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// SourceFile holds a source text together with an index of line starts,
// so byte offsets can be mapped to line/column pairs without rescanning.
type SourceFile struct {
	Filename string
	Content  string
	Lines    []string

	lineStarts []int
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &SourceFile{
		Filename:   filename,
		Content:    content,
		Lines:      strings.Split(content, "\n"),
		lineStarts: starts,
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid.
// A trailing carriage return is stripped.
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return strings.TrimSuffix(sf.Lines[lineNum-1], "\r")
}

// PositionFromOffset converts a byte offset to a Position.
// Offsets past the end of the content are clamped to the end.
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}

	// Index of the last line start <= offset.
	line := sort.Search(len(sf.lineStarts), func(i int) bool {
		return sf.lineStarts[i] > offset
	}) - 1

	return Position{
		Filename: sf.Filename,
		Line:     line + 1,
		Column:   offset - sf.lineStarts[line] + 1,
		Offset:   offset,
	}
}

// SpanFromOffsets builds a span covering content[start:end].
func (sf *SourceFile) SpanFromOffsets(start, end int) Span {
	return Span{
		Start: sf.PositionFromOffset(start),
		End:   sf.PositionFromOffset(end),
	}
}

// LineCount returns the number of lines in the file
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}
