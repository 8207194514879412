package position

import (
	"fmt"
	"strings"
)

// SpanHighlighter renders source excerpts with the highlighted span
// marked by carets underneath.
type SpanHighlighter struct {
	file *SourceFile

	// ContextLines is the number of lines shown before and after the span.
	ContextLines int
}

// NewSpanHighlighter creates a new span highlighter for file.
func NewSpanHighlighter(file *SourceFile) *SpanHighlighter {
	return &SpanHighlighter{
		file:         file,
		ContextLines: 1,
	}
}

// HighlightSpan returns the lines around span with the span marked.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if sh.file == nil || !span.Start.IsValid() {
		return ""
	}

	end := span.End
	if !end.IsValid() || end.Offset <= span.Start.Offset {
		// Zero-width spans (end of input) still get a single caret.
		end = Position{
			Filename: span.Start.Filename,
			Line:     span.Start.Line,
			Column:   span.Start.Column + 1,
			Offset:   span.Start.Offset + 1,
		}
	}

	var result strings.Builder

	startLine := max(1, span.Start.Line-sh.ContextLines)
	endLine := min(sh.file.LineCount(), end.Line+sh.ContextLines)

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		line := sh.file.GetLine(lineNum)
		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))

		if lineNum >= span.Start.Line && lineNum <= end.Line {
			sh.addHighlighting(&result, lineNum, line, span.Start, end)
		}
	}

	return result.String()
}

// HighlightPosition marks the single character at pos.
func (sh *SpanHighlighter) HighlightPosition(pos Position) string {
	return sh.HighlightSpan(Span{Start: pos, End: pos})
}

func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, lineNum int, line string, start, end Position) {
	result.WriteString("     | ")

	switch {
	case lineNum == start.Line && lineNum == end.Line:
		sh.addSingleLineHighlight(result, line, start.Column, end.Column)
	case lineNum == start.Line:
		sh.addSingleLineHighlight(result, line, start.Column, len(line)+1)
	case lineNum == end.Line:
		sh.addSingleLineHighlight(result, line, 1, end.Column)
	default:
		sh.addSingleLineHighlight(result, line, 1, len(line)+1)
	}

	result.WriteString("\n")
}

// addSingleLineHighlight writes carets between the given byte columns.
// Tabs before the span are echoed so the carets line up.
func (sh *SpanHighlighter) addSingleLineHighlight(result *strings.Builder, line string, startCol, endCol int) {
	for i := 1; i < startCol; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}

	// A caret is always drawn, even past the end of the line.
	result.WriteString(strings.Repeat("^", max(1, endCol-startCol)))
}
