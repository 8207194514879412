package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/parser"
	"github.com/orizon-lang/pl0/internal/position"
)

var (
	ColorError = lipgloss.Color("#EF4444") // Red
	ColorMuted = lipgloss.Color("#6B7280") // Gray
	ColorCaret = lipgloss.Color("#F59E0B") // Amber
)

var (
	locationStyle = lipgloss.NewStyle().Bold(true)
	kindStyle     = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	excerptStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	caretStyle    = lipgloss.NewStyle().Foreground(ColorCaret).Bold(true)
)

// Diagnostic is an error located in a source file.
type Diagnostic struct {
	Kind    string // "lex error", "parse error" or "error"
	Message string
	Span    position.Span
}

// NewDiagnostic extracts the location and message of err.
func NewDiagnostic(err error) Diagnostic {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		msg := lexErr.Message
		if lexErr.Char < 0 {
			msg += ", found end of input"
		} else {
			msg += fmt.Sprintf(", found %q", lexErr.Char)
		}
		return Diagnostic{
			Kind:    "lex error",
			Message: msg,
			Span:    position.Span{Start: lexErr.Pos, End: lexErr.Pos},
		}
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return Diagnostic{
			Kind:    "parse error",
			Message: fmt.Sprintf("expected %s in %s, found %s", parseErr.Expected, parseErr.Rule, parseErr.Found.Describe()),
			Span:    position.Span{Start: parseErr.Pos, End: parseErr.Pos}.Union(parseErr.Found.Span),
		}
	}

	return Diagnostic{Kind: "error", Message: err.Error()}
}

// Header returns "file:line:col: kind: message".
func (d Diagnostic) Header(filename string) string {
	loc := filename
	if d.Span.Start.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", filename, d.Span.Start.Line, d.Span.Start.Column)
	}
	if loc == "" {
		return d.Kind + ": " + d.Message
	}
	return loc + ": " + d.Kind + ": " + d.Message
}

// RenderDiagnostic writes err as a located message followed by the source
// excerpt with the offending token underlined. file may be nil when no
// source is available.
func RenderDiagnostic(w io.Writer, file *position.SourceFile, err error, color bool) error {
	d := NewDiagnostic(err)

	filename := ""
	if file != nil {
		filename = file.Filename
	}

	header := d.Header(filename)
	if color {
		header = styleHeader(d, filename)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if file == nil || !d.Span.Start.IsValid() {
		return nil
	}

	highlighter := position.NewSpanHighlighter(file)
	var excerpt string
	if d.Span.Length() == 0 {
		excerpt = highlighter.HighlightPosition(d.Span.Start)
	} else {
		excerpt = highlighter.HighlightSpan(d.Span)
	}
	if color {
		excerpt = styleExcerpt(excerpt)
	}
	_, err = io.WriteString(w, excerpt)
	return err
}

func styleHeader(d Diagnostic, filename string) string {
	plain := d.Header(filename)
	prefix := strings.TrimSuffix(plain, d.Kind+": "+d.Message)

	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(locationStyle.Render(strings.TrimSuffix(prefix, ": ")))
		sb.WriteString(": ")
	}
	sb.WriteString(kindStyle.Render(d.Kind))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// styleExcerpt dims the gutter and source lines and colours the carets.
func styleExcerpt(excerpt string) string {
	lines := strings.SplitAfter(excerpt, "\n")

	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		if strings.HasPrefix(body, "     | ") && strings.Contains(body, "^") {
			sb.WriteString(excerptStyle.Render("     | "))
			sb.WriteString(caretStyle.Render(strings.TrimPrefix(body, "     | ")))
		} else {
			sb.WriteString(excerptStyle.Render(body))
		}
		if strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
