// Package format renders PL/0 programs in canonical layout.
//
// Formatting goes through the parser: the source is parsed, the AST is
// printed back, and the result is normalised. Printing only ever emits the
// tokens the tree was built from, so reparsing formatted output yields the
// same tree.
package format

import (
	"strings"

	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/parser"
)

// Options controls formatting style.
type Options struct {
	// IndentSize is the number of spaces per nesting level.
	IndentSize int
	// PreferTabs indents with one tab per level instead of spaces.
	PreferTabs bool
	// PreserveNewlineStyle keeps CRLF line endings when the input uses them.
	PreserveNewlineStyle bool
	// Lexer configures how the input is scanned.
	Lexer lexer.Options
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{
		IndentSize:           4,
		PreserveNewlineStyle: true,
		Lexer:                lexer.DefaultOptions(),
	}
}

// Source parses src and returns it in canonical layout.
func Source(filename, src string, opts Options) (string, error) {
	program, err := parser.ParseFile(filename, src, opts.Lexer)
	if err != nil {
		return "", err
	}

	out := Program(program, opts)
	if opts.PreserveNewlineStyle && strings.Contains(src, "\r\n") {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}

// FormatText normalises text without parsing it: trailing spaces and tabs
// are trimmed from every line and the text ends in exactly one newline.
// CRLF input keeps CRLF when PreserveNewlineStyle is set.
func FormatText(text string, opts Options) string {
	newline := "\n"
	if opts.PreserveNewlineStyle && strings.Contains(text, "\r\n") {
		newline = "\r\n"
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, newline) + newline
}
