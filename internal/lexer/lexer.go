// Package lexer implements the PL/0 lexical analyzer.
//
// The lexer is a single byte-offset cursor over an in-memory source string.
// Tokens are produced on demand by Next; callers needing lookahead save the
// cursor with Offset and restore it with Reset.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/orizon-lang/pl0/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// Token types
const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenIdentifier
	TokenKeyword
	TokenOperator
)

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenNumber:     "NUMBER",
	TokenIdentifier: "IDENTIFIER",
	TokenKeyword:    "KEYWORD",
	TokenOperator:   "OPERATOR",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string // spelling of identifiers, keywords, operators and numbers
	Value   int    // numeric value, meaningful only for TokenNumber
	Span    position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenNumber {
		return fmt.Sprintf("{Type: %s, Value: %d, Line: %d, Column: %d}",
			t.Type, t.Value, t.Span.Start.Line, t.Span.Start.Column)
	}
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Span.Start.Line, t.Span.Start.Column)
}

// Is reports whether the token has the given type and spelling.
func (t Token) Is(tt TokenType, literal string) bool {
	return t.Type == tt && t.Literal == literal
}

// Describe returns a short human description used in diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return fmt.Sprintf("number %d", t.Value)
	case TokenIdentifier:
		return fmt.Sprintf("identifier %q", t.Literal)
	case TokenKeyword:
		return fmt.Sprintf("keyword %q", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}

// IsKeyword reports whether word is a reserved word. Matching is case-sensitive.
func IsKeyword(word string) bool {
	switch word {
	case "const", "var", "procedure", "call", "begin", "end",
		"if", "then", "while", "do", "odd":
		return true
	}
	return false
}

// singleCharOperators are emitted as one-character operator tokens.
const singleCharOperators = "=#+-*/,.;()"

// WhitespaceMode selects which characters the lexer skips between tokens.
type WhitespaceMode int

const (
	// WhitespaceExtended skips space, tab, carriage return and newline.
	WhitespaceExtended WhitespaceMode = iota
	// WhitespaceStrict skips only space and newline; tab and carriage
	// return are invalid characters.
	WhitespaceStrict
)

// String returns the configuration spelling of the mode
func (m WhitespaceMode) String() string {
	switch m {
	case WhitespaceExtended:
		return "extended"
	case WhitespaceStrict:
		return "strict"
	}
	return fmt.Sprintf("WhitespaceMode(%d)", int(m))
}

// ParseWhitespaceMode converts a configuration string into a WhitespaceMode.
func ParseWhitespaceMode(s string) (WhitespaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extended":
		return WhitespaceExtended, nil
	case "strict":
		return WhitespaceStrict, nil
	}
	return 0, fmt.Errorf("unknown whitespace mode %q (want \"extended\" or \"strict\")", s)
}

// Options configures a Lexer.
type Options struct {
	Whitespace WhitespaceMode
}

// DefaultOptions returns the default lexer options.
func DefaultOptions() Options {
	return Options{Whitespace: WhitespaceExtended}
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input  string
	offset int // current byte offset in input
	opts   Options
	file   *position.SourceFile
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithOptions(input, "", DefaultOptions())
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	return NewWithOptions(input, filename, DefaultOptions())
}

// NewWithOptions creates a new lexer instance with explicit options
func NewWithOptions(input, filename string, opts Options) *Lexer {
	return &Lexer{
		input: input,
		opts:  opts,
		file:  position.NewSourceFile(filename, input),
	}
}

// Offset returns the current cursor position.
func (l *Lexer) Offset() int {
	return l.offset
}

// Reset moves the cursor back to an offset previously returned by Offset.
func (l *Lexer) Reset(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.input) {
		offset = len(l.input)
	}
	l.offset = offset
}

// File returns the source file the lexer reads from.
func (l *Lexer) File() *position.SourceFile {
	return l.file
}

func (l *Lexer) isBlank(ch byte) bool {
	switch ch {
	case ' ', '\n':
		return true
	case '\t', '\r':
		return l.opts.Whitespace == WhitespaceExtended
	}
	return false
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// NextStart returns the offset at which the next token begins, without
// moving the cursor.
func (l *Lexer) NextStart() int {
	offset := l.offset
	for offset < len(l.input) && l.isBlank(l.input[offset]) {
		offset++
	}
	return offset
}

// Next returns the next token and advances the cursor past it.
// At end of input it keeps returning an EOF token.
func (l *Lexer) Next() (Token, error) {
	start := l.NextStart()
	l.offset = start
	if start >= len(l.input) {
		return l.token(TokenEOF, start, start), nil
	}

	ch := l.input[start]

	switch {
	case isDigit(ch):
		value := 0
		for l.offset < len(l.input) && isDigit(l.input[l.offset]) {
			// Overflow wraps silently.
			value = value*10 + int(l.input[l.offset]-'0')
			l.offset++
		}
		tok := l.token(TokenNumber, start, l.offset)
		tok.Value = value
		return tok, nil

	case isIdentStart(ch):
		for l.offset < len(l.input) && isIdentContinue(l.input[l.offset]) {
			l.offset++
		}
		if IsKeyword(l.input[start:l.offset]) {
			return l.token(TokenKeyword, start, l.offset), nil
		}
		return l.token(TokenIdentifier, start, l.offset), nil

	case strings.IndexByte(singleCharOperators, ch) >= 0:
		l.offset++
		return l.token(TokenOperator, start, l.offset), nil

	case ch == ':':
		if start+1 >= len(l.input) || l.input[start+1] != '=' {
			return Token{}, l.errorAt(start+1, "'=' expected")
		}
		l.offset += 2
		return l.token(TokenOperator, start, l.offset), nil

	case ch == '<' || ch == '>':
		l.offset++
		if l.offset < len(l.input) && l.input[l.offset] == '=' {
			l.offset++
		}
		return l.token(TokenOperator, start, l.offset), nil
	}

	return Token{}, l.errorAt(start, "invalid character")
}

func (l *Lexer) token(tt TokenType, start, end int) Token {
	return Token{
		Type:    tt,
		Literal: l.input[start:end],
		Span:    l.file.SpanFromOffsets(start, end),
	}
}

// Tokenize drains the lexer, returning every token up to and including EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Tokenize scans input with default options.
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

func (l *Lexer) errorAt(offset int, msg string) *Error {
	ch := rune(-1)
	if offset < len(l.input) {
		ch, _ = utf8.DecodeRuneInString(l.input[offset:])
	}
	return &Error{
		Pos:     l.file.PositionFromOffset(offset),
		Char:    ch,
		Message: msg,
	}
}
