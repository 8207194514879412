package lexer

import (
	"errors"
	"testing"
)

const sampleProgram = `var i, s;
begin
    i := 0; s := 0;
    while i < 5 do
    begin
        i := i + 1;
        s := s + i * i
    end
end.
`

func TestBasicTokens(t *testing.T) {
	input := `var x; begin x := (x + 12) * 3 end.`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenKeyword, "var"},
		{TokenIdentifier, "x"},
		{TokenOperator, ";"},
		{TokenKeyword, "begin"},
		{TokenIdentifier, "x"},
		{TokenOperator, ":="},
		{TokenOperator, "("},
		{TokenIdentifier, "x"},
		{TokenOperator, "+"},
		{TokenNumber, "12"},
		{TokenOperator, ")"},
		{TokenOperator, "*"},
		{TokenNumber, "3"},
		{TokenKeyword, "end"},
		{TokenOperator, "."},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `const var procedure call begin end if then while do odd Begin END whilex`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenKeyword, "const"},
		{TokenKeyword, "var"},
		{TokenKeyword, "procedure"},
		{TokenKeyword, "call"},
		{TokenKeyword, "begin"},
		{TokenKeyword, "end"},
		{TokenKeyword, "if"},
		{TokenKeyword, "then"},
		{TokenKeyword, "while"},
		{TokenKeyword, "do"},
		{TokenKeyword, "odd"},
		{TokenIdentifier, "Begin"},
		{TokenIdentifier, "END"},
		{TokenIdentifier, "whilex"},
		{TokenEOF, ""},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}

	for i, tt := range tests {
		if !tokens[i].Is(tt.expectedType, tt.expectedValue) {
			t.Fatalf("tests[%d] - expected=%s %q, got=%s %q",
				i, tt.expectedType, tt.expectedValue, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `= # + - * / , . ; ( ) := < <= > >= <<= >>`
	expected := []string{
		"=", "#", "+", "-", "*", "/", ",", ".", ";", "(", ")",
		":=", "<", "<=", ">", ">=", "<", "<=", ">", ">",
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, want := range expected {
		if !tokens[i].Is(TokenOperator, want) {
			t.Fatalf("tests[%d] - expected operator %q, got %s %q", i, want, tokens[i].Type, tokens[i].Literal)
		}
	}
	if tokens[len(expected)].Type != TokenEOF {
		t.Fatalf("expected EOF after operators, got %s", tokens[len(expected)])
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		value int
	}{
		{"0", 0},
		{"7", 7},
		{"007", 7},
		{"2147483647", 2147483647},
		{"123456789012", 123456789012},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := New(tt.input).Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != TokenNumber {
				t.Fatalf("expected NUMBER, got %s", tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("expected value %d, got %d", tt.value, tok.Value)
			}
			if tok.Literal != tt.input {
				t.Errorf("expected literal %q, got %q", tt.input, tok.Literal)
			}
		})
	}
}

func TestNumberFollowedByIdentifier(t *testing.T) {
	tokens, err := Tokenize("12abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tokens[0].Is(TokenNumber, "12") || !tokens[1].Is(TokenIdentifier, "abc") {
		t.Fatalf("expected NUMBER 12 then IDENTIFIER abc, got %v", tokens)
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := New("x")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if tok.Type != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok)
		}
	}
}

func TestResetRewindsCursor(t *testing.T) {
	l := New("begin end")

	saved := l.Offset()
	first, _ := l.Next()
	if !first.Is(TokenKeyword, "begin") {
		t.Fatalf("expected begin, got %s", first)
	}

	l.Reset(saved)
	again, _ := l.Next()
	if again != first {
		t.Fatalf("token after Reset differs: %v vs %v", again, first)
	}

	next, _ := l.Next()
	if !next.Is(TokenKeyword, "end") {
		t.Fatalf("expected end, got %s", next)
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := NewWithFilename(sampleProgram, "sample.pl0").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		index   int
		literal string
		line    int
		column  int
	}{
		{0, "var", 1, 1},
		{1, "i", 1, 5},
		{4, ";", 1, 9},
		{5, "begin", 2, 1},
		{6, "i", 3, 5},
		{7, ":=", 3, 7},
	}

	for _, tt := range tests {
		tok := tokens[tt.index]
		if tok.Literal != tt.literal {
			t.Fatalf("tokens[%d] - literal wrong. expected=%q, got=%q", tt.index, tt.literal, tok.Literal)
		}
		if tok.Span.Start.Line != tt.line || tok.Span.Start.Column != tt.column {
			t.Errorf("tokens[%d] %q - expected %d:%d, got %d:%d", tt.index, tt.literal,
				tt.line, tt.column, tok.Span.Start.Line, tok.Span.Start.Column)
		}
		if tok.Span.Start.Filename != "sample.pl0" {
			t.Errorf("tokens[%d] - filename wrong: %q", tt.index, tok.Span.Start.Filename)
		}
	}

	last := tokens[len(tokens)-1]
	if last.Type != TokenEOF || last.Span.Start.Offset != len(sampleProgram) {
		t.Errorf("EOF token should sit at the end of input, got %v", last)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		char    rune
		column  int
	}{
		{"colon without equals", "x : 1", "'=' expected", ' ', 4},
		{"colon at end of input", "x :", "'=' expected", -1, 4},
		{"invalid character", "x := $", "invalid character", '$', 6},
		{"bang", "a ! b", "invalid character", '!', 3},
		{"non-ascii", "x := ä", "invalid character", 'ä', 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("error should match ErrLex: %v", err)
			}

			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if lexErr.Message != tt.message {
				t.Errorf("message wrong. expected=%q, got=%q", tt.message, lexErr.Message)
			}
			if lexErr.Char != tt.char {
				t.Errorf("char wrong. expected=%q, got=%q", tt.char, lexErr.Char)
			}
			if lexErr.Pos.Column != tt.column {
				t.Errorf("column wrong. expected=%d, got=%d", tt.column, lexErr.Pos.Column)
			}
		})
	}
}

func TestWhitespaceModes(t *testing.T) {
	input := "var\tx;\r\nbegin x := 1 end."

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("extended mode should accept tabs and CR: %v", err)
	}
	if len(tokens) != 10 {
		t.Fatalf("expected 10 tokens, got %d", len(tokens))
	}

	_, err = NewWithOptions(input, "", Options{Whitespace: WhitespaceStrict}).Tokenize()
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("strict mode should reject tab, got %v", err)
	}
	if lexErr.Char != '\t' || lexErr.Message != "invalid character" {
		t.Errorf("unexpected error: %v", lexErr)
	}

	tokens, err = NewWithOptions("var x;\nbegin\nend.", "", Options{Whitespace: WhitespaceStrict}).Tokenize()
	if err != nil {
		t.Fatalf("strict mode should accept newlines: %v", err)
	}
	if len(tokens) != 7 {
		t.Errorf("expected 7 tokens, got %d", len(tokens))
	}
}

func TestParseWhitespaceMode(t *testing.T) {
	tests := []struct {
		input   string
		mode    WhitespaceMode
		wantErr bool
	}{
		{"", WhitespaceExtended, false},
		{"extended", WhitespaceExtended, false},
		{"Strict", WhitespaceStrict, false},
		{"loose", 0, true},
	}

	for _, tt := range tests {
		mode, err := ParseWhitespaceMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseWhitespaceMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if !tt.wantErr && mode != tt.mode {
			t.Errorf("ParseWhitespaceMode(%q) = %s, want %s", tt.input, mode, tt.mode)
		}
	}
}

func TestTokenDescribe(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenEOF}, "end of input"},
		{Token{Type: TokenNumber, Literal: "42", Value: 42}, "number 42"},
		{Token{Type: TokenIdentifier, Literal: "x"}, `identifier "x"`},
		{Token{Type: TokenKeyword, Literal: "begin"}, `keyword "begin"`},
		{Token{Type: TokenOperator, Literal: ":="}, `":="`},
	}

	for i, tt := range tests {
		if got := tt.tok.Describe(); got != tt.want {
			t.Errorf("tests[%d] - Describe() = %q, want %q", i, got, tt.want)
		}
	}
}
