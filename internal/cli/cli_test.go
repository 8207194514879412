package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/parser"
	"github.com/orizon-lang/pl0/internal/position"
)

func TestPrintVersionPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "pl0c", false); err != nil {
		t.Fatalf("PrintVersion failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "pl0c v"+Version+"\n") {
		t.Errorf("unexpected first line in %q", out)
	}
	if !strings.Contains(out, "PL/0 language: "+parser.LanguageVersion) {
		t.Errorf("language version missing from %q", out)
	}
}

func TestPrintVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "pl0c", true); err != nil {
		t.Fatalf("PrintVersion failed: %v", err)
	}

	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Tool != "pl0c" || decoded.VersionInfo.LanguageVersion != parser.LanguageVersion {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		verbose, debug bool
		want           []string
	}{
		{false, false, []string{"[WARN]", "[ERROR]"}},
		{true, false, []string{"[INFO]", "[WARN]", "[ERROR]"}},
		{false, true, []string{"[INFO]", "[DEBUG]", "[WARN]", "[ERROR]"}},
	}

	for i, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(&buf, tt.verbose, tt.debug)
		l.now = func() time.Time { return time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC) }

		l.Info("info %d", 1)
		l.Debug("debug")
		l.Warn("warn")
		l.Error("error")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != len(tt.want) {
			t.Fatalf("tests[%d] - got %d lines, want %d:\n%s", i, len(lines), len(tt.want), buf.String())
		}
		for j, prefix := range tt.want {
			if !strings.HasPrefix(lines[j], prefix+" 12:30:00: ") {
				t.Errorf("tests[%d] - line %d = %q, want prefix %q", i, j, lines[j], prefix)
			}
		}
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"Always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}

	for _, tt := range tests {
		got, err := ParseColorMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColorMode(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseColorMode(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer

	if !UseColor(ColorAlways, &buf) {
		t.Error("ColorAlways should force color")
	}
	if UseColor(ColorNever, &buf) {
		t.Error("ColorNever should disable color")
	}
	if UseColor(ColorAuto, &buf) {
		t.Error("a bytes.Buffer is not a terminal")
	}
}

func TestRenderParseError(t *testing.T) {
	src := "var x;\nx := 1 +."
	_, err := parser.ParseFile("prog.pl0", src, lexer.DefaultOptions())
	if err == nil {
		t.Fatal("expected parse error")
	}

	var buf bytes.Buffer
	if err := RenderDiagnostic(&buf, position.NewSourceFile("prog.pl0", src), err, false); err != nil {
		t.Fatalf("RenderDiagnostic failed: %v", err)
	}

	want := "prog.pl0:2:9: parse error: expected number, identifier or '(' in factor, found \".\"\n" +
		"   1 | var x;\n" +
		"   2 | x := 1 +.\n" +
		"     | " + strings.Repeat(" ", 8) + "^\n"
	if buf.String() != want {
		t.Errorf("RenderDiagnostic output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestDiagnosticSpan(t *testing.T) {
	tests := []struct {
		src      string
		wantSpan string
		wantLen  int
	}{
		{"x := 1 + begin.", "1:10-15", 5},
		{"begin x := 1", "1:13-13", 0},
		{"x := 1 ? 2.", "1:8-8", 0},
	}

	for i, tt := range tests {
		_, err := parser.ParseFile("", tt.src, lexer.DefaultOptions())
		if err == nil {
			t.Fatalf("tests[%d] - expected error for %q", i, tt.src)
		}

		d := NewDiagnostic(err)
		if got := d.Span.String(); got != tt.wantSpan {
			t.Errorf("tests[%d] - span = %q, want %q", i, got, tt.wantSpan)
		}
		if got := d.Span.Length(); got != tt.wantLen {
			t.Errorf("tests[%d] - length = %d, want %d", i, got, tt.wantLen)
		}
	}
}

func TestRenderMarksWholeToken(t *testing.T) {
	src := "x := 1 + begin."
	_, err := parser.ParseFile("t.pl0", src, lexer.DefaultOptions())
	if err == nil {
		t.Fatal("expected parse error")
	}

	var buf bytes.Buffer
	if err := RenderDiagnostic(&buf, position.NewSourceFile("t.pl0", src), err, false); err != nil {
		t.Fatalf("RenderDiagnostic failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := "     | " + strings.Repeat(" ", 9) + "^^^^^"
	if lines[len(lines)-1] != want {
		t.Errorf("carets = %q, want %q", lines[len(lines)-1], want)
	}
}

func TestRenderLexError(t *testing.T) {
	src := "x := 1 ? 2."
	_, err := parser.ParseFile("lex.pl0", src, lexer.DefaultOptions())
	if !errors.Is(err, lexer.ErrLex) {
		t.Fatalf("expected lex error, got %v", err)
	}

	var buf bytes.Buffer
	if err := RenderDiagnostic(&buf, position.NewSourceFile("lex.pl0", src), err, false); err != nil {
		t.Fatalf("RenderDiagnostic failed: %v", err)
	}

	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != `lex.pl0:1:8: lex error: invalid character, found '?'` {
		t.Errorf("header = %q", first)
	}
}

func TestRenderWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDiagnostic(&buf, nil, errors.New("boom"), false); err != nil {
		t.Fatalf("RenderDiagnostic failed: %v", err)
	}
	if buf.String() != "error: boom\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderColorKeepsText(t *testing.T) {
	src := "begin x := 1"
	_, err := parser.ParseFile("c.pl0", src, lexer.DefaultOptions())
	if err == nil {
		t.Fatal("expected parse error")
	}

	var buf bytes.Buffer
	if err := RenderDiagnostic(&buf, position.NewSourceFile("c.pl0", src), err, true); err != nil {
		t.Fatalf("RenderDiagnostic failed: %v", err)
	}
	for _, part := range []string{"c.pl0:1:13", "parse error", "end of input", "begin x := 1", "^"} {
		if !strings.Contains(buf.String(), part) {
			t.Errorf("styled output missing %q:\n%s", part, buf.String())
		}
	}
}
