package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orizon-lang/pl0/internal/astdump"
	"github.com/orizon-lang/pl0/internal/lexer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Lexer.Whitespace != "extended" {
		t.Errorf("Lexer.Whitespace = %q, want extended", cfg.Lexer.Whitespace)
	}
	if cfg.Output.Format != "tree" {
		t.Errorf("Output.Format = %q, want tree", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("Output.Color = %q, want auto", cfg.Output.Color)
	}
	if cfg.Output.Indent != 4 {
		t.Errorf("Output.Indent = %d, want 4", cfg.Output.Indent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[lexer]
whitespace = "strict"

[output]
format = "yaml"
color = "never"
indent = 2

[language]
version = "^1.0"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if got := cfg.LexerOptions().Whitespace; got != lexer.WhitespaceStrict {
		t.Errorf("LexerOptions().Whitespace = %s, want strict", got)
	}
	if got := cfg.OutputFormat(); got != astdump.FormatYAML {
		t.Errorf("OutputFormat() = %s, want yaml", got)
	}

	fopts := cfg.FormatOptions()
	if fopts.IndentSize != 2 || fopts.PreferTabs {
		t.Errorf("FormatOptions() = %+v, want 2 spaces", fopts)
	}
	if fopts.Lexer.Whitespace != lexer.WhitespaceStrict {
		t.Errorf("FormatOptions().Lexer.Whitespace = %s, want strict", fopts.Lexer.Whitespace)
	}
}

func TestLoadPartialAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[output]\nformat = \"json\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if cfg.Lexer.Whitespace != "extended" || cfg.Output.Color != "auto" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "[lexer\nwhitespace = 1", "failed to parse config"},
		{"unknown key", "[lexer]\ntabs = true\n", "unknown keys: lexer.tabs"},
		{"bad whitespace", "[lexer]\nwhitespace = \"loose\"\n", "lexer.whitespace"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"bad indent", "[output]\nindent = 40\n", "output.indent"},
		{"bad constraint", "[language]\nversion = \"not a version\"\n", "invalid constraint"},
		{"unsatisfied", "[language]\nversion = \">= 2.0\"\n", "parser implements PL/0 1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Output.Color = "rainbow"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("Validate() error = %v, want two joined errors", err)
	}
}

func TestLoadDefaultUsesEnv(t *testing.T) {
	path := writeConfig(t, "[output]\ncolor = \"always\"\n")
	t.Setenv(EnvVar, path)

	cfg, err := LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Output.Color != "always" {
		t.Errorf("Output.Color = %q, want always", cfg.Output.Color)
	}
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadDefault("")
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want defaults", cfg.Path)
	}
}

func TestCheckLanguageVersion(t *testing.T) {
	tests := []struct {
		constraint string
		wantErr    bool
	}{
		{"", false},
		{"1.0.0", false},
		{"~1", false},
		{">= 1.0, < 2", false},
		{"< 1.0", true},
		{"garbage!", true},
	}

	for _, tt := range tests {
		err := CheckLanguageVersion(tt.constraint)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckLanguageVersion(%q) error = %v, wantErr %v", tt.constraint, err, tt.wantErr)
		}
	}
}

func TestColorModeCaseInsensitive(t *testing.T) {
	for _, color := range []string{"Always", "NEVER", " auto "} {
		cfg, err := Load(writeConfig(t, "[output]\ncolor = \""+color+"\"\n"))
		if err != nil {
			t.Errorf("Load(color = %q) error = %v", color, err)
			continue
		}
		if cfg.Output.Color != color {
			t.Errorf("Output.Color = %q, want %q", cfg.Output.Color, color)
		}
	}
}

func TestTabs(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[output]\ntabs = true\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.FormatOptions().PreferTabs {
		t.Errorf("FormatOptions().PreferTabs = false, want true")
	}
	if Default().FormatOptions().PreferTabs {
		t.Errorf("default FormatOptions().PreferTabs = true, want false")
	}
}
