// Package config loads pl0.toml, the configuration file of the pl0c tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/pl0/internal/astdump"
	"github.com/orizon-lang/pl0/internal/cli"
	"github.com/orizon-lang/pl0/internal/format"
	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/parser"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "PL0_CONFIG"

// FileName is the config file looked up in the working directory.
const FileName = "pl0.toml"

// Config is the decoded pl0.toml.
type Config struct {
	Lexer    LexerConfig    `toml:"lexer"`
	Output   OutputConfig   `toml:"output"`
	Language LanguageConfig `toml:"language"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type LexerConfig struct {
	Whitespace string `toml:"whitespace"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
	Indent int    `toml:"indent"`
	Tabs   bool   `toml:"tabs"`
}

type LanguageConfig struct {
	Version string `toml:"version"`
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Discover returns the first existing config file: the PL0_CONFIG
// variable, ./pl0.toml, then $HOME/.config/pl0/pl0.toml. It returns an
// empty string when none exists.
func Discover() string {
	if path := os.Getenv(EnvVar); path != "" {
		return path
	}

	candidates := []string{"./" + FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "pl0", FileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDefault loads explicit when set, otherwise the discovered file.
// Without any file the defaults are returned.
func LoadDefault(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = Discover()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if c.Lexer.Whitespace == "" {
		c.Lexer.Whitespace = lexer.WhitespaceExtended.String()
	}

	if c.Output.Format == "" {
		c.Output.Format = astdump.FormatTree.String()
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.Indent == 0 {
		c.Output.Indent = format.DefaultOptions().IndentSize
	}
}

// Validate checks every value and the language version constraint.
func (c *Config) Validate() error {
	var errs []error

	if _, err := lexer.ParseWhitespaceMode(c.Lexer.Whitespace); err != nil {
		errs = append(errs, fmt.Errorf("lexer.whitespace: %w", err))
	}
	if _, err := astdump.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	if _, err := cli.ParseColorMode(c.Output.Color); err != nil {
		errs = append(errs, fmt.Errorf("output.color: %w", err))
	}

	if c.Output.Indent < 0 || c.Output.Indent > 16 {
		errs = append(errs, fmt.Errorf("output.indent: %d out of range 0..16", c.Output.Indent))
	}

	if err := CheckLanguageVersion(c.Language.Version); err != nil {
		errs = append(errs, fmt.Errorf("language.version: %w", err))
	}

	return errors.Join(errs...)
}

// CheckLanguageVersion reports whether the parser's language version
// satisfies constraint. An empty constraint accepts any version.
func CheckLanguageVersion(constraint string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(parser.LanguageVersion)
	if err != nil {
		return fmt.Errorf("invalid language version %q: %w", parser.LanguageVersion, err)
	}

	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return fmt.Errorf("parser implements PL/0 %s: %s", v, strings.Join(msgs, "; "))
	}
	return nil
}

// LexerOptions returns the lexer options selected by the configuration.
func (c *Config) LexerOptions() lexer.Options {
	opts := lexer.DefaultOptions()
	if mode, err := lexer.ParseWhitespaceMode(c.Lexer.Whitespace); err == nil {
		opts.Whitespace = mode
	}
	return opts
}

// FormatOptions returns the formatter options selected by the configuration.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	opts.Lexer = c.LexerOptions()
	if c.Output.Indent > 0 {
		opts.IndentSize = c.Output.Indent
	}
	opts.PreferTabs = c.Output.Tabs
	return opts
}

// OutputFormat returns the dump format, falling back to the tree format.
func (c *Config) OutputFormat() astdump.Format {
	f, err := astdump.ParseFormat(c.Output.Format)
	if err != nil {
		return astdump.FormatTree
	}
	return f
}
