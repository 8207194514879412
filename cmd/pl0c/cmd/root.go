// Package cmd implements the pl0c subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/pl0/internal/cli"
	"github.com/orizon-lang/pl0/internal/config"
	"github.com/orizon-lang/pl0/internal/position"
)

// errReported signals a failure whose diagnostics were already printed.
var errReported = errors.New("errors reported")

// app carries the state shared by all subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool
	debug   bool
	color   string

	cfg    *config.Config
	log    *cli.Logger
	styled bool
}

// NewRootCommand builds the pl0c command tree around the given streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "pl0c",
		Short: "PL/0 front end",
		Long: `pl0c tokenizes and parses PL/0 programs.

Commands:
  parse    print the syntax tree
  tokens   print the token stream
  fmt      print or rewrite programs in canonical layout
  check    parse files and report every error
  watch    re-check files whenever they change`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $PL0_CONFIG or ./pl0.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug output")
	root.PersistentFlags().StringVar(&a.color, "color", "", "color diagnostics: auto, always or never (overrides config)")

	root.AddCommand(
		a.parseCommand(),
		a.tokensCommand(),
		a.fmtCommand(),
		a.checkCommand(),
		a.watchCommand(),
		a.versionCommand(),
	)
	return root
}

// Execute runs pl0c with args and returns the process exit code.
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	root := NewRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.log = cli.NewLogger(a.stderr, a.verbose, a.debug)

	cfg, err := config.LoadDefault(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Path != "" {
		a.log.Debug("using config %s", cfg.Path)
	}

	colorSetting := cfg.Output.Color
	if a.color != "" {
		colorSetting = a.color
	}
	mode, err := cli.ParseColorMode(colorSetting)
	if err != nil {
		return err
	}
	a.styled = cli.UseColor(mode, a.stderr)
	return nil
}

// source is one input program.
type source struct {
	name string
	text string
}

// readSources reads the named files, or stdin when names is empty or "-".
func (a *app) readSources(names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	out := make([]source, 0, len(names))
	for _, name := range names {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(a.stdin)
			name = "<stdin>"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out = append(out, source{name: name, text: string(data)})
	}
	return out, nil
}

// report prints err as a diagnostic against src.
func (a *app) report(src source, err error) {
	file := position.NewSourceFile(src.name, src.text)
	if rerr := cli.RenderDiagnostic(a.stderr, file, err, a.styled); rerr != nil {
		a.log.Error("%v", rerr)
	}
}
