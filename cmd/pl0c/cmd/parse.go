package cmd

import (
	"github.com/spf13/cobra"

	"github.com/orizon-lang/pl0/internal/astdump"
	"github.com/orizon-lang/pl0/internal/parser"
)

func (a *app) parseCommand() *cobra.Command {
	var (
		formatName string
		spans      bool
	)

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the syntax tree of PL/0 programs",
		Long: `Parses each program and prints its syntax tree. Standard input is read
when no file is given.

Examples:
  pl0c parse prog.pl0
  pl0c parse --format json --spans prog.pl0
  echo "x := 1." | pl0c parse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := a.cfg.OutputFormat()
			if formatName != "" {
				f, err := astdump.ParseFormat(formatName)
				if err != nil {
					return err
				}
				format = f
			}

			sources, err := a.readSources(args)
			if err != nil {
				return err
			}

			failed := false
			for _, src := range sources {
				prog, err := parser.ParseFile(src.name, src.text, a.cfg.LexerOptions())
				if err != nil {
					a.report(src, err)
					failed = true
					continue
				}
				a.log.Info("parsed %s", src.name)

				if err := astdump.Encode(a.stdout, prog, format, astdump.Options{Spans: spans}); err != nil {
					return err
				}
			}

			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: tree, json or yaml (overrides config)")
	cmd.Flags().BoolVar(&spans, "spans", false, "include source spans")
	return cmd
}
