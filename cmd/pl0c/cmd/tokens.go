package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/pl0/internal/lexer"
)

func (a *app) tokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a PL/0 program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := a.readSources(args)
			if err != nil {
				return err
			}
			src := sources[0]

			l := lexer.NewWithOptions(src.text, src.name, a.cfg.LexerOptions())
			for {
				tok, err := l.Next()
				if err != nil {
					a.report(src, err)
					return errReported
				}
				fmt.Fprintf(a.stdout, "%-8s %-12s %s\n", tok.Type, tok.Literal, tok.Span)
				if tok.Type == lexer.TokenEOF {
					return nil
				}
			}
		},
	}
}
