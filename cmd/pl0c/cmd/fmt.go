package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/pl0/internal/format"
)

func (a *app) fmtCommand() *cobra.Command {
	var (
		writeInPlace bool
		listOnly     bool
		showDiff     bool
		textOnly     bool
		diffMode     string
	)

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format PL/0 programs in canonical layout",
		Long: `Prints each program in canonical layout. Standard input is read when no
file is given.

Flags:
  -w      write the result back to the source file
  -l      list files whose layout differs
  -d      print a diff against the formatted program instead
  --text  only trim trailing blanks and final newlines, without parsing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writeInPlace || listOnly {
				if len(args) == 0 {
					return fmt.Errorf("-w and -l need file arguments")
				}
				for _, arg := range args {
					if arg == "-" {
						return fmt.Errorf("-w and -l cannot be used with standard input")
					}
				}
			}

			diffOpts := format.DefaultDiffOptions()
			if showDiff {
				mode, err := format.ParseDiffMode(diffMode)
				if err != nil {
					return err
				}
				diffOpts.Mode = mode
			}
			differ := format.NewDiffFormatter(diffOpts)

			sources, err := a.readSources(args)
			if err != nil {
				return err
			}

			opts := a.cfg.FormatOptions()
			failed := false
			for i, src := range sources {
				var out string
				if textOnly {
					out = format.FormatText(src.text, opts)
				} else {
					out, err = format.Source(src.name, src.text, opts)
					if err != nil {
						a.report(src, err)
						failed = true
						continue
					}
				}

				changed := out != src.text
				switch {
				case showDiff:
					fmt.Fprint(a.stdout, differ.Diff(src.name, src.text, out))
				case listOnly:
					if changed {
						fmt.Fprintln(a.stdout, src.name)
					}
				case writeInPlace:
					if !changed {
						continue
					}
					if err := os.WriteFile(args[i], []byte(out), 0o644); err != nil {
						a.log.Error("%v", err)
						failed = true
						continue
					}
					a.log.Info("formatted %s", src.name)
				default:
					fmt.Fprint(a.stdout, out)
				}
			}

			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "print a diff instead of the formatted program")
	cmd.Flags().StringVar(&diffMode, "mode", "unified", "diff mode: unified or context")
	cmd.Flags().BoolVar(&textOnly, "text", false, "normalise whitespace only, without parsing")
	return cmd
}
