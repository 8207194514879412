package cmd

import (
	"context"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/pl0/internal/lexer"
	"github.com/orizon-lang/pl0/internal/parser"
)

// checkResult is the outcome of parsing one file.
type checkResult struct {
	src source
	err error
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check files...",
		Short: "Parse files and report every error",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := checkFiles(cmd.Context(), args, a.cfg.LexerOptions())
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.err != nil {
					a.report(r.src, r.err)
					failed++
					continue
				}
				a.log.Info("%s: ok", r.src.name)
			}

			a.log.Info("checked %d files, %d failed", len(results), failed)
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
}

// checkFiles parses paths concurrently. Syntax errors are collected per
// file; only I/O errors abort the run.
func checkFiles(ctx context.Context, paths []string, opts lexer.Options) ([]checkResult, error) {
	results := make([]checkResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			src := source{name: path, text: string(data)}
			_, perr := parser.ParseFile(path, src.text, opts)
			results[i] = checkResult{src: src, err: perr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
