package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/pl0/internal/parser"
	"github.com/orizon-lang/pl0/internal/watch"
)

func (a *app) watchCommand() *cobra.Command {
	opts := watch.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Re-check files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watch.New(args, opts)
			if err != nil {
				return err
			}

			for _, path := range w.Targets() {
				a.checkOne(path)
			}
			a.log.Info("watching %d files", len(w.Targets()))

			err = w.Run(cmd.Context(), func(ev watch.Event) {
				a.log.Debug("%s: %s", ev.Path, ev.Op)
				if ev.Op&(watch.OpRemove|watch.OpRename) != 0 {
					if _, err := os.Stat(ev.Path); err != nil {
						a.log.Warn("%s removed", ev.Path)
						return
					}
				}
				a.checkOne(ev.Path)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", opts.Debounce, "merge changes arriving within this window")
	return cmd
}

// checkOne parses path and reports the result.
func (a *app) checkOne(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Error("%v", err)
		return
	}

	src := source{name: path, text: string(data)}
	if _, err := parser.ParseFile(path, src.text, a.cfg.LexerOptions()); err != nil {
		a.report(src, err)
		return
	}
	fmt.Fprintf(a.stdout, "%s: ok\n", path)
}
