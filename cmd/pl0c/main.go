// Command pl0c parses, checks and formats PL/0 programs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orizon-lang/pl0/cmd/pl0c/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Execute(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}
