// Package main provides the entry point for the hotfix CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// After the first signal, restore default handling so a second one
	// terminates immediately while rollback runs.
	go func() {
		<-ctx.Done()
		stop()
	}()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	os.Exit(execute(ctx, os.Args[1:], &app{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		workDir: wd,
	}))
}
