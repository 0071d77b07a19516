// Package main is the entry point for the taskboard CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sandeepkv93/taskboard/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskboard failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.NewRootCommand(version).ExecuteContext(ctx)
}
