// Package main is the entry point for the finance CLI.
package main

import (
	"context"
	"os"

	"finance/cmd/finance/cmd"
	"finance/internal/cli"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	err := cmd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
