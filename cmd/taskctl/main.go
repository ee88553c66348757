package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"taskmanager/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrActionFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
