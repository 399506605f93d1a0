package main

import (
	"context"
	"fmt"
	"os"

	"task-tracker/internal/cli"
)

func main() {
	root := cli.NewRootCommand()

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
