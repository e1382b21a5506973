// Package main provides the slr command-line tool for maintaining a
// systematic literature review: bibliography cleaning, LaTeX table
// generation, the category sunburst chart and claim verification.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd(stdout, stderr)
	defer func() { _ = a.close() }()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
