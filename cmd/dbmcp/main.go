// Package main provides the entry point for the dbmcp CLI and MCP server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/raphaelgruber/dbmcp-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// The envelope has already been printed.
		if !errors.Is(err, cli.ErrToolFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
