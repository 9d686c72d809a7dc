// Package main provides the chparse CLI.
package main

import (
	"os"

	"github.com/grovelabs/chparse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
