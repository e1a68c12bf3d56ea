// Package main provides the entry point for the WebCode CLI.
package main

import (
	"fmt"
	"os"

	"github.com/webcode-dev/webcode/cmd/webcode/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
