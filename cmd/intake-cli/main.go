// Package main is the entry point for intake-cli.
//
// intake-cli renders wizard steps as HTML forms, validates saved answers
// against a step's rules and runs steps interactively in a terminal.
//
// Commands: steps, render, validate, prompt, version.
//
//	intake-cli --help
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-intake/cmd/intake-cli/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
