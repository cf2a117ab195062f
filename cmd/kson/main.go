// Command kson is the CLI front-end over the internal/kson library:
// format, json, yaml, validate, and watch subcommands.
package main

import (
	"os"

	"github.com/kson-lang/kson/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
