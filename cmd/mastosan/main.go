// Package main is the entry point for the mastosan CLI.
package main

import (
	"os"

	"github.com/jmylchreest/mastosan/cmd/mastosan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
