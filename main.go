package main

import (
	"os"

	"github.com/symfony-cli/console"

	"github.com/dkarlovi/bookferry/commands"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	app := &console.Application{
		Name:     "bookferry",
		Usage:    "A collection of tools for inspecting and renaming e-book files",
		Version:  version,
		Commands: commands.Commands(),
	}
	app.Run(os.Args)
}
