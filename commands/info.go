package commands

import (
	"context"

	"github.com/symfony-cli/console"

	bffile "github.com/dkarlovi/bookferry/file"
)

var infoCmd = &console.Command{
	Category:    "",
	Name:        "info",
	Usage:       "Get info about a package file",
	Description: "Lists the values for the various metadata keys of the file",
	Flags:       []console.Flag{configFlag},
	Args: []*console.Arg{
		{Name: "file", Description: "The file to inspect"},
	},
	Action: func(c *console.Context) error {
		path := c.Args().Get("file")
		if path == "" {
			return console.Exit("missing file path", 1)
		}
		env, err := setup(c)
		if err != nil {
			return console.Exit(err.Error(), 1)
		}

		env.log.Debug().Str("path", path).Msg("reading metadata")
		if err := bffile.Info(context.Background(), c.App.Writer, env.registry, path); err != nil {
			return console.Exit(err.Error(), 1)
		}
		return nil
	},
}
