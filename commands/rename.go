package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/symfony-cli/console"

	bffile "github.com/dkarlovi/bookferry/file"
)

var renameCmd = &console.Command{
	Category: "",
	Name:     "rename",
	Usage:    "Rename package files using the title from their metadata",
	Description: `You can specify multiple files and directories. Files that are explicitly
specified are permitted to not have a package extension, but when recursing
through directories only recognised package files will be processed.

This will not actually make changes unless --execute is specified.`,
	Flags: []console.Flag{
		configFlag,
		&console.BoolFlag{Name: "execute", Usage: "Actually perform the renaming operations"},
	},
	Args: []*console.Arg{
		{Name: "paths", Description: "Package files or directories of package files", Slice: true},
	},
	Action: func(c *console.Context) error {
		paths := c.Args().Slice()
		if len(paths) == 0 {
			return console.Exit("missing path", 1)
		}
		env, err := setup(c)
		if err != nil {
			return console.Exit(err.Error(), 1)
		}

		ctx := context.Background()
		planner := bffile.NewPlanner(env.registry, c.App.Writer, env.log)
		planner.Exclude = env.cfg.Exclude

		plan, err := planner.Plan(ctx, paths)
		if err != nil {
			return console.Exit(err.Error(), 1)
		}

		executor := bffile.NewExecutor(c.App.Writer, env.log)
		summary, err := executor.Execute(ctx, plan, !c.Bool("execute"))
		if err != nil {
			var renameErr *bffile.RenameError
			if errors.As(err, &renameErr) {
				return console.Exit(fmt.Sprintf("%v (%d of %d files were renamed before the failure and were left in place)", err, summary.Renamed, summary.Planned), 1)
			}
			return console.Exit(err.Error(), 1)
		}

		if !summary.DryRun && summary.Planned > 0 {
			fmt.Fprintf(c.App.Writer, "Summary: %d renamed.\n", summary.Renamed)
		}
		return nil
	},
}
