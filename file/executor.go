package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/dkarlovi/bookferry/style"
)

// Summary reports how far an execution got.
type Summary struct {
	Planned int
	Renamed int
	DryRun  bool
}

// Executor prints or applies a Plan.
type Executor struct {
	Out io.Writer
	Log zerolog.Logger

	// Rename defaults to os.Rename.
	Rename func(oldpath, newpath string) error
}

func NewExecutor(out io.Writer, log zerolog.Logger) *Executor {
	return &Executor{Out: out, Log: log}
}

// Execute prints the plan when dryRun is set and renames every entry
// otherwise. The first failed rename stops the run; renames already applied
// stay in place.
func (e *Executor) Execute(ctx context.Context, plan *Plan, dryRun bool) (Summary, error) {
	summary := Summary{Planned: plan.Len(), DryRun: dryRun}

	if plan.Len() == 0 {
		fmt.Fprintf(e.Out, "\n  %s\n", style.Highlight("No eligible files found to rename."))
		return summary, nil
	}

	if dryRun {
		for _, entry := range plan.Entries() {
			fmt.Fprintf(e.Out, "  Would rename %s to %s\n", style.Highlight(entry.Source), style.Highlight(entry.Destination))
		}
		fmt.Fprintf(e.Out, "\n  %s\n", style.Attention("Rerun with --execute to actually make changes."))
		return summary, nil
	}

	rename := e.Rename
	if rename == nil {
		rename = os.Rename
	}
	for _, entry := range plan.Entries() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fmt.Fprintf(e.Out, "  Renaming %s to %s\n", style.Highlight(entry.Source), style.Highlight(entry.Destination))
		if err := rename(entry.Source, entry.Destination); err != nil {
			e.Log.Debug().Err(err).Int("renamed", summary.Renamed).Msg("rename failed")
			return summary, &RenameError{
				Source:      entry.Source,
				Destination: entry.Destination,
				Renamed:     summary.Renamed,
				Err:         err,
			}
		}
		summary.Renamed++
	}

	fmt.Fprintf(e.Out, "\n  %s\n", style.Success("Done"))
	return summary, nil
}
