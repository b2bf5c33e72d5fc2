package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dkarlovi/bookferry/style"
)

// PlanEntry is one planned rename.
type PlanEntry struct {
	Destination string
	Source      string
}

// Plan maps destination paths to the source paths that will be renamed to
// them. Each destination appears once; entries keep insertion order.
type Plan struct {
	entries []PlanEntry
	index   map[string]int
}

func NewPlan() *Plan {
	return &Plan{index: make(map[string]int)}
}

// Add inserts dest -> src and reports false if dest is already planned.
func (p *Plan) Add(dest, src string) bool {
	if _, ok := p.index[dest]; ok {
		return false
	}
	p.index[dest] = len(p.entries)
	p.entries = append(p.entries, PlanEntry{Destination: dest, Source: src})
	return true
}

// Source returns the source planned for dest.
func (p *Plan) Source(dest string) (string, bool) {
	i, ok := p.index[dest]
	if !ok {
		return "", false
	}
	return p.entries[i].Source, true
}

func (p *Plan) Len() int {
	return len(p.entries)
}

func (p *Plan) Entries() []PlanEntry {
	return p.entries
}

// Planner builds a collision-free rename plan from files and directories.
type Planner struct {
	Registry *FormatRegistry
	Exclude  []string
	Out      io.Writer
	Log      zerolog.Logger
}

func NewPlanner(reg *FormatRegistry, out io.Writer, log zerolog.Logger) *Planner {
	return &Planner{Registry: reg, Out: out, Log: log}
}

// Plan expands paths into candidates and folds them into a plan. Arguments
// that are neither a file nor a directory abort before any candidate is read.
// WouldOverwriteError and CollisionError abort the whole plan; other per-file
// problems are reported to Out and the file is left out.
func (pl *Planner) Plan(ctx context.Context, paths []string) (*Plan, error) {
	kinds := make([]argumentKind, len(paths))
	for i, p := range paths {
		kinds[i] = classify(p)
		if kinds[i] == argumentInvalid {
			return nil, &InvalidArgumentError{Path: p}
		}
	}

	plan := NewPlan()
	for i, p := range paths {
		if kinds[i] == argumentFile {
			if err := pl.processCandidate(ctx, p, plan); err != nil {
				return nil, err
			}
			continue
		}

		pl.Log.Debug().Str("dir", p).Msg("scanning directory")
		for candidate := range Walk(p, pl.Registry.IsPackage, pl.Exclude, pl.Log) {
			if err := pl.processCandidate(ctx, candidate, plan); err != nil {
				return nil, err
			}
		}
	}
	return plan, nil
}

func (pl *Planner) processCandidate(ctx context.Context, path string, plan *Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(pl.Out, "  %s: %s\n", style.Failure("INVALID PATH"), style.Plain(path))
		return nil
	}

	title, format, err := pl.readTitle(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		pl.Log.Debug().Err(err).Str("path", path).Msg("cannot rename")
		fmt.Fprintf(pl.Out, "  %s\n", style.Highlight(fmt.Sprintf("Cannot rename: %s. The file is invalid or does not have title metadata", path)))
		return nil
	}

	newPath := targetPath(path, title, format.TargetExtension(path))
	if newPath == filepath.Clean(path) {
		fmt.Fprintf(pl.Out, "  Skipping %s as its name already matches the title\n", style.Highlight(path))
		return nil
	}

	// we have a file that would be renamed to match a file that currently
	// exists, unless that file is the candidate itself under another case
	if existing, err := os.Stat(newPath); err == nil {
		src, srcErr := os.Stat(path)
		if srcErr != nil || !os.SameFile(existing, src) {
			return &WouldOverwriteError{Existing: newPath, Source: path}
		}
	}

	if first, ok := plan.Source(newPath); ok {
		if filepath.Clean(first) == filepath.Clean(path) {
			pl.Log.Debug().Str("path", path).Msg("already planned")
			return nil
		}
		return &CollisionError{First: first, Second: path, Destination: newPath}
	}

	plan.Add(newPath, path)
	pl.Log.Debug().Str("from", path).Str("to", newPath).Str("format", format.Name).Msg("planned")
	return nil
}

// readTitle returns the trimmed, non-blank title of path.
func (pl *Planner) readTitle(ctx context.Context, path string) (string, *Format, error) {
	meta, format, err := pl.Registry.Read(ctx, path)
	if err != nil {
		return "", format, err
	}
	title, _ := meta.First("title")
	if title = strings.TrimSpace(title); sanitizeTitle(title) == "" {
		return "", format, &MissingTitleError{Path: path}
	}
	return title, format, nil
}
