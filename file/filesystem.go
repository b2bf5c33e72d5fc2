package file

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// targetPath replaces the file name of src with the title plus ext, keeping
// the parent directory.
func targetPath(src, title, ext string) string {
	name := sanitizeTitle(title) + ext
	return filepath.Join(filepath.Dir(src), name)
}

// sanitizeTitle trims the title and replaces path separators so the result
// stays a single path component.
func sanitizeTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == os.PathSeparator:
			return '-'
		case r == 0:
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	return strings.TrimSpace(title)
}

// isExcluded matches the slash-separated path relative to the walk root
// against the exclude globs.
func isExcluded(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Walk yields the regular files below root, in lexical order, that accept
// reports true for. Entries that cannot be read are skipped silently,
// symlinks to files are followed, symlinked directories are not. A symlinked
// root is followed and yielded paths stay under root as given.
func Walk(root string, accept func(path string) bool, exclude []string, log zerolog.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		walkRoot := resolveRoot(root, log)
		_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
				return nil
			}
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr == nil && walkRoot != root {
				path = filepath.Join(root, rel)
			}
			if relErr == nil && rel != "." && isExcluded(exclude, rel) {
				log.Debug().Str("path", path).Msg("excluded")
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !isRegularFile(path, d) || !accept(path) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// resolveRoot returns the target of a symlinked root, since WalkDir does not
// descend into a root that is a link.
func resolveRoot(root string, log zerolog.Logger) string {
	fi, err := os.Lstat(root)
	if err != nil || fi.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	target, err := filepath.EvalSymlinks(root)
	if err != nil {
		log.Debug().Err(err).Str("path", root).Msg("cannot resolve root")
		return root
	}
	return target
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// argumentKind classifies a top-level rename argument.
type argumentKind int

const (
	argumentInvalid argumentKind = iota
	argumentFile
	argumentDirectory
)

func classify(path string) argumentKind {
	fi, err := os.Stat(path)
	switch {
	case err != nil:
		return argumentInvalid
	case fi.Mode().IsRegular():
		return argumentFile
	case fi.IsDir():
		return argumentDirectory
	}
	return argumentInvalid
}
