package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dkarlovi/bookferry/style"
)

// Info prints every metadata key of the package at path followed by its
// values, one per indented line. Keys and values are escaped for the
// terminal formatter and print exactly as stored.
func Info(ctx context.Context, w io.Writer, reg *FormatRegistry, path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return &InvalidPathError{Path: path}
	}

	meta, _, err := reg.Read(ctx, path)
	if err != nil {
		return err
	}

	for _, key := range meta.Keys() {
		fmt.Fprintln(w, style.Plain(key))
		for _, value := range meta.Values(key) {
			fmt.Fprintf(w, "  %s\n", style.Plain(value))
		}
	}
	return nil
}
