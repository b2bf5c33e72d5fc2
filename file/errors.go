package file

import (
	"errors"
	"fmt"
)

var errNoFormats = errors.New("no package formats enabled")

// InvalidArgumentError is returned when a rename argument is neither a file
// nor a directory.
type InvalidArgumentError struct {
	Path string
}

func (e *InvalidArgumentError) Error() string {
	return e.Path + " is neither a file nor a directory"
}

// InvalidPathError is returned by Info when the target is not an existing file.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("File '%s' does not exist", e.Path)
}

type UnreadableMetadataError struct {
	Path   string
	Format string
	Err    error
}

func (e *UnreadableMetadataError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("failed to read metadata of %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to open %s as %s file: %v", e.Path, e.Format, e.Err)
}

func (e *UnreadableMetadataError) Unwrap() error {
	return e.Err
}

// DocumentTooLargeError is returned when a package document inside a
// container exceeds the read limit.
type DocumentTooLargeError struct {
	Name  string
	Limit int
}

func (e *DocumentTooLargeError) Error() string {
	return fmt.Sprintf("package document %s too large (over %d bytes)", e.Name, e.Limit)
}

type MissingTitleError struct {
	Path string
}

func (e *MissingTitleError) Error() string {
	return e.Path + " does not have title metadata"
}

// WouldOverwriteError means the destination of Source already exists on disk.
type WouldOverwriteError struct {
	Existing string
	Source   string
}

func (e *WouldOverwriteError) Error() string {
	return fmt.Sprintf("%s would be overwritten by %s", e.Existing, e.Source)
}

// CollisionError means two candidates resolve to the same destination.
type CollisionError struct {
	First       string
	Second      string
	Destination string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("Collision detected: %s and %s resolve to %s", e.First, e.Second, e.Destination)
}

// RenameError wraps a failed rename during execution. Renamed counts the
// entries that were applied before the failure.
type RenameError struct {
	Source      string
	Destination string
	Renamed     int
	Err         error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("failed to rename %s to %s: %v", e.Source, e.Destination, e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown package format %q", e.Name)
}
