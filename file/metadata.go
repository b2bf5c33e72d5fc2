package file

import (
	"context"
	"path/filepath"
	"strings"
)

// Metadata maps a metadata key to its values. Keys keep the order in which
// the reader first saw them, values keep document order.
type Metadata struct {
	keys   []string
	values map[string][]string
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string][]string)}
}

func (m *Metadata) Add(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

func (m *Metadata) Keys() []string {
	return m.keys
}

func (m *Metadata) Values(key string) []string {
	return m.values[key]
}

// First returns the first value stored for key.
func (m *Metadata) First(key string) (string, bool) {
	v := m.values[key]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (m *Metadata) Len() int {
	return len(m.keys)
}

// Reader extracts metadata from a package file.
type Reader interface {
	Read(ctx context.Context, path string) (*Metadata, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, path string) (*Metadata, error)

func (f ReaderFunc) Read(ctx context.Context, path string) (*Metadata, error) {
	return f(ctx, path)
}

// Format describes one package format. The first extension is canonical.
type Format struct {
	Name       string
	Extensions []string
	Reader     Reader
}

func (f *Format) matches(ext string) bool {
	for _, e := range f.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TargetExtension is the extension a renamed file of this format gets: the
// file's own extension when the format knows it, else the canonical one.
func (f *Format) TargetExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if f.matches(ext) {
		return ext
	}
	return f.Extensions[0]
}

// FormatRegistry holds the enabled package formats. The first registered
// format is the fallback for files with an unknown extension.
type FormatRegistry struct {
	Formats []*Format
}

func NewFormatRegistry(formats ...*Format) *FormatRegistry {
	return &FormatRegistry{Formats: formats}
}

// Names lists the enabled format names, fallback format first.
func (r *FormatRegistry) Names() []string {
	names := make([]string, 0, len(r.Formats))
	for _, f := range r.Formats {
		names = append(names, f.Name)
	}
	return names
}

func (r *FormatRegistry) lookup(path string) *Format {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range r.Formats {
		if f.matches(ext) {
			return f
		}
	}
	return nil
}

// IsPackage checks if the path has the extension of an enabled format.
func (r *FormatRegistry) IsPackage(path string) bool {
	return r.lookup(path) != nil
}

// ForPath returns the format to read path with. Explicitly named files are
// not filtered by extension, so unknown extensions get the default format.
func (r *FormatRegistry) ForPath(path string) *Format {
	if f := r.lookup(path); f != nil {
		return f
	}
	if len(r.Formats) == 0 {
		return nil
	}
	return r.Formats[0]
}

// Read opens path with the format chosen by ForPath.
func (r *FormatRegistry) Read(ctx context.Context, path string) (*Metadata, *Format, error) {
	format := r.ForPath(path)
	if format == nil {
		return nil, nil, &UnreadableMetadataError{Path: path, Err: errNoFormats}
	}
	meta, err := format.Reader.Read(ctx, path)
	if err != nil {
		return nil, format, &UnreadableMetadataError{Path: path, Format: format.Name, Err: err}
	}
	return meta, format, nil
}

var (
	EPUB = &Format{Name: "epub", Extensions: []string{".epub"}, Reader: ReaderFunc(ReadEPUB)}
	M4B  = &Format{Name: "m4b", Extensions: []string{".m4b"}, Reader: ReaderFunc(ReadM4B)}
	MKA  = &Format{Name: "mka", Extensions: []string{".mka"}, Reader: ReaderFunc(ReadMKA)}
)

var formatsByName = map[string]*Format{
	EPUB.Name: EPUB,
	M4B.Name:  M4B,
	MKA.Name:  MKA,
}

// DefaultRegistry reads EPUB and M4B files.
var DefaultRegistry = NewFormatRegistry(EPUB, M4B)

// RegistryFor builds a registry from format names, in the given order.
// EPUB stays the fallback format whenever it is enabled.
func RegistryFor(names []string) (*FormatRegistry, error) {
	reg := &FormatRegistry{}
	for _, name := range names {
		f, ok := formatsByName[name]
		if !ok {
			return nil, &UnknownFormatError{Name: name}
		}
		if f == EPUB {
			reg.Formats = append([]*Format{f}, reg.Formats...)
			continue
		}
		reg.Formats = append(reg.Formats, f)
	}
	return reg, nil
}
