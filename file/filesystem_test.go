package file

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Foo", expected: "Foo"},
		{name: "trimmed", input: "  Foo Bar \n", expected: "Foo Bar"},
		{name: "slash replaced", input: "Either/Or", expected: "Either-Or"},
		{name: "nul dropped", input: "Fo\x00o", expected: "Foo"},
		{name: "double dashes kept", input: "Foo -- Bar", expected: "Foo -- Bar"},
		{name: "blank", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeTitle(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeTitle(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		title    string
		ext      string
		expected string
	}{
		{
			name:     "relative file",
			src:      "book1.epub",
			title:    "Foo",
			ext:      ".epub",
			expected: "Foo.epub",
		},
		{
			name:     "nested file keeps directory",
			src:      filepath.Join("library", "sci-fi", "book1.epub"),
			title:    " Dune ",
			ext:      ".epub",
			expected: filepath.Join("library", "sci-fi", "Dune.epub"),
		},
		{
			name:     "file without extension",
			src:      filepath.Join("/tmp", "download"),
			title:    "Foo",
			ext:      ".epub",
			expected: filepath.Join("/tmp", "Foo.epub"),
		},
		{
			name:     "title with separator",
			src:      filepath.Join("/tmp", "x.m4b"),
			title:    "AC/DC",
			ext:      ".m4b",
			expected: filepath.Join("/tmp", "AC-DC.m4b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := targetPath(tt.src, tt.title, tt.ext)
			if result != tt.expected {
				t.Errorf("targetPath(%q, %q, %q) = %q; want %q", tt.src, tt.title, tt.ext, result, tt.expected)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	patterns := []string{"**/.Trash*/**", "drafts/*"}

	tests := []struct {
		name     string
		rel      string
		expected bool
	}{
		{name: "trash file", rel: filepath.Join("a", ".Trash-1000", "x.epub"), expected: true},
		{name: "drafts file", rel: filepath.Join("drafts", "x.epub"), expected: true},
		{name: "nested drafts not matched", rel: filepath.Join("a", "drafts", "x.epub"), expected: false},
		{name: "regular file", rel: "x.epub", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isExcluded(patterns, tt.rel)
			if result != tt.expected {
				t.Errorf("isExcluded(%q) = %v; want %v", tt.rel, result, tt.expected)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		"b.epub",
		"a.epub",
		"notes.txt",
		filepath.Join("sub", "c.EPUB"),
		filepath.Join("sub", "deeper", "d.epub"),
		filepath.Join("drafts", "e.epub"),
	}
	for _, f := range files {
		writeFile(t, filepath.Join(tmpDir, f), "x")
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "dir.epub"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	var got []string
	for p := range Walk(tmpDir, DefaultRegistry.IsPackage, []string{"drafts/**"}, zerolog.Nop()) {
		rel, _ := filepath.Rel(tmpDir, p)
		got = append(got, rel)
	}

	want := []string{
		"a.epub",
		"b.epub",
		filepath.Join("sub", "c.EPUB"),
		filepath.Join("sub", "deeper", "d.epub"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v; want %v", got, want)
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"a.epub", "b.epub", "c.epub"} {
		writeFile(t, filepath.Join(tmpDir, f), "x")
	}

	count := 0
	for range Walk(tmpDir, DefaultRegistry.IsPackage, nil, zerolog.Nop()) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected to stop after 2 files, got %d", count)
	}
}

func TestWalk_FollowsFileSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.epub")
	writeFile(t, target, "x")
	if err := os.Symlink(target, filepath.Join(tmpDir, "link.epub")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmpDir, "nowhere.epub"), filepath.Join(tmpDir, "broken.epub")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	var got []string
	for p := range Walk(tmpDir, DefaultRegistry.IsPackage, nil, zerolog.Nop()) {
		got = append(got, filepath.Base(p))
	}
	if !reflect.DeepEqual(got, []string{"link.epub"}) {
		t.Errorf("Walk() = %v; want [link.epub]", got)
	}
}

func TestClassify(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "book.epub")
	writeFile(t, file, "x")

	if k := classify(file); k != argumentFile {
		t.Errorf("classify(file) = %v; want argumentFile", k)
	}
	if k := classify(tmpDir); k != argumentDirectory {
		t.Errorf("classify(dir) = %v; want argumentDirectory", k)
	}
	if k := classify(filepath.Join(tmpDir, "missing")); k != argumentInvalid {
		t.Errorf("classify(missing) = %v; want argumentInvalid", k)
	}
}

func TestWalk_FollowsSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(target, "a.epub"), "x")
	writeFile(t, filepath.Join(target, "drafts", "b.epub"), "x")
	writeFile(t, filepath.Join(target, "sub", "c.epub"), "x")
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	var got []string
	for p := range Walk(link, DefaultRegistry.IsPackage, []string{"drafts/**"}, zerolog.Nop()) {
		got = append(got, p)
	}

	want := []string{
		filepath.Join(link, "a.epub"),
		filepath.Join(link, "sub", "c.epub"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v; want %v", got, want)
	}
}
