package file

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/symfony-cli/terminal"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// opfWithMetadata wraps metadata children in a minimal package document.
func opfWithMetadata(children string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
` + children + `
  </metadata>
  <manifest/>
  <spine/>
</package>`
}

func titleOPF(title string) string {
	if title == "" {
		return opfWithMetadata(`<dc:language>en</dc:language>`)
	}
	return opfWithMetadata(fmt.Sprintf(`<dc:title>%s</dc:title>
<dc:creator>Jane Doe</dc:creator>
<dc:language>en</dc:language>`, title))
}

// writeEPUB writes a zip container holding the given OPF document.
func writeEPUB(t *testing.T, path, opf string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", testContainerXML},
		{"OEBPS/content.opf", opf},
		{"OEBPS/chapter1.xhtml", "<html><body><p>Hello</p></body></html>"},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write epub: %v", err)
	}
}

func writeTitledEPUB(t *testing.T, path, title string) {
	t.Helper()
	writeEPUB(t, path, titleOPF(title))
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

// mp4Box encodes an ISO BMFF box.
func mp4Box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(body)))
	copy(out[4:8], typ)
	return append(out, body...)
}

func ilstText(typ, value string) []byte {
	return mp4Box(typ, mp4Box("data", []byte{0, 0, 0, 1, 0, 0, 0, 0}, []byte(value)))
}

// writeM4B writes a minimal MPEG-4 file with an iTunes metadata list.
func writeM4B(t *testing.T, path string, items ...[]byte) {
	t.Helper()
	hdlr := mp4Box("hdlr",
		make([]byte, 8),
		[]byte("mdir"),
		make([]byte, 12),
		[]byte{0},
	)
	meta := mp4Box("meta", []byte{0, 0, 0, 0}, hdlr, mp4Box("ilst", items...))
	data := append(mp4Box("ftyp", []byte("M4B "), make([]byte, 4), []byte("M4B isom")),
		mp4Box("moov", mp4Box("udta", meta))...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write m4b: %v", err)
	}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// rendered runs console output through the terminal formatter with colors
// off, the way a non-tty stdout would print it.
func rendered(t *testing.T, s string) string {
	t.Helper()
	formatter := terminal.NewFormatter()
	formatter.Decorated = false
	out, err := formatter.FormatBytes([]byte(s))
	if err != nil {
		t.Fatalf("FormatBytes(%q) error = %v", s, err)
	}
	return string(out)
}
