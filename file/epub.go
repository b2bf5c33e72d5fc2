package file

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/mholt/archives"
)

const (
	containerPath = "META-INF/container.xml"
	opfMediaType  = "application/oebps-package+xml"
)

// package documents are small; anything bigger is not worth buffering
var maxDocumentSize = 8 << 20

// ReadEPUB reads the OPF metadata of the EPUB container at filename.
func ReadEPUB(ctx context.Context, filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, input, err := archives.Identify(ctx, filename, f)
	if err != nil {
		return nil, fmt.Errorf("not an e-book container: %w", err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("container format %T does not support reading", format)
	}

	docs, err := readPackageDocuments(ctx, extractor, input)
	if err != nil {
		return nil, err
	}

	container, ok := docs[containerPath]
	if !ok {
		return nil, errors.New("missing " + containerPath)
	}
	rootfile, err := parseContainer(container)
	if err != nil {
		return nil, err
	}
	opf, ok := docs[rootfile]
	if !ok {
		return nil, fmt.Errorf("package document %s not found", rootfile)
	}
	return parseOPF(opf)
}

// readPackageDocuments buffers the container descriptor and every OPF file in
// a single pass, since the archive order of entries is not fixed.
func readPackageDocuments(ctx context.Context, extractor archives.Extractor, input io.Reader) (map[string][]byte, error) {
	docs := make(map[string][]byte)
	handler := func(ctx context.Context, f archives.FileInfo) error {
		if f.IsDir() {
			return nil
		}
		name := path.Clean(f.NameInArchive)
		if name != containerPath && !strings.EqualFold(path.Ext(name), ".opf") {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, int64(maxDocumentSize)+1))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) > maxDocumentSize {
			return &DocumentTooLargeError{Name: name, Limit: maxDocumentSize}
		}
		docs[name] = data
		return nil
	}
	if err := extractor.Extract(ctx, input, handler); err != nil {
		return nil, err
	}
	return docs, nil
}

type containerDocument struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// parseContainer returns the archive path of the first OPF rootfile.
func parseContainer(data []byte) (string, error) {
	var doc containerDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse %s: %w", containerPath, err)
	}
	for _, rf := range doc.Rootfiles {
		if rf.FullPath == "" {
			continue
		}
		if rf.MediaType == "" || rf.MediaType == opfMediaType {
			return path.Clean(strings.TrimPrefix(rf.FullPath, "/")), nil
		}
	}
	return "", errors.New("no package document in " + containerPath)
}

type opfElement struct {
	Text  string     `xml:",chardata"`
	Attrs []xml.Attr `xml:",any,attr"`
}

func (e *opfElement) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseOPF collects the children of the package <metadata> element.
func parseOPF(data []byte) (*Metadata, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	meta := NewMetadata()
	inMetadata := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse package document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !inMetadata {
				inMetadata = t.Name.Local == "metadata"
				continue
			}
			// OEBPS 1.x wraps the items in dc-metadata/x-metadata
			if t.Name.Local == "dc-metadata" || t.Name.Local == "x-metadata" {
				continue
			}
			var el opfElement
			if err := dec.DecodeElement(&el, &t); err != nil {
				return nil, fmt.Errorf("parse package document: %w", err)
			}
			addOPFElement(meta, t.Name.Local, &el)
		case xml.EndElement:
			if inMetadata && t.Name.Local == "metadata" {
				return meta, nil
			}
		}
	}
	if !inMetadata {
		return nil, errors.New("package document has no metadata")
	}
	return meta, nil
}

func addOPFElement(meta *Metadata, local string, el *opfElement) {
	key, value := local, el.Text
	if local == "meta" {
		if name := el.attr("name"); name != "" {
			key, value = name, el.attr("content")
		} else if prop := el.attr("property"); prop != "" {
			key = prop
		} else {
			return
		}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	meta.Add(key, value)
}
