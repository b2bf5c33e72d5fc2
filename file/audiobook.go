package file

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/abema/go-mp4"
	mkvparse "github.com/remko/go-mkvparse"
)

// iTunes-style tag atoms under moov/udta/meta/ilst.
var ilstKeys = map[mp4.BoxType]string{
	{0xA9, 'n', 'a', 'm'}: "title",
	{0xA9, 'A', 'R', 'T'}: "artist",
	{'a', 'A', 'R', 'T'}:  "album_artist",
	{0xA9, 'a', 'l', 'b'}: "album",
	{0xA9, 'w', 'r', 't'}: "composer",
	{0xA9, 'd', 'a', 'y'}: "date",
	{0xA9, 'g', 'e', 'n'}: "genre",
	{0xA9, 'c', 'm', 't'}: "comment",
	{0xA9, 't', 'o', 'o'}: "encoder",
	{'d', 'e', 's', 'c'}:  "description",
	{'c', 'p', 'r', 't'}:  "copyright",
}

var (
	freeformAtom = mp4.BoxType{'-', '-', '-', '-'}
	coverAtom    = mp4.BoxType{'c', 'o', 'v', 'r'}
)

const (
	ilstTypeUTF8 = 1

	// tag items carrying more than this are artwork or blobs, not text
	maxTagItemSize = 1 << 20
)

// ReadM4B reads the iTunes metadata list of an MPEG-4 audiobook.
func ReadM4B(ctx context.Context, filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := mp4.ExtractBox(f, nil, mp4.BoxPath{
		mp4.BoxTypeMoov(),
		mp4.BoxTypeUdta(),
		mp4.BoxTypeMeta(),
		mp4.BoxTypeIlst(),
		mp4.BoxTypeAny(),
	})
	if err != nil {
		return nil, err
	}

	meta := NewMetadata()
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.Type == coverAtom || item.Size <= item.HeaderSize || item.Size > maxTagItemSize {
			continue
		}
		payload := make([]byte, item.Size-item.HeaderSize)
		if _, err := f.ReadAt(payload, int64(item.Offset+item.HeaderSize)); err != nil {
			return nil, err
		}
		key, values := decodeIlstItem(item.Type, payload)
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				meta.Add(key, v)
			}
		}
	}
	return meta, nil
}

// decodeIlstItem reads the data (and, for freeform items, name) atoms inside
// one ilst entry.
func decodeIlstItem(typ mp4.BoxType, payload []byte) (string, []string) {
	key, ok := ilstKeys[typ]
	if !ok {
		key = atomName(typ)
	}
	var values []string
	for len(payload) >= 8 {
		size := int(binary.BigEndian.Uint32(payload[0:4]))
		if size < 8 || size > len(payload) {
			break
		}
		body := payload[8:size]
		switch string(payload[4:8]) {
		case "data":
			if len(body) >= 8 && binary.BigEndian.Uint32(body[0:4])&0xFFFFFF == ilstTypeUTF8 {
				values = append(values, string(body[8:]))
			}
		case "name":
			if typ == freeformAtom && len(body) >= 4 {
				key = string(body[4:])
			}
		}
		payload = payload[size:]
	}
	return key, values
}

// atomName renders a four-character code, mapping the 0xA9 prefix byte to ©.
func atomName(typ mp4.BoxType) string {
	if typ[0] == 0xA9 {
		return "©" + string(typ[1:])
	}
	return string(typ[:])
}

// ReadMKA reads the segment info and tags of a Matroska audiobook.
func ReadMKA(ctx context.Context, filename string) (*Metadata, error) {
	h := &mkaHandler{ctx: ctx, meta: NewMetadata()}
	if err := mkvparse.ParsePath(filename, h); err != nil {
		return nil, err
	}
	if !h.segment {
		return nil, errors.New("no Matroska segment found")
	}
	return h.meta, nil
}

type mkaHandler struct {
	ctx     context.Context
	meta    *Metadata
	segment bool

	tagName   string
	tagString string
}

func (h *mkaHandler) add(key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		h.meta.Add(key, value)
	}
}

func (h *mkaHandler) HandleMasterBegin(id mkvparse.ElementID, info mkvparse.ElementInfo) (bool, error) {
	if err := h.ctx.Err(); err != nil {
		return false, err
	}
	switch id {
	case mkvparse.SegmentElement:
		h.segment = true
	case mkvparse.ClusterElement, mkvparse.CuesElement, mkvparse.AttachmentsElement:
		return false, nil
	case mkvparse.SimpleTagElement:
		h.tagName, h.tagString = "", ""
	}
	return true, nil
}

func (h *mkaHandler) HandleMasterEnd(id mkvparse.ElementID, info mkvparse.ElementInfo) error {
	if id == mkvparse.SimpleTagElement && h.tagName != "" {
		h.add(strings.ToLower(h.tagName), h.tagString)
	}
	return nil
}

func (h *mkaHandler) HandleString(id mkvparse.ElementID, value string, info mkvparse.ElementInfo) error {
	switch id {
	case mkvparse.TitleElement:
		h.add("title", value)
	case mkvparse.MuxingAppElement:
		h.add("muxing_app", value)
	case mkvparse.WritingAppElement:
		h.add("writing_app", value)
	case mkvparse.TagNameElement:
		h.tagName = value
	case mkvparse.TagStringElement:
		h.tagString = value
	}
	return nil
}

func (h *mkaHandler) HandleInteger(id mkvparse.ElementID, value int64, info mkvparse.ElementInfo) error {
	return nil
}

func (h *mkaHandler) HandleFloat(id mkvparse.ElementID, value float64, info mkvparse.ElementInfo) error {
	return nil
}

func (h *mkaHandler) HandleDate(id mkvparse.ElementID, value time.Time, info mkvparse.ElementInfo) error {
	if id == mkvparse.DateUTCElement {
		h.add("date", value.UTC().Format(time.RFC3339))
	}
	return nil
}

func (h *mkaHandler) HandleBinary(id mkvparse.ElementID, value []byte, info mkvparse.ElementInfo) error {
	return nil
}
