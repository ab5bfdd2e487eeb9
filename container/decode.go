package container

import (
	"strings"

	"github.com/wippyai/wasmpkg/errors"
)

// Decoder reconstructs packages from container bytes.
type Decoder struct {
	// Tuner is the shared text chunk size. Nil gives the decoder a
	// private tuner starting at DefaultChunkSize.
	Tuner *ChunkTuner

	// Converter converts text chunks. Nil means DefaultConverter.
	Converter Converter
}

// Decode reads a container that starts at buf[0]. buf may extend past
// the end of the container, as module memory does.
func Decode(buf []byte, tuner *ChunkTuner) (*Package, error) {
	d := &Decoder{Tuner: tuner}
	return d.Decode(buf)
}

// Decode reads a container that starts at buf[0].
func (d *Decoder) Decode(buf []byte) (*Package, error) {
	text := &textDecoder{tuner: d.Tuner, convert: d.Converter}
	if text.tuner == nil {
		text.tuner = NewChunkTuner(DefaultChunkSize)
	}
	if text.convert == nil {
		text.convert = DefaultConverter
	}

	if len(buf) < 4 {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, 0, 4, len(buf))
	}
	count := int(ByteOrder.Uint32(buf))
	if uint64(HeaderSize(count)) > uint64(len(buf)) {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(count).
			Detail("header for %d files exceeds buffer of %d bytes", count, len(buf)).
			Build()
	}

	entries := make([]Entry, count)
	offset := HeaderSize(count)
	var names []string
	for i := 0; ; i++ {
		attr := Attr(ByteOrder.Uint32(buf[4*(1+i):]))
		offset = alignUp(offset, EntryAlign)
		e := Entry{Kind: attr.Kind(), Length: attr.Len(), Offset: offset}
		if e.Kind > KindUTF16 {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Value(e.Kind).
				Detail("entry %d has unknown kind %d", i, e.Kind).
				Build()
		}
		if e.End() > len(buf) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, nil, e.Offset, e.Length, len(buf))
		}
		if e.Kind == KindUTF16 && e.Length%2 != 0 {
			return nil, errors.InvalidData(errors.PhaseDecode, nil, "odd length for utf16 entry")
		}

		if i == count {
			if !e.Kind.IsText() {
				return nil, errors.InvalidData(errors.PhaseDecode, nil, "name list is not stored as text")
			}
			joined, err := text.decode("", buf[e.Offset:e.End()], e.Kind)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				names = strings.Split(joined, NameSeparator)
			} else if joined != "" {
				return nil, errors.InvalidData(errors.PhaseDecode, nil, "name list present in empty container")
			}
			offset = e.End()
			break
		}
		entries[i] = e
		offset = e.End()
	}

	if len(names) != count {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("name list has %d names for %d files", len(names), count).
			Build()
	}

	p := &Package{
		buf:     buf,
		entries: entries,
		index:   make(map[string]int, count),
		files:   make([]string, 0, count),
		size:    alignUp(offset, SizeAlign),
		text:    text,
	}
	for i, name := range names {
		p.entries[i].Name = name
		if _, seen := p.index[name]; !seen {
			p.files = append(p.files, name)
		}
		p.index[name] = i
	}
	return p, nil
}
