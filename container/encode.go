package container

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/wippyai/wasmpkg/errors"
)

// ByteOrder is the byte order of header words and UTF-16 code units.
// WebAssembly linear memory is little-endian, so a container placed in
// module memory reads back correctly on every host.
var ByteOrder = binary.LittleEndian

const (
	// EntryAlign is the alignment of every entry's start offset.
	EntryAlign = 8
	// SizeAlign is the alignment of the container's total length.
	SizeAlign = 4
	// NameSeparator joins entry names in the trailing name-list entry.
	NameSeparator = "\n"
)

// Entry locates one payload inside a container.
type Entry struct {
	Name   string
	Kind   Kind
	Length int
	Offset int
}

// Attr returns the attribute word describing the entry.
func (e Entry) Attr() Attr {
	return Attr(uint32(e.Kind)<<kindShift | uint32(e.Length))
}

// End returns the offset one past the payload.
func (e Entry) End() int {
	return e.Offset + e.Length
}

// Plan is the computed layout of a container.
type Plan struct {
	// Entries holds one entry per input file, in encode order.
	Entries []Entry
	// Names is the synthetic trailing entry holding the joined name list.
	Names Entry
	// HeaderSize is the length of the attribute table in bytes.
	HeaderSize int
	// Size is the total container length, padded to SizeAlign.
	Size int

	names string
}

// HeaderSize returns the header length for a container of n files:
// the file count, n attributes and the name-list attribute.
func HeaderSize(n int) int {
	return 4 * (1 + n + 1)
}

func alignUp(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// Layout validates the input and computes where every payload goes
// without copying any of them.
func Layout(in *Input) (*Plan, error) {
	n := in.Len()
	plan := &Plan{
		Entries:    make([]Entry, 0, n),
		HeaderSize: HeaderSize(n),
	}

	for _, f := range in.Binary {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
	}
	for _, f := range in.Text {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
	}

	offset := plan.HeaderSize
	place := func(name string, kind Kind, length int) (Entry, error) {
		if length > MaxEntryLen {
			return Entry{}, errors.Overflow(errors.PhaseEncode, []string{name}, length, "30-bit entry length")
		}
		offset = alignUp(offset, EntryAlign)
		e := Entry{Name: name, Kind: kind, Length: length, Offset: offset}
		offset += length
		return e, nil
	}

	for _, f := range in.Binary {
		e, err := place(f.Name, KindBinary, len(f.Data))
		if err != nil {
			return nil, err
		}
		plan.Entries = append(plan.Entries, e)
	}
	for _, f := range in.Text {
		kind, length := textShape(f.Text)
		e, err := place(f.Name, kind, length)
		if err != nil {
			return nil, err
		}
		plan.Entries = append(plan.Entries, e)
	}

	plan.names = strings.Join(in.Names(), NameSeparator)
	kind, length := textShape(plan.names)
	names, err := place("", kind, length)
	if err != nil {
		return nil, errors.Overflow(errors.PhaseEncode, nil, length, "30-bit name list length")
	}
	plan.Names = names
	plan.Size = alignUp(offset, SizeAlign)
	return plan, nil
}

// Encode lays out the input as a single container.
func Encode(in *Input) ([]byte, error) {
	plan, err := Layout(in)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, plan.Size)
	ByteOrder.PutUint32(buf, uint32(len(plan.Entries)))
	for i, e := range plan.Entries {
		ByteOrder.PutUint32(buf[4*(1+i):], uint32(e.Attr()))
	}
	ByteOrder.PutUint32(buf[4*(1+len(plan.Entries)):], uint32(plan.Names.Attr()))

	i := 0
	for _, f := range in.Binary {
		e := plan.Entries[i]
		copy(buf[e.Offset:e.End()], f.Data)
		i++
	}
	for _, f := range in.Text {
		e := plan.Entries[i]
		putText(buf[e.Offset:e.End()], f.Text, e.Kind)
		i++
	}
	putText(buf[plan.Names.Offset:plan.Names.End()], plan.names, plan.Names.Kind)

	return buf, nil
}

func checkName(name string) error {
	if strings.Contains(name, NameSeparator) {
		return errors.InvalidName(name, "contains newline")
	}
	return nil
}

// textShape returns the narrowest kind able to hold s and the encoded
// length. Characters are counted as UTF-16 code units; invalid UTF-8
// bytes count as U+FFFD.
func textShape(s string) (Kind, int) {
	units := 0
	wide := false
	for _, r := range s {
		if r > 0xFF {
			wide = true
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	if wide {
		return KindUTF16, 2 * units
	}
	return KindLatin1, units
}

// putText writes s into dst using the given kind. dst must have the
// length reported by textShape.
func putText(dst []byte, s string, kind Kind) {
	i := 0
	if kind == KindLatin1 {
		for _, r := range s {
			dst[i] = byte(r)
			i++
		}
		return
	}
	for _, r := range s {
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			ByteOrder.PutUint16(dst[i:], uint16(hi))
			ByteOrder.PutUint16(dst[i+2:], uint16(lo))
			i += 4
			continue
		}
		ByteOrder.PutUint16(dst[i:], uint16(r))
		i += 2
	}
}
