package container

import (
	"fmt"

	"github.com/wippyai/wasmpkg/errors"
)

// Kind tags how an entry's payload is stored.
type Kind uint8

const (
	KindBinary Kind = 0 // raw bytes
	KindLatin1 Kind = 1 // one byte per UTF-16 code unit, every unit <= 0xFF
	KindUTF16  Kind = 2 // two bytes per UTF-16 code unit, little-endian
)

// String returns the name used in listings.
func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "bin"
	case KindLatin1:
		return "latin1"
	case KindUTF16:
		return "utf16"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsText reports whether entries of this kind decode to a string.
func (k Kind) IsText() bool {
	return k == KindLatin1 || k == KindUTF16
}

const (
	kindShift = 30
	lenMask   = 1<<kindShift - 1

	// MaxEntryLen is the largest payload an attribute word can describe.
	MaxEntryLen = lenMask
)

// Attr is an attribute word: the kind in the top 2 bits, the payload
// length in the low 30.
type Attr uint32

// PackAttr builds an attribute word. Lengths that do not fit in 30 bits
// are rejected rather than truncated.
func PackAttr(kind Kind, length int) (Attr, error) {
	if kind > KindUTF16 {
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(kind).
			Detail("unknown entry kind %d", kind).
			Build()
	}
	if length < 0 || length > MaxEntryLen {
		return 0, errors.Overflow(errors.PhaseEncode, nil, length, "30-bit entry length")
	}
	return Attr(uint32(kind)<<kindShift | uint32(length)), nil
}

// Kind returns the stored kind.
func (a Attr) Kind() Kind {
	return Kind(uint32(a) >> kindShift)
}

// Len returns the stored payload length.
func (a Attr) Len() int {
	return int(uint32(a) & lenMask)
}
