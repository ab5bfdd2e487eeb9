package frame

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/wippyai/wasmpkg/errors"
	"github.com/wippyai/wasmpkg/wasm"
)

const (
	// MaxNameLen bounds the export-name padding search.
	MaxNameLen = 64

	// HeaderAlign is the alignment of the header length.
	HeaderAlign = 8

	// TrailerSize is the length of the dataLen word closing the frame.
	TrailerSize = 4
)

// Wrap returns a module whose memory starts with container. The container
// length should be a multiple of 4, as container.Encode produces.
func Wrap(container []byte) ([]byte, error) {
	size := uint64(len(container)) + TrailerSize
	if size > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseWrap, nil, size, "32-bit data segment length")
	}
	dataLen := uint32(size)

	header, err := Header(dataLen)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+int(size))
	out = append(out, header...)
	out = append(out, container...)
	out = binary.LittleEndian.AppendUint32(out, dataLen)
	return out, nil
}

// Header returns the module bytes that precede a data segment of dataLen
// bytes. The export name grows one byte at a time until the header length
// is a multiple of HeaderAlign.
func Header(dataLen uint32) ([]byte, error) {
	pages := (uint64(dataLen) + wasm.PageSize - 1) / wasm.PageSize

	for n := 0; n <= MaxNameLen; n++ {
		h, err := header(dataLen, uint32(pages), n)
		if err != nil {
			return nil, err
		}
		if len(h)%HeaderAlign == 0 {
			return h, nil
		}
	}
	return nil, errors.New(errors.PhaseWrap, errors.KindOverflow).
		Value(dataLen).
		Detail("no export name up to %d bytes aligns the header to %d", MaxNameLen, HeaderAlign).
		Build()
}

func header(dataLen, pages uint32, nameLen int) ([]byte, error) {
	// count, flags, i32.const 0 end, segment length
	seg := 1 + 1 + 3 + wasm.SizeLEB128u(dataLen)
	if uint64(seg)+uint64(dataLen) > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseWrap, nil, dataLen, "32-bit data section length")
	}

	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: uint64(pages)}}},
		Exports:  []wasm.Export{{Name: strings.Repeat("a", nameLen), Kind: wasm.KindMemory}},
		Data:     []wasm.DataSegment{{Flags: wasm.DataActive, Offset: wasm.I32ConstExpr(0)}},
	}
	// the segment payload follows the header, so the data section and the
	// segment both declare dataLen bytes that are not written here
	return m.EncodeHead(dataLen), nil
}
