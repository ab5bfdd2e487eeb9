package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/wippyai/wasmpkg/errors"
	"github.com/wippyai/wasmpkg/wasm"
)

// Info describes a parsed frame.
type Info struct {
	Module *wasm.Module

	// Container is the segment payload without the trailing length word.
	Container []byte

	ExportName string
	Pages      uint64
	DataLen    uint32

	// HeaderSize is the length of the canonical header for DataLen.
	HeaderSize int

	// Canonical reports whether the frame starts with exactly the header
	// Wrap would produce.
	Canonical bool
}

// Inspect parses frame as a WebAssembly module and checks that it has the
// shape Wrap produces: one exported memory initialized by one active
// segment at offset 0 that ends with its own length.
func Inspect(frame []byte) (*Info, error) {
	m, err := wasm.ParseModule(frame)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse module")
	}

	if len(m.Memories) != 1 {
		return nil, invalidFrame("module declares %d memories, want 1", len(m.Memories))
	}
	exp, ok := m.ExportedMemory()
	if !ok {
		return nil, invalidFrame("memory is not exported")
	}
	if len(m.Data) != 1 {
		return nil, invalidFrame("module has %d data segments, want 1", len(m.Data))
	}
	seg := m.Data[0]
	if off, ok := seg.ConstOffset(); !ok || off != 0 || seg.MemIdx != 0 {
		return nil, invalidFrame("data segment is not active at i32.const 0 in memory 0")
	}
	if len(seg.Init) < TrailerSize {
		return nil, invalidFrame("data segment of %d bytes has no length trailer", len(seg.Init))
	}
	dataLen := binary.LittleEndian.Uint32(seg.Init[len(seg.Init)-TrailerSize:])
	if int(dataLen) != len(seg.Init) {
		return nil, invalidFrame("trailing length %d does not match segment length %d", dataLen, len(seg.Init))
	}

	pages := m.Memories[0].Limits.Min
	if pages*wasm.PageSize < uint64(dataLen) {
		return nil, invalidFrame("%d pages cannot hold %d bytes", pages, dataLen)
	}

	info := &Info{
		Module:     m,
		Container:  seg.Init[:len(seg.Init)-TrailerSize],
		ExportName: exp.Name,
		Pages:      pages,
		DataLen:    dataLen,
	}
	if h, err := Header(dataLen); err == nil {
		info.HeaderSize = len(h)
		info.Canonical = bytes.HasPrefix(frame, h) && len(frame) == len(h)+int(dataLen)
	}
	return info, nil
}

func invalidFrame(format string, args ...any) error {
	return errors.InvalidData(errors.PhaseDecode, nil, fmt.Sprintf(format, args...))
}
