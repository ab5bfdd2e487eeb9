package wasm

import (
	"github.com/wippyai/wasmpkg/wasm/internal/binary"
)

// Encode encodes the module to WebAssembly binary format.
func (m *Module) Encode() []byte {
	return m.EncodeHead(0)
}

// EncodeHead encodes the module as if pending more bytes followed the Init
// of its last data segment. The data section and that segment declare the
// extra length; the caller appends the bytes. Limits are written as 32-bit
// unshared memories, and custom sections are not written.
func (m *Module) EncodeHead(pending uint32) []byte {
	w := binary.NewWriter(64)

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Memories) > 0 {
		sec := binary.NewWriter(8)
		sec.WriteU32(uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			writeLimits(sec, mem.Limits)
		}
		w.Section(SectionMemory, sec, 0)
	}

	if len(m.Exports) > 0 {
		sec := binary.NewWriter(16)
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		w.Section(SectionExport, sec, 0)
	}

	if len(m.Data) > 0 {
		sec := binary.NewWriter(16)
		sec.WriteU32(uint32(len(m.Data)))
		last := len(m.Data) - 1
		for i, d := range m.Data {
			sec.WriteU32(d.Flags)
			if d.Flags == DataActiveMemIdx {
				sec.WriteU32(d.MemIdx)
			}
			if d.Flags != DataPassive {
				sec.WriteBytes(d.Offset)
			}

			size := uint32(len(d.Init))
			if i == last {
				size += pending
			}
			sec.WriteU32(size)
			sec.WriteBytes(d.Init)
		}
		w.Section(SectionData, sec, pending)
	}

	return w.Bytes()
}

func writeLimits(w *binary.Writer, l Limits) {
	if l.Max == nil {
		w.Byte(LimitsNoMax)
		w.WriteU32(uint32(l.Min))
		return
	}
	w.Byte(LimitsHasMax)
	w.WriteU32(uint32(l.Min))
	w.WriteU32(uint32(*l.Max))
}
