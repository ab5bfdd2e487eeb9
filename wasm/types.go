package wasm

// Module is the subset of a WebAssembly module needed to describe a
// memory image: memories, exports and data segments. Sections outside
// that subset are recorded by ID when parsed but not decoded.
type Module struct {
	Memories       []MemoryType
	Exports        []Export
	Data           []DataSegment
	CustomSections []CustomSection

	// Skipped lists IDs of sections that were present but not decoded.
	Skipped []byte
}

// MemoryType describes a linear memory.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for memories, in pages.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// Export names an exported definition.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// DataSegment represents a data segment.
// Init aliases the parsed input; it is not copied.
type DataSegment struct {
	Offset []byte
	Init   []byte
	Flags  uint32
	MemIdx uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

// ExportedMemory returns the first export of kind memory.
func (m *Module) ExportedMemory() (Export, bool) {
	for _, e := range m.Exports {
		if e.Kind == KindMemory {
			return e, true
		}
	}
	return Export{}, false
}

// ConstOffset returns the offset of an active segment whose offset
// expression is a single i32.const.
func (d DataSegment) ConstOffset() (int32, bool) {
	if d.Flags == DataPassive || len(d.Offset) < 3 || d.Offset[0] != OpI32Const || d.Offset[len(d.Offset)-1] != OpEnd {
		return 0, false
	}
	var result int32
	var shift uint
	for i := 1; i < len(d.Offset)-1; i++ {
		b := d.Offset[i]
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if i != len(d.Offset)-2 {
				return 0, false
			}
			if shift < 32 && b&0x40 != 0 {
				result |= ^int32(0) << shift
			}
			return result, true
		}
		if shift >= 35 {
			return 0, false
		}
	}
	return 0, false
}

// I32ConstExpr returns the constant expression `i32.const v; end`.
func I32ConstExpr(v int32) []byte {
	expr := []byte{OpI32Const}
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		expr = append(expr, b)
	}
	return append(expr, OpEnd)
}
