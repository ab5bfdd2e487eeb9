package wasm

// SizeLEB128u returns the number of bytes in the unsigned LEB128 encoding of v.
func SizeLEB128u(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
