// Package frame embeds a container in a minimal WebAssembly module.
//
// The module declares one memory, exports it, and initializes it with a
// single active data segment at offset 0:
//
//	magic, version
//	memory section:  1 memory, ceil(dataLen/65536) pages, no maximum
//	export section:  memory 0 exported as "a", "aa", ... (padding)
//	data section:    1 active segment, i32.const 0, dataLen bytes
//	container bytes
//	dataLen          little-endian uint32, always the last 4 bytes
//
// where dataLen is the container length plus 4. The export name length is
// chosen so the header is a multiple of 8 bytes, which keeps every entry
// of the container 8-byte aligned within the frame itself. A host that
// instantiates the module finds the container at memory offset 0; a host
// that only has the raw bytes reads dataLen from the tail (see Payload).
package frame
