// Package container implements a compact multi-file container.
//
// A container is a header of little-endian 32-bit words followed by the
// file payloads:
//
//	[fileCount][attr_0]...[attr_n-1][attr_names] | pad payload_0 | pad payload_1 | ... | pad names | pad
//
// Each attribute word packs an entry kind into its top 2 bits and the
// payload length into the low 30 bits (see PackAttr), so no single entry
// may reach 1 GiB. Payloads start on 8-byte boundaries and the container
// length is a multiple of 4. No offsets are stored: a reader recovers
// them by walking the attribute table in order and aligning as it goes.
//
// The last attribute describes a synthetic entry that is not counted in
// fileCount: the newline-joined list of file names. Names therefore
// cannot contain a newline.
//
// Text files are stored one byte per character when every UTF-16 code
// unit fits in a byte (KindLatin1) and two bytes per code unit otherwise
// (KindUTF16).
//
// # Encoding
//
//	var in container.Input
//	in.AddBinary("a.bin", []byte{0, 1, 2, 3})
//	in.AddText("b.txt", "hi")
//	buf, err := container.Encode(&in)
//
// # Decoding
//
//	pkg, err := container.Decode(buf, tuner)
//	v, err := pkg.Read("b.txt") // "hi"
//
// Text is converted in chunks whose size comes from a ChunkTuner. When a
// Converter rejects a chunk the tuner shrinks and the text is converted
// again from the start; the smaller size sticks for every later decode
// sharing that tuner.
package container
