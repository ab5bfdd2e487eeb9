// Package codec wraps the general-purpose compressors a packed frame may
// be stored with. The container format never depends on the codec: an
// artifact is compressed as a whole after wrapping and decompressed as a
// whole before decoding.
package codec
