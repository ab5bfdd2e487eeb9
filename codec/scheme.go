package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wippyai/wasmpkg/errors"
)

// Scheme identifies the compression applied to a stored frame.
type Scheme uint8

const (
	// None stores the frame as-is; a host can instantiate it directly.
	None Scheme = iota
	// Brotli is the default for .br artifacts; hosts often decode it natively.
	Brotli
	// Zstd uses the zstd frame format.
	Zstd
	// LZ4 uses the LZ4 frame format.
	LZ4
	// Gzip uses RFC 1952 framing.
	Gzip
)

// Schemes lists every supported scheme.
var Schemes = []Scheme{None, Brotli, Zstd, LZ4, Gzip}

// String returns the canonical name of the scheme.
func (s Scheme) String() string {
	switch s {
	case None:
		return "none"
	case Brotli:
		return "brotli"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Ext returns the conventional file extension, including the dot.
func (s Scheme) Ext() string {
	switch s {
	case Brotli:
		return ".br"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	case Gzip:
		return ".gz"
	default:
		return ""
	}
}

// Valid returns nil if s is a known scheme.
func (s Scheme) Valid() error {
	if s > Gzip {
		return errors.Unsupported(errors.PhaseConfig, "compression scheme "+s.String())
	}
	return nil
}

// ParseScheme parses a scheme name. Extensions without the dot are
// accepted as aliases.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return None, nil
	case "brotli", "br":
		return Brotli, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	case "gzip", "gz":
		return Gzip, nil
	default:
		return 0, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Value(name).
			Detail("unknown compression scheme %q", name).
			Build()
	}
}

// SchemeForPath picks the scheme implied by the extension of path. The
// second result is false when the extension names no codec.
func SchemeForPath(path string) (Scheme, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range Schemes {
		if s != None && s.Ext() == ext {
			return s, true
		}
	}
	return None, false
}

var magics = []struct {
	scheme Scheme
	prefix []byte
}{
	{None, []byte("\x00asm")},
	{Zstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{LZ4, []byte{0x04, 0x22, 0x4D, 0x18}},
	{Gzip, []byte{0x1F, 0x8B}},
}

// Detect identifies the scheme of data from its leading bytes. Brotli
// streams carry no magic number, so they are never detected.
func Detect(data []byte) (Scheme, bool) {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.prefix) {
			return m.scheme, true
		}
	}
	return None, false
}
