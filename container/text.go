package container

import (
	stderrors "errors"
	"strings"
	"sync/atomic"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/wasmpkg/errors"
)

// DefaultChunkSize is the initial number of code units converted per chunk.
const DefaultChunkSize = 32768

// ShrinkFactor scales the chunk size down after a chunk is rejected.
const ShrinkFactor = 0.8

// ErrChunkTooLarge is returned by a Converter when a chunk exceeds what
// the host can convert in one call.
var ErrChunkTooLarge = stderrors.New("container: chunk too large")

// ChunkTuner holds the chunk size shared by every decode that uses it.
// The size only ever decreases: once a host has rejected a chunk size,
// all later decodes start from the smaller value. Safe for concurrent use.
type ChunkTuner struct {
	size atomic.Int64
}

// NewChunkTuner returns a tuner starting at size code units.
func NewChunkTuner(size int) *ChunkTuner {
	t := &ChunkTuner{}
	t.size.Store(int64(size))
	return t
}

// Size returns the current chunk size.
func (t *ChunkTuner) Size() int {
	return int(t.size.Load())
}

// Shrink lowers the size after a failure observed at size from and
// returns the resulting size. If another caller already shrank below
// from, the size is left alone.
func (t *ChunkTuner) Shrink(from int) int {
	next := int64(float64(from) * ShrinkFactor)
	for {
		cur := t.size.Load()
		if cur < int64(from) || cur <= next {
			return int(cur)
		}
		if t.size.CompareAndSwap(cur, next) {
			return int(next)
		}
	}
}

// Converter appends the text for one chunk of UTF-16 code units to sb.
// Chunks never end between the two halves of a surrogate pair.
type Converter func(sb *strings.Builder, units []uint16) error

// DefaultConverter converts any chunk.
func DefaultConverter(sb *strings.Builder, units []uint16) error {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < utf8.RuneSelf:
			sb.WriteByte(byte(u))
		case utf16.IsSurrogate(rune(u)) && i+1 < len(units):
			r := utf16.DecodeRune(rune(u), rune(units[i+1]))
			if r != utf8.RuneError {
				i++
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(rune(u))
		}
	}
	return nil
}

// LimitConverter returns a Converter that rejects chunks longer than max
// code units, standing in for a host with a fixed call-argument limit.
func LimitConverter(max int) Converter {
	return func(sb *strings.Builder, units []uint16) error {
		if len(units) > max {
			return ErrChunkTooLarge
		}
		return DefaultConverter(sb, units)
	}
}

// textDecoder turns a stored text payload back into a string.
type textDecoder struct {
	tuner   *ChunkTuner
	convert Converter
}

func (d *textDecoder) decode(name string, data []byte, kind Kind) (string, error) {
	for {
		size := d.tuner.Size()
		if size <= 0 {
			return "", errors.Exhausted(errors.PhaseDecode, []string{name}, "text chunk size shrank to zero")
		}
		s, err := d.decodeChunks(data, kind, size)
		if err == nil {
			return s, nil
		}
		if !stderrors.Is(err, ErrChunkTooLarge) {
			return "", errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "convert text")
		}
		d.tuner.Shrink(size)
	}
}

func (d *textDecoder) decodeChunks(data []byte, kind Kind, size int) (string, error) {
	var sb strings.Builder
	count := len(data)
	if kind == KindUTF16 {
		count /= 2
	}
	sb.Grow(count)

	scratch := make([]uint16, 0, min(size+1, count))
	for start := 0; start < count; {
		end := min(start+size, count)
		if kind == KindUTF16 && end < count && isHighSurrogate(unitAt(data, end-1)) {
			end++
		}
		scratch = scratch[:0]
		for i := start; i < end; i++ {
			if kind == KindLatin1 {
				scratch = append(scratch, uint16(data[i]))
			} else {
				scratch = append(scratch, unitAt(data, i))
			}
		}
		if err := d.convert(&sb, scratch); err != nil {
			return "", err
		}
		start = end
	}
	return sb.String(), nil
}

func unitAt(data []byte, i int) uint16 {
	return ByteOrder.Uint16(data[2*i:])
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}
