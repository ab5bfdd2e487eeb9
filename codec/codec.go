package codec

import (
	"bytes"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/wasmpkg/errors"
)

// DefaultLevel selects each scheme's own default, except for brotli
// where it selects the best compression.
const DefaultLevel = 0

// Writer returns a compressing writer. level is scheme specific: brotli
// 0-11, zstd 1-22, gzip 1-9, lz4 1-9; DefaultLevel picks a default.
func (s Scheme) Writer(w io.Writer, level int) (io.WriteCloser, error) {
	switch s {
	case None:
		return nopWriteCloser{w}, nil

	case Brotli:
		if level == DefaultLevel {
			level = brotli.BestCompression
		}
		if level < brotli.BestSpeed || level > brotli.BestCompression {
			return nil, badLevel(s, level)
		}
		return brotli.NewWriterLevel(w, level), nil

	case Zstd:
		opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
		if level != DefaultLevel {
			if level < 1 || level > 22 {
				return nil, badLevel(s, level)
			}
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		zw, err := zstd.NewWriter(w, opts...)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "zstd writer")
		}
		return zw, nil

	case LZ4:
		zw := lz4.NewWriter(w)
		if level != DefaultLevel {
			if level < 1 || level > 9 {
				return nil, badLevel(s, level)
			}
			if err := zw.Apply(lz4.CompressionLevelOption(lz4.CompressionLevel(1 << (8 + level)))); err != nil {
				return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "lz4 level")
			}
		}
		return zw, nil

	case Gzip:
		if level == DefaultLevel {
			level = gzip.DefaultCompression
		}
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "gzip level")
		}
		return zw, nil
	}
	return nil, s.Valid()
}

// Reader returns a decompressing reader.
func (s Scheme) Reader(r io.Reader) (io.ReadCloser, error) {
	switch s {
	case None:
		return io.NopCloser(r), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Load("zstd reader", err)
		}
		return zr.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Load("gzip header", err)
		}
		return zr, nil
	}
	return nil, s.Valid()
}

// Compress compresses data in one call. None returns data unchanged.
func Compress(data []byte, s Scheme, level int) ([]byte, error) {
	if s == None {
		return data, nil
	}
	var buf bytes.Buffer
	w, err := s.Writer(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(errors.PhaseWrap, errors.KindInvalidData, err, s.String()+" compress")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseWrap, errors.KindInvalidData, err, s.String()+" compress")
	}
	return buf.Bytes(), nil
}

var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil)
})

// Decompress decompresses data in one call. None returns data unchanged.
func Decompress(data []byte, s Scheme) ([]byte, error) {
	switch s {
	case None:
		return data, nil
	case Zstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, errors.Load("zstd decoder", err)
		}
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Load("zstd decompress", err)
		}
		return out, nil
	}

	r, err := s.Reader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Load(s.String()+" decompress", err)
	}
	return out, nil
}

func badLevel(s Scheme, level int) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(level).
		Detail("invalid %s level %d", s, level).
		Build()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
