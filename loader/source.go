package loader

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/wippyai/wasmpkg/errors"
)

// Source supplies the stored artifact bytes.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads an artifact from a file path.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(string(s))
	if err != nil {
		return nil, errors.Load("open artifact", err)
	}
	return f, nil
}

// BytesSource serves an artifact already in memory.
type BytesSource []byte

func (s BytesSource) Name() string { return "bytes" }

func (s BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s)), nil
}

// readAll returns the whole artifact. BytesSource is returned without a copy.
func readAll(ctx context.Context, src Source) ([]byte, error) {
	if b, ok := src.(BytesSource); ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return b, nil
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Load("read "+src.Name(), err)
	}
	return data, nil
}
