package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/frame"
)

// NativeStrategy decompresses the artifact with a codec the host supports
// and locates the container from the frame's trailing length word. The
// WebAssembly structure is never parsed.
type NativeStrategy struct {
	Codec   codec.Scheme
	Options Options

	decoder decoderOnce
}

func (s *NativeStrategy) Name() string {
	return "native/" + s.Codec.String()
}

func (s *NativeStrategy) Open(ctx context.Context, src Source) (*Package, error) {
	raw, err := readAll(ctx, src)
	if err != nil {
		return nil, err
	}
	data, err := codec.Decompress(raw, s.Codec)
	if err != nil {
		return nil, err
	}
	payload, err := frame.Payload(data)
	if err != nil {
		return nil, err
	}

	Logger().Debug("native payload located",
		zap.String("source", src.Name()),
		zap.Int("stored", len(raw)),
		zap.Int("frame", len(data)),
		zap.Int("container", len(payload)))

	pkg, err := s.decoder.get(s.Options).Decode(payload)
	if err != nil {
		return nil, err
	}
	return &Package{Package: pkg, strategy: s.Name()}, nil
}
