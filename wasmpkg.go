package wasmpkg

import (
	"context"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/frame"
	"github.com/wippyai/wasmpkg/loader"
)

// Artifact is the result of Build.
type Artifact struct {
	// Data is the stored artifact: the frame compressed with Scheme.
	Data   []byte
	Scheme codec.Scheme

	ContainerSize int
	FrameSize     int
}

// Build encodes in as a container, wraps it in a module frame and
// compresses the frame with scheme.
func Build(in *container.Input, scheme codec.Scheme, level int) (*Artifact, error) {
	c, err := container.Encode(in)
	if err != nil {
		return nil, err
	}
	f, err := frame.Wrap(c)
	if err != nil {
		return nil, err
	}
	data, err := codec.Compress(f, scheme, level)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:          data,
		Scheme:        scheme,
		ContainerSize: len(c),
		FrameSize:     len(f),
	}, nil
}

// Ratio returns the stored size relative to the frame size.
func (a *Artifact) Ratio() float64 {
	if a.FrameSize == 0 {
		return 0
	}
	return float64(len(a.Data)) / float64(a.FrameSize)
}

// Open decodes an artifact stored with scheme using whatever path this
// process supports, which is the native one.
func Open(ctx context.Context, src loader.Source, scheme codec.Scheme) (*loader.Package, error) {
	return loader.Open(ctx, src, loader.HostCapabilities(scheme))
}
