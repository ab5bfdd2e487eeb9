package loader

import (
	"context"
	"sync"

	"github.com/wippyai/wasmpkg/container"
)

// Strategy turns a stored artifact into a decoded package.
type Strategy interface {
	Name() string
	Open(ctx context.Context, src Source) (*Package, error)
}

// Options configures text decoding for every strategy.
type Options struct {
	// Tuner is shared by all decodes; nil gives each strategy its own.
	Tuner *container.ChunkTuner

	// Converter converts text chunks; nil means container.DefaultConverter.
	Converter container.Converter
}

func (o Options) decoder() *container.Decoder {
	tuner := o.Tuner
	if tuner == nil {
		tuner = container.NewChunkTuner(container.DefaultChunkSize)
	}
	return &container.Decoder{Tuner: tuner, Converter: o.Converter}
}

type decoderOnce struct {
	once sync.Once
	d    *container.Decoder
}

func (o *decoderOnce) get(opts Options) *container.Decoder {
	o.once.Do(func() { o.d = opts.decoder() })
	return o.d
}
