package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/loader"
)

type openOptions struct {
	codec       string
	instantiate bool
	memoryLimit uint32
}

func (o *openOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.codec, "codec", "", "compression of the artifact (default from extension or content)")
	fs.BoolVar(&o.instantiate, "instantiate", false, "load by instantiating the module instead of native decompression")
	fs.Uint32Var(&o.memoryLimit, "memory-limit", 0, "maximum memory pages when instantiating, 0 for no limit")
}

// source returns the artifact source and the scheme it is stored with.
// Without an explicit codec the extension decides; failing that the
// leading bytes do.
func (o *openOptions) source(path string) (loader.Source, codec.Scheme, error) {
	if o.codec != "" {
		s, err := codec.ParseScheme(o.codec)
		return loader.FileSource(path), s, err
	}
	if s, ok := codec.SchemeForPath(path); ok {
		return loader.FileSource(path), s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codec.None, err
	}
	s, ok := codec.Detect(data)
	if !ok {
		// brotli has no magic number
		s = codec.Brotli
	}
	return loader.BytesSource(data), s, nil
}

func (o *openOptions) capabilities(scheme codec.Scheme) loader.Capabilities {
	caps := loader.HostCapabilities(scheme)
	caps.Instance.MemoryLimitPages = o.memoryLimit
	if o.instantiate {
		caps.HasNative = false
	}
	return caps
}

func (o *openOptions) open(ctx context.Context, path string) (*loader.Package, error) {
	src, scheme, err := o.source(path)
	if err != nil {
		return nil, err
	}
	return loader.Open(ctx, src, o.capabilities(scheme))
}
