package loader

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/errors"
)

// InstanceConfig holds configuration for the instantiation strategy.
type InstanceConfig struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// Transport is an encoding removed before compilation, the way an
	// HTTP client removes a Content-Encoding. None means the artifact is
	// a plain module.
	Transport codec.Scheme
}

// InstanceStrategy instantiates the frame as a WebAssembly module and
// decodes the container directly from the module's memory.
type InstanceStrategy struct {
	runtime   wazero.Runtime
	transport codec.Scheme
	decoder   *container.Decoder
}

// NewInstanceStrategy creates a strategy backed by its own wazero runtime.
func NewInstanceStrategy(ctx context.Context, cfg *InstanceConfig, opts Options) *InstanceStrategy {
	runtimeCfg := wazero.NewRuntimeConfig()
	s := &InstanceStrategy{decoder: opts.decoder()}

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		s.transport = cfg.Transport
	}

	s.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return s
}

func (s *InstanceStrategy) Name() string {
	if s.transport != codec.None {
		return "instance/" + s.transport.String()
	}
	return "instance"
}

// Open compiles and instantiates the artifact as an anonymous module.
// The returned package reads from the instance's memory, which stays
// alive until the package is closed.
func (s *InstanceStrategy) Open(ctx context.Context, src Source) (*Package, error) {
	raw, err := readAll(ctx, src)
	if err != nil {
		return nil, err
	}
	data, err := codec.Decompress(raw, s.transport)
	if err != nil {
		return nil, err
	}

	compiled, err := s.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	names := make([]string, 0, len(compiled.ExportedMemories()))
	for name := range compiled.ExportedMemories() {
		names = append(names, name)
	}
	if len(names) == 0 {
		_ = compiled.Close(ctx)
		return nil, errors.InvalidData(errors.PhaseHost, nil, "module exports no memory")
	}
	slices.Sort(names)

	mod, err := s.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	release := func(ctx context.Context) error {
		err := mod.Close(ctx)
		if cerr := compiled.Close(ctx); err == nil {
			err = cerr
		}
		return err
	}

	mem := mod.ExportedMemory(names[0])
	view, ok := mem.Read(0, mem.Size())
	if !ok {
		_ = release(ctx)
		return nil, errors.InvalidData(errors.PhaseHost, nil, "memory not readable")
	}

	Logger().Debug("module instantiated",
		zap.String("source", src.Name()),
		zap.String("memory", names[0]),
		zap.Uint32("memory_bytes", mem.Size()))

	pkg, err := s.decoder.Decode(view)
	if err != nil {
		_ = release(ctx)
		return nil, err
	}

	p := &Package{Package: pkg, strategy: s.Name()}
	p.onClose(release)
	return p, nil
}

// Close releases the runtime and every module still instantiated in it.
func (s *InstanceStrategy) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}
