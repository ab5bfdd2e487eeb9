package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/errors"
)

// ErrNoHostCapability is returned when the host can neither decompress
// the artifact natively nor instantiate a module.
var ErrNoHostCapability = &errors.Error{
	Phase:  errors.PhaseHost,
	Kind:   errors.KindUnsupported,
	Detail: "host has neither native decompression nor module instantiation",
}

// Capabilities describes what the host can do with a stored artifact.
type Capabilities struct {
	// Native is the codec the host decompresses natively; valid when
	// HasNative is set. codec.None means the artifact is stored raw.
	Native    codec.Scheme
	HasNative bool

	// Instantiate reports whether the host can instantiate modules.
	Instantiate bool
	Instance    InstanceConfig

	Options Options
}

// HostCapabilities returns the capabilities of this process for an
// artifact stored with scheme: every codec is available natively and
// modules can be instantiated.
func HostCapabilities(scheme codec.Scheme) Capabilities {
	return Capabilities{
		Native:      scheme,
		HasNative:   scheme.Valid() == nil,
		Instantiate: true,
		Instance:    InstanceConfig{Transport: scheme},
	}
}

// Select picks the strategy for caps. Native decompression is preferred
// over instantiation because it never parses or compiles the module.
func Select(ctx context.Context, caps Capabilities) (Strategy, error) {
	switch {
	case caps.HasNative:
		if err := caps.Native.Valid(); err != nil {
			return nil, err
		}
		return &NativeStrategy{Codec: caps.Native, Options: caps.Options}, nil
	case caps.Instantiate:
		if err := caps.Instance.Transport.Valid(); err != nil {
			return nil, err
		}
		return NewInstanceStrategy(ctx, &caps.Instance, caps.Options), nil
	default:
		return nil, ErrNoHostCapability
	}
}

type closer interface {
	Close(ctx context.Context) error
}

// Open selects a strategy for caps and decodes src with it. Resources the
// strategy holds are released when the package is closed.
func Open(ctx context.Context, src Source, caps Capabilities) (*Package, error) {
	strategy, err := Select(ctx, caps)
	if err != nil {
		Logger().Error("no loading strategy", zap.String("source", src.Name()), zap.Error(err))
		return nil, err
	}

	start := time.Now()
	pkg, err := strategy.Open(ctx, src)
	if c, ok := strategy.(closer); ok {
		if err != nil {
			_ = c.Close(ctx)
		} else {
			pkg.onClose(c.Close)
		}
	}
	if err != nil {
		Logger().Warn("open failed",
			zap.String("source", src.Name()),
			zap.String("strategy", strategy.Name()),
			zap.Error(err))
		return nil, err
	}

	Logger().Info("package opened",
		zap.String("source", src.Name()),
		zap.String("strategy", strategy.Name()),
		zap.Int("files", pkg.Len()),
		zap.Int("bytes", pkg.Size()),
		zap.Duration("elapsed", time.Since(start)))
	return pkg, nil
}
