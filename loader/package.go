package loader

import (
	"context"

	"github.com/wippyai/wasmpkg/container"
)

// Package is a decoded container together with whatever the strategy that
// produced it must keep alive. Reads through a closed package are
// undefined for instance-backed packages.
type Package struct {
	*container.Package

	strategy string
	closers  []func(context.Context) error
}

// Strategy returns the name of the strategy that decoded the package.
func (p *Package) Strategy() string {
	return p.strategy
}

// Close releases resources held for the package. It is safe to call more
// than once.
func (p *Package) Close(ctx context.Context) error {
	var firstErr error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.closers = nil
	return firstErr
}

func (p *Package) onClose(fn func(context.Context) error) {
	p.closers = append(p.closers, fn)
}
