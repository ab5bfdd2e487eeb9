package loader_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/container"
	wperrors "github.com/wippyai/wasmpkg/errors"
	"github.com/wippyai/wasmpkg/frame"
	"github.com/wippyai/wasmpkg/loader"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	logo   = bytes.Repeat([]byte{0x89, 'P', 'N', 'G', 0, 1, 2}, 3000)
	readme = "# assets\n" + strings.Repeat("line ", 1000)
	greek  = strings.Repeat("αβγδ 😀 ", 500)
)

func artifact(t *testing.T, scheme codec.Scheme) []byte {
	t.Helper()
	var in container.Input
	in.AddBinary("logo.png", logo)
	in.AddText("README.md", readme)
	in.AddText("greek.txt", greek)

	c, err := container.Encode(&in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f, err := frame.Wrap(c)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	out, err := codec.Compress(f, scheme, codec.DefaultLevel)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	return out
}

func checkPackage(t *testing.T, pkg *loader.Package) {
	t.Helper()
	want := []string{"logo.png", "README.md", "greek.txt"}
	got := pkg.Files()
	if len(got) != len(want) {
		t.Fatalf("Files() = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Files() = %q, want %q", got, want)
		}
	}

	b, err := pkg.Read("logo.png")
	if err != nil {
		t.Fatalf("Read(logo.png): %v", err)
	}
	if !bytes.Equal(b.([]byte), logo) {
		t.Error("logo.png mismatch")
	}
	for name, want := range map[string]string{"README.md": readme, "greek.txt": greek} {
		s, err := pkg.Read(name)
		if err != nil {
			t.Fatalf("Read(%s): %v", name, err)
		}
		if s != want {
			t.Errorf("%s mismatch", name)
		}
	}
	if pkg.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestNativeStrategy(t *testing.T) {
	ctx := context.Background()
	for _, scheme := range codec.Schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			s := &loader.NativeStrategy{Codec: scheme}
			pkg, err := s.Open(ctx, loader.BytesSource(artifact(t, scheme)))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer pkg.Close(ctx)

			checkPackage(t, pkg)
			if pkg.Strategy() != "native/"+scheme.String() {
				t.Errorf("Strategy() = %q", pkg.Strategy())
			}
		})
	}
}

func TestInstanceStrategy(t *testing.T) {
	ctx := context.Background()
	for _, transport := range []codec.Scheme{codec.None, codec.Brotli, codec.Gzip} {
		t.Run(transport.String(), func(t *testing.T) {
			s := loader.NewInstanceStrategy(ctx, &loader.InstanceConfig{Transport: transport}, loader.Options{})
			defer s.Close(ctx)

			pkg, err := s.Open(ctx, loader.BytesSource(artifact(t, transport)))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			checkPackage(t, pkg)
			if !strings.HasPrefix(pkg.Strategy(), "instance") {
				t.Errorf("Strategy() = %q", pkg.Strategy())
			}
			if err := pkg.Close(ctx); err != nil {
				t.Errorf("Close: %v", err)
			}
			if err := pkg.Close(ctx); err != nil {
				t.Errorf("second Close: %v", err)
			}
		})
	}
}

func TestInstanceStrategyConcurrent(t *testing.T) {
	ctx := context.Background()
	s := loader.NewInstanceStrategy(ctx, nil, loader.Options{})
	defer s.Close(ctx)
	data := artifact(t, codec.None)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pkg, err := s.Open(ctx, loader.BytesSource(data))
			if err != nil {
				errs <- err
				return
			}
			defer pkg.Close(ctx)
			if got, _ := pkg.Read("greek.txt"); got != greek {
				errs <- errors.New("greek.txt mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestInstanceStrategyMemoryLimit(t *testing.T) {
	ctx := context.Background()
	big := make([]byte, 3*65536)
	c, err := container.Encode(new(container.Input).AddBinary("big.bin", big))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f, err := frame.Wrap(c)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	s := loader.NewInstanceStrategy(ctx, &loader.InstanceConfig{MemoryLimitPages: 2}, loader.Options{})
	defer s.Close(ctx)
	_, err = s.Open(ctx, loader.BytesSource(f))
	target := &wperrors.Error{Phase: wperrors.PhaseHost, Kind: wperrors.KindInstantiation}
	if !errors.Is(err, target) {
		t.Errorf("got %v, want instantiation error", err)
	}
}

func TestInstanceStrategyRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	s := loader.NewInstanceStrategy(ctx, nil, loader.Options{})
	defer s.Close(ctx)

	_, err := s.Open(ctx, loader.BytesSource([]byte("not a module")))
	target := &wperrors.Error{Phase: wperrors.PhaseHost, Kind: wperrors.KindInstantiation}
	if !errors.Is(err, target) {
		t.Errorf("got %v, want instantiation error", err)
	}
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		caps   loader.Capabilities
		prefix string
	}{
		{"native preferred", loader.HostCapabilities(codec.Brotli), "native/brotli"},
		{"native only", loader.Capabilities{HasNative: true, Native: codec.Zstd}, "native/zstd"},
		{"instance only", loader.Capabilities{Instantiate: true}, "instance"},
		{"instance with transport", loader.Capabilities{Instantiate: true, Instance: loader.InstanceConfig{Transport: codec.Gzip}}, "instance/gzip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := loader.Select(ctx, tt.caps)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if c, ok := s.(*loader.InstanceStrategy); ok {
				defer c.Close(ctx)
			}
			if s.Name() != tt.prefix {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.prefix)
			}
		})
	}
}

func TestSelectNoCapability(t *testing.T) {
	_, err := loader.Select(context.Background(), loader.Capabilities{})
	if !errors.Is(err, loader.ErrNoHostCapability) {
		t.Fatalf("got %v, want ErrNoHostCapability", err)
	}
	target := &wperrors.Error{Phase: wperrors.PhaseHost, Kind: wperrors.KindUnsupported}
	if !errors.Is(err, target) {
		t.Errorf("got %v, want host unsupported", err)
	}
}

func TestOpenFileSource(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assets.wasm.zst")
	if err := os.WriteFile(path, artifact(t, codec.Zstd), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, caps := range []loader.Capabilities{
		loader.HostCapabilities(codec.Zstd),
		{Instantiate: true, Instance: loader.InstanceConfig{Transport: codec.Zstd}},
	} {
		pkg, err := loader.Open(ctx, loader.FileSource(path), caps)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		checkPackage(t, pkg)
		if err := pkg.Close(ctx); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := loader.Open(context.Background(), loader.FileSource(filepath.Join(t.TempDir(), "nope")), loader.HostCapabilities(codec.None))
	target := &wperrors.Error{Phase: wperrors.PhaseLoad, Kind: wperrors.KindInvalidData}
	if !errors.Is(err, target) {
		t.Errorf("got %v, want load error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause should be os.ErrNotExist: %v", err)
	}
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.Open(ctx, loader.BytesSource(artifact(t, codec.None)), loader.HostCapabilities(codec.None))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNativeWrongCodec(t *testing.T) {
	s := &loader.NativeStrategy{Codec: codec.Gzip}
	_, err := s.Open(context.Background(), loader.BytesSource(artifact(t, codec.None)))
	target := &wperrors.Error{Phase: wperrors.PhaseLoad, Kind: wperrors.KindInvalidData}
	if !errors.Is(err, target) {
		t.Errorf("got %v, want load error", err)
	}
}

func TestSharedTunerAcrossStrategies(t *testing.T) {
	ctx := context.Background()
	tuner := container.NewChunkTuner(container.DefaultChunkSize)
	opts := loader.Options{Tuner: tuner, Converter: container.LimitConverter(700)}

	native := &loader.NativeStrategy{Codec: codec.None, Options: opts}
	pkg, err := native.Open(ctx, loader.BytesSource(artifact(t, codec.None)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	checkPackage(t, pkg)
	shrunk := tuner.Size()
	if shrunk > 700 {
		t.Fatalf("Size() = %d, want <= 700", shrunk)
	}

	inst := loader.NewInstanceStrategy(ctx, nil, opts)
	defer inst.Close(ctx)
	pkg2, err := inst.Open(ctx, loader.BytesSource(artifact(t, codec.None)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer pkg2.Close(ctx)
	checkPackage(t, pkg2)
	if tuner.Size() != shrunk {
		t.Errorf("Size() = %d after second open, want %d", tuner.Size(), shrunk)
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	defer loader.SetLogger(nil)

	core, logs := observer.New(zapcore.InfoLevel)
	observed := zap.New(core)
	data := artifact(t, codec.None)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			loader.SetLogger(observed)
		}()
		go func() {
			defer wg.Done()
			pkg, err := loader.Open(context.Background(), loader.BytesSource(data), loader.HostCapabilities(codec.None))
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			pkg.Close(context.Background())
		}()
	}
	wg.Wait()

	if loader.Logger() != observed {
		t.Fatal("Logger should return the configured logger")
	}
	before := logs.Len()
	pkg, err := loader.Open(context.Background(), loader.BytesSource(data), loader.HostCapabilities(codec.None))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pkg.Close(context.Background())
	if got := logs.FilterMessage("package opened").Len(); got == 0 || logs.Len() == before {
		t.Errorf("open was not logged: %d entries", logs.Len())
	}

	loader.SetLogger(nil)
	if loader.Logger() == observed {
		t.Error("nil should restore the no-op logger")
	}
}
