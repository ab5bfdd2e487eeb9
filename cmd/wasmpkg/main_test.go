package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/frame"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestPackThenRead(t *testing.T) {
	root := writeTree(t, map[string]string{
		"img/logo.png": "\x89PNG\x00\x01",
		"strings.json": `{"hello": "wörld €"}`,
	})
	out := filepath.Join(t.TempDir(), "assets.wasm.br")

	err := runPack(context.Background(), []string{
		"-p", root,
		"-b", "img/*.png",
		"-t", "strings.json",
		"-o", out,
	})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	for _, instantiate := range []bool{false, true} {
		opts := openOptions{instantiate: instantiate}
		pkg, err := opts.open(context.Background(), out)
		if err != nil {
			t.Fatalf("open (instantiate=%v): %v", instantiate, err)
		}

		var listing bytes.Buffer
		if err := listPackage(&listing, pkg.Package, false, false, false); err != nil {
			t.Fatal(err)
		}
		if got := listing.String(); got != "img/logo.png\nstrings.json\n" {
			t.Errorf("listing = %q", got)
		}

		var content bytes.Buffer
		if err := writeEntry(&content, pkg.Package, "strings.json", false); err != nil {
			t.Fatal(err)
		}
		if content.String() != `{"hello": "wörld €"}` {
			t.Errorf("content = %q", content.String())
		}
		if err := writeEntry(&content, pkg.Package, "missing", false); err == nil {
			t.Error("expected error for missing entry")
		}
		pkg.Close(context.Background())
	}
}

func TestPackDryRun(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "a"})
	out := filepath.Join(t.TempDir(), "a.wasm")
	if err := runPack(context.Background(), []string{"-p", root, "-t", "a.txt", "-o", out, "--dry-run"}); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run wrote %s", out)
	}
}

func TestPackRequiresInputsAndOutput(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "a"})
	if err := runPack(context.Background(), []string{"-p", root, "-o", "x.wasm"}); err == nil {
		t.Error("expected error without inputs")
	}
	if err := runPack(context.Background(), []string{"-p", root, "-t", "a.txt"}); err == nil {
		t.Error("expected error without output")
	}
}

func TestSourceDetectsScheme(t *testing.T) {
	c, err := container.Encode(new(container.Input).AddText("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := frame.Wrap(c)
	if err != nil {
		t.Fatal(err)
	}
	gz, err := codec.Compress(f, codec.Gzip, codec.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	tests := []struct {
		file string
		data []byte
		opts openOptions
		want codec.Scheme
	}{
		{"a.wasm.gz", gz, openOptions{}, codec.Gzip},
		{"a.pkg", gz, openOptions{}, codec.Gzip},
		{"a.wasm", f, openOptions{}, codec.None},
		{"a.bin", f, openOptions{codec: "none"}, codec.None},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.file)
		if err := os.WriteFile(path, tt.data, 0o644); err != nil {
			t.Fatal(err)
		}
		_, got, err := tt.opts.source(path)
		if err != nil {
			t.Fatalf("%s: %v", tt.file, err)
		}
		if got != tt.want {
			t.Errorf("%s: scheme = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	c, err := container.Encode(new(container.Input).AddBinary("a.bin", []byte{1}).AddText("b.txt", "€"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := frame.Wrap(c)
	if err != nil {
		t.Fatal(err)
	}
	info, err := frame.Inspect(f)
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := container.Decode(info.Container, nil)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := describe(&out, codec.None, len(f), len(f), info, pkg); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"canonical  true", "files", "1 bin, 0 latin1, 1 utf16"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPreviewEntry(t *testing.T) {
	c, err := container.Encode(new(container.Input).AddBinary("a.bin", []byte("AB")).AddText("t", "text"))
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := container.Decode(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := previewEntry(pkg, "t"); got != "text" {
		t.Errorf("text preview = %q", got)
	}
	if got := previewEntry(pkg, "a.bin"); !strings.Contains(got, "41 42") {
		t.Errorf("binary preview = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}
