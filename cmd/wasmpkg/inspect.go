package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/frame"
	"github.com/wippyai/wasmpkg/loader"
)

func runInspect(ctx context.Context, args []string) error {
	var (
		logs logOptions
		open openOptions
	)
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	open.addFlags(fs)
	logs.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wasmpkg inspect [flags] <artifact>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one artifact, got %d arguments", fs.NArg())
	}

	logger, err := logs.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, scheme, err := open.source(fs.Arg(0))
	if err != nil {
		return err
	}
	stored, err := readSource(ctx, src)
	if err != nil {
		return err
	}
	data, err := codec.Decompress(stored, scheme)
	if err != nil {
		return err
	}
	info, err := frame.Inspect(data)
	if err != nil {
		return err
	}
	pkg, err := container.Decode(info.Container, nil)
	if err != nil {
		return err
	}

	return describe(os.Stdout, scheme, len(stored), len(data), info, pkg)
}

func readSource(ctx context.Context, src loader.Source) ([]byte, error) {
	if b, ok := src.(loader.BytesSource); ok {
		return b, nil
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func describe(w io.Writer, scheme codec.Scheme, stored, frameSize int, info *frame.Info, pkg *container.Package) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "codec\t%s\n", scheme)
	fmt.Fprintf(tw, "stored\t%s (%s bytes)\n", humanize.IBytes(uint64(stored)), humanize.Comma(int64(stored)))
	fmt.Fprintf(tw, "frame\t%s (%s bytes)\n", humanize.IBytes(uint64(frameSize)), humanize.Comma(int64(frameSize)))
	fmt.Fprintf(tw, "header\t%d bytes\n", info.HeaderSize)
	fmt.Fprintf(tw, "canonical\t%t\n", info.Canonical)
	fmt.Fprintf(tw, "memory\t%d pages, export %q\n", info.Pages, info.ExportName)
	fmt.Fprintf(tw, "container\t%s bytes, xxhash64 %016x\n", humanize.Comma(int64(len(info.Container))), xxhash.Sum64(info.Container))
	fmt.Fprintf(tw, "files\t%d (%d entries)\n", pkg.Len(), len(pkg.Entries()))

	var counts [3]int
	for _, e := range pkg.Entries() {
		if int(e.Kind) < len(counts) {
			counts[e.Kind]++
		}
	}
	fmt.Fprintf(tw, "kinds\t%d %s, %d %s, %d %s\n",
		counts[container.KindBinary], container.KindBinary,
		counts[container.KindLatin1], container.KindLatin1,
		counts[container.KindUTF16], container.KindUTF16)
	return tw.Flush()
}
