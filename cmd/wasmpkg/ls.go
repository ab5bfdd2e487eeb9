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

	"github.com/wippyai/wasmpkg/container"
)

func runList(ctx context.Context, args []string) error {
	var (
		logs  logOptions
		open  openOptions
		long  bool
		sum   bool
		human bool
	)
	fs := pflag.NewFlagSet("ls", pflag.ContinueOnError)
	fs.BoolVarP(&long, "long", "l", false, "show kind, size and offset")
	fs.BoolVar(&sum, "sum", false, "show the xxhash64 of each payload")
	fs.BoolVarP(&human, "human", "H", false, "show sizes in human units")
	open.addFlags(fs)
	logs.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wasmpkg ls [flags] <artifact>")
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

	pkg, err := open.open(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	defer pkg.Close(ctx)

	return listPackage(os.Stdout, pkg.Package, long, sum, human)
}

func listPackage(w io.Writer, pkg *container.Package, long, sum, human bool) error {
	if !long && !sum {
		for _, name := range pkg.Files() {
			fmt.Fprintln(w, name)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range pkg.Files() {
		e, _ := pkg.Entry(name)
		if long {
			size := fmt.Sprint(e.Length)
			if human {
				size = humanize.IBytes(uint64(e.Length))
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t", e.Kind, size, e.Offset)
		}
		if sum {
			data, _ := pkg.ReadBytes(name)
			fmt.Fprintf(tw, "%016x\t", xxhash.Sum64(data))
		}
		fmt.Fprintln(tw, name)
	}
	return tw.Flush()
}
