package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/wippyai/wasmpkg/container"
	wperrors "github.com/wippyai/wasmpkg/errors"
)

func runCat(ctx context.Context, args []string) error {
	var (
		logs logOptions
		open openOptions
		raw  bool
	)
	fs := pflag.NewFlagSet("cat", pflag.ContinueOnError)
	fs.BoolVar(&raw, "raw", false, "write stored bytes without decoding text")
	open.addFlags(fs)
	logs.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wasmpkg cat [flags] <artifact> <name>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("expected an artifact and at least one name")
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

	for _, name := range fs.Args()[1:] {
		if err := writeEntry(os.Stdout, pkg.Package, name, raw); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, pkg *container.Package, name string, raw bool) error {
	if raw {
		data, ok := pkg.ReadBytes(name)
		if !ok {
			return wperrors.NotFound(wperrors.PhaseDecode, "file", name)
		}
		_, err := w.Write(data)
		return err
	}

	v, err := pkg.Read(name)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case []byte:
		_, err = w.Write(v)
	case string:
		_, err = io.WriteString(w, v)
	default:
		err = wperrors.NotFound(wperrors.PhaseDecode, "file", name)
	}
	return err
}
