package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg"
	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/manifest"
)

func runPack(ctx context.Context, args []string) error {
	var (
		logs         logOptions
		manifestPath string
		binary, text []string
		output, root string
		codecName    string
		level        int
		dryRun       bool
	)

	fs := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	fs.StringArrayVarP(&binary, "binary", "b", nil, "binary file or glob, relative to --path (repeatable)")
	fs.StringArrayVarP(&text, "text", "t", nil, "text file or glob, relative to --path (repeatable)")
	fs.StringVarP(&output, "output", "o", "", "artifact to write")
	fs.StringVarP(&root, "path", "p", ".", "base directory of the input files")
	fs.StringVarP(&manifestPath, "manifest", "m", "", "YAML or JSONC manifest; flags override its fields")
	fs.StringVar(&codecName, "codec", "", "compression: none, brotli, zstd, lz4, gzip (default from output extension)")
	fs.IntVar(&level, "level", codec.DefaultLevel, "compression level, 0 for the codec default")
	fs.BoolVar(&dryRun, "dry-run", false, "build the artifact but do not write it")
	logs.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wasmpkg pack -b <file> -t <file> -o <out.wasm.br> [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	// positional arguments are treated as binary inputs
	binary = append(binary, fs.Args()...)

	logger, err := logs.setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m := &manifest.Manifest{}
	if manifestPath != "" {
		if m, err = manifest.Load(manifestPath); err != nil {
			return err
		}
	}
	if fs.Changed("binary") || len(fs.Args()) > 0 {
		m.Binary = binary
	}
	if fs.Changed("text") {
		m.Text = text
	}
	if fs.Changed("path") || manifestPath == "" {
		if m.Root, err = filepath.Abs(root); err != nil {
			return err
		}
	}
	if fs.Changed("output") {
		if m.Output, err = filepath.Abs(output); err != nil {
			return err
		}
	}
	if fs.Changed("codec") {
		m.Codec = codecName
	}
	if fs.Changed("level") {
		m.Level = level
	}

	if err := m.Validate(); err != nil {
		return err
	}
	scheme, _ := m.Scheme()
	outPath := m.OutputPath()
	if want := ".wasm" + scheme.Ext(); !strings.HasSuffix(strings.ToLower(outPath), want) {
		logger.Warn("output extension does not match codec",
			zap.String("output", outPath),
			zap.String("expected", want))
	}

	rootDir, err := m.RootDir()
	if err != nil {
		return err
	}
	logger.Info("root directory", zap.String("path", rootDir))

	files, err := m.Collect()
	if err != nil {
		return err
	}
	in, err := manifest.Input(files)
	if err != nil {
		return err
	}

	logger.Info("compressing",
		zap.Stringer("codec", scheme),
		zap.Int("files", in.Len()))
	art, err := wasmpkg.Build(in, scheme, m.Level)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !dryRun {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, art.Data, 0o644); err != nil {
			return err
		}
	}

	logger.Info("saved",
		zap.String("output", outPath),
		zap.Bool("dry_run", dryRun),
		zap.String("container", humanize.Comma(int64(art.ContainerSize))),
		zap.String("frame", humanize.Comma(int64(art.FrameSize))),
		zap.String("stored", humanize.Comma(int64(len(art.Data)))),
		zap.String("ratio", fmt.Sprintf("%.2f%%", art.Ratio()*100)))
	return nil
}
