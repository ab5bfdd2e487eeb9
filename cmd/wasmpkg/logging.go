package main

import (
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wasmpkg/loader"
	"github.com/wippyai/wasmpkg/manifest"
)

type logOptions struct {
	verbose bool
	json    bool
}

func (o *logOptions) addFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug output")
	fs.BoolVar(&o.json, "log-json", false, "log JSON records instead of console output")
}

// setup builds the process logger and hands it to the library packages.
func (o *logOptions) setup() (*zap.Logger, error) {
	var cfg zap.Config
	if o.json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.DisableCaller = true
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if term.IsTerminal(int(os.Stderr.Fd())) {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if o.verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	loader.SetLogger(logger.Named("loader"))
	manifest.SetLogger(logger.Named("manifest"))
	return logger, nil
}
