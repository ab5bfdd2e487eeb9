package manifest

import (
	"os"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/errors"
)

// Input reads the files into a container input. Text files are taken as
// UTF-8; invalid sequences are stored as U+FFFD.
func Input(files []File) (*container.Input, error) {
	in := &container.Input{}
	total := 0
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
				Path(f.Name).
				Detail("read input file").
				Cause(err).
				Build()
		}
		if f.Text {
			in.AddText(f.Name, string(data))
		} else {
			in.AddBinary(f.Name, data)
		}
		total += len(data)

		mode := "bin"
		if f.Text {
			mode = "txt"
		}
		Logger().Info("added file",
			zap.String("mode", mode),
			zap.String("file", f.Name),
			zap.String("bytes", humanize.Comma(int64(len(data)))))
	}
	Logger().Debug("input collected", zap.Int("files", len(files)), zap.String("size", humanize.IBytes(uint64(total))))
	return in, nil
}
