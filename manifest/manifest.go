package manifest

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasmpkg/codec"
	"github.com/wippyai/wasmpkg/errors"
)

// Manifest describes what to pack and where to write it. Relative paths
// are resolved against Dir.
type Manifest struct {
	// Root is the base directory every input file must live under.
	Root string `yaml:"root" json:"root"`

	// Binary and Text list input files or doublestar patterns relative
	// to Root.
	Binary []string `yaml:"binary" json:"binary"`
	Text   []string `yaml:"text" json:"text"`

	Output string `yaml:"output" json:"output"`

	// Codec names the compression scheme; empty means infer it from
	// the Output extension.
	Codec string `yaml:"codec" json:"codec"`
	Level int    `yaml:"level" json:"level"`

	// Dir is the directory relative paths are resolved against: the
	// manifest file's directory, or the working directory.
	Dir string `yaml:"-" json:"-"`
}

// Format is a manifest file syntax.
type Format int

const (
	FormatYAML Format = iota
	// FormatJSONC is JSON with comments and trailing commas.
	FormatJSONC
)

// FormatForPath returns the format implied by the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return 0, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Path(path).
			Detail("manifest must be .yaml, .yml, .json or .jsonc").
			Build()
	}
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	m := &Manifest{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse yaml manifest")
		}
	case FormatJSONC:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse json manifest")
		}
	default:
		return nil, errors.Unsupported(errors.PhaseConfig, "manifest format")
	}
	return m, nil
}

// Load reads a manifest file. Dir is set to the file's directory.
func Load(path string) (*Manifest, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Path(path).
			Detail("read manifest").
			Cause(err).
			Build()
	}
	m, err := Parse(data, format)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = []string{path}
		}
		return nil, err
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Scheme returns the codec to store the output with: Codec when set,
// otherwise the one implied by the Output extension, otherwise brotli.
func (m *Manifest) Scheme() (codec.Scheme, error) {
	if m.Codec != "" {
		return codec.ParseScheme(m.Codec)
	}
	if s, ok := codec.SchemeForPath(m.Output); ok {
		return s, nil
	}
	if strings.EqualFold(filepath.Ext(m.Output), ".wasm") {
		return codec.None, nil
	}
	return codec.Brotli, nil
}

// Validate checks that the manifest names inputs and an output.
func (m *Manifest) Validate() error {
	if len(m.Binary)+len(m.Text) == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "no input files")
	}
	if m.Output == "" {
		return errors.InvalidInput(errors.PhaseConfig, "no output file")
	}
	_, err := m.Scheme()
	return err
}

// RootDir returns the absolute base directory.
func (m *Manifest) RootDir() (string, error) {
	root := m.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) && m.Dir != "" {
		root = filepath.Join(m.Dir, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resolve root")
	}
	return abs, nil
}

// OutputPath returns the output path resolved against Dir.
func (m *Manifest) OutputPath() string {
	if filepath.IsAbs(m.Output) || m.Dir == "" {
		return m.Output
	}
	return filepath.Join(m.Dir, m.Output)
}
