package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/wippyai/wasmpkg/errors"
)

// File is one resolved input.
type File struct {
	// Name is the entry name: the path relative to the root, with '/'
	// separators.
	Name string
	// Path is the absolute path on disk.
	Path string
	Text bool
}

// Collect expands the binary and text lists against root. Patterns may
// use doublestar globs; a pattern that matches nothing is an error, as is
// any file outside root. Repeated files are kept once. A file listed as
// both binary and text is packed as text. Binary files come first, each
// group in order of first appearance.
func Collect(root string, binary, text []string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resolve root")
	}

	binFiles, err := expandAll(root, binary)
	if err != nil {
		return nil, err
	}
	txtFiles, err := expandAll(root, text)
	if err != nil {
		return nil, err
	}

	isText := make(map[string]bool, len(txtFiles))
	for _, f := range txtFiles {
		isText[f.Name] = true
	}

	files := make([]File, 0, len(binFiles)+len(txtFiles))
	for _, f := range binFiles {
		if isText[f.Name] {
			Logger().Warn("file switched to text mode", zap.String("file", f.Name))
			continue
		}
		files = append(files, f)
	}
	for _, f := range txtFiles {
		f.Text = true
		files = append(files, f)
	}
	return files, nil
}

// Collect resolves the manifest's inputs.
func (m *Manifest) Collect() ([]File, error) {
	root, err := m.RootDir()
	if err != nil {
		return nil, err
	}
	return Collect(root, m.Binary, m.Text)
}

func expandAll(root string, patterns []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)
	for _, p := range patterns {
		matched, err := expand(root, p)
		if err != nil {
			return nil, err
		}
		for _, f := range matched {
			if !seen[f.Name] {
				seen[f.Name] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func expand(root, pattern string) ([]File, error) {
	rel, err := relative(root, pattern)
	if err != nil {
		return nil, err
	}

	if !hasMeta(rel) {
		f, err := regular(root, rel)
		if err != nil {
			return nil, err
		}
		return []File{f}, nil
	}

	if !doublestar.ValidatePattern(rel) {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(pattern).
			Detail("malformed pattern").
			Build()
	}
	names, err := doublestar.Glob(os.DirFS(root), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "expand "+pattern)
	}
	if len(names) == 0 {
		return nil, errors.NotFound(errors.PhaseConfig, "pattern", pattern)
	}
	slices.Sort(names)

	files := make([]File, 0, len(names))
	for _, name := range names {
		f, err := regular(root, name)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// relative converts pattern to a clean '/'-separated path under root.
func relative(root, pattern string) (string, error) {
	p := filepath.FromSlash(strings.ReplaceAll(pattern, `\`, "/"))
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	rel, err := filepath.Rel(root, filepath.Clean(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(pattern).
			Detail("file is outside the base directory %s", root).
			Build()
	}
	return filepath.ToSlash(rel), nil
}

func regular(root, rel string) (File, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return File{}, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Path(rel).
			Detail("input file").
			Cause(err).
			Build()
	}
	if !info.Mode().IsRegular() {
		return File{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(rel).
			Detail("not a regular file").
			Build()
	}
	return File{Name: rel, Path: path}, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
