package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
)

// Extension is the file extension of network descriptions.
const Extension = ".ge"

// Input is a network description and where it came from.
type Input struct {
	// Path is the file the description was read from; empty for in-memory input.
	Path    string
	Source  []byte
	ModTime time.Time

	hash string
}

// ReadInput reads the description at path.
func ReadInput(path string) (*Input, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return &Input{Path: path, Source: src, ModTime: info.ModTime()}, nil
}

// NewInput wraps an in-memory description. name is used for diagnostics and
// as the base of output file names.
func NewInput(name string, src []byte) *Input {
	return &Input{Path: name, Source: src}
}

// Name returns the file name used in diagnostics.
func (in *Input) Name() string {
	if in.Path == "" {
		return "<input>"
	}
	return filepath.Base(in.Path)
}

// Base returns the file name without directory and extension.
func (in *Input) Base() string {
	name := filepath.Base(in.Path)
	if in.Path == "" {
		name = "drainplan"
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Dir returns the directory of the input file.
func (in *Input) Dir() string {
	if in.Path == "" {
		return "."
	}
	return filepath.Dir(in.Path)
}

// Hash returns the SHA-256 of the source.
func (in *Input) Hash() string {
	if in.hash == "" {
		in.hash = cache.Hash(in.Source)
	}
	return in.hash
}

// FileName returns the output file name of a for an input with base name base.
func (a Artifact) FileName(base string) string {
	switch a.Kind {
	case cache.KindEstimate:
		return base + estimate.Format(a.Format).Ext()
	case cache.KindTopology:
		return base + ".topology." + a.Format
	}
	return base + "." + a.Format
}

// WriteArtifact writes a next to in, or into dir when dir is not empty, and
// returns the path written. When the existing output is newer than the input
// it is kept and the artifact goes to the same path with a "~" appended.
func WriteArtifact(dir string, in *Input, a Artifact) (string, error) {
	if dir == "" {
		dir = in.Dir()
	}
	path := filepath.Join(dir, a.FileName(in.Base()))
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && !in.ModTime.IsZero() && info.ModTime().After(in.ModTime) {
		path += "~"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
