// Package sink provides output destinations for generated C# files.
//
// Every sink is safe for concurrent use. Paths handed to a sink are
// slash-separated and relative; ValidatePath describes the accepted form.
package sink

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sink receives generated file content.
type Sink interface {
	// WriteFile writes content to the specified path.
	// The path is relative; the sink determines the actual location.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Reader is implemented by sinks whose previous output can be read back,
// which is what staleness checks need.
type Reader interface {
	// ReadFile returns the content at path. Missing files report an error
	// matching fs.ErrNotExist.
	ReadFile(path string) ([]byte, error)
}

// Dir writes to a directory on the local filesystem.
type Dir struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, WriteFile fails when a file exists.
	Overwrite bool
}

// NewDir creates a Dir sink writing to root, replacing existing files.
func NewDir(root string) *Dir {
	return &Dir{
		Root:      root,
		Mode:      0o644,
		Overwrite: true,
	}
}

// resolve validates p and returns its location under the root.
func (s *Dir) resolve(p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", errors.Wrapf(err, "invalid path %q", p)
	}
	full := filepath.Join(s.Root, filepath.FromSlash(p))

	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", errors.Wrap(err, "resolve root directory")
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", errors.Wrap(err, "resolve path")
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.Newf("path escapes root directory: %q", p)
	}
	return full, nil
}

// WriteFile writes content to p within the root directory.
// It creates parent directories as needed and writes atomically via a temp
// file and rename.
func (s *Dir) WriteFile(ctx context.Context, p string, content []byte) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create directories")
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(dir, ".declgen-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	// Leftover temp files only exist on failure and carry a fixed prefix.
	cleanup := func() { _ = os.Remove(tmpPath) }

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if writeErr != nil {
		cleanup()
		return errors.Wrap(writeErr, "write temp file")
	}
	if closeErr != nil {
		cleanup()
		return errors.Wrap(closeErr, "close temp file")
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return errors.Wrap(err, "set file mode")
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, full); err != nil {
			cleanup()
			return errors.Wrap(err, "rename temp file")
		}
		return nil
	}
	// os.Link fails if the target exists, with no stat/rename race.
	if err := os.Link(tmpPath, full); err != nil {
		cleanup()
		if errors.Is(err, fs.ErrExist) {
			return errors.Newf("file already exists: %q", p)
		}
		return errors.Wrap(err, "create file")
	}
	cleanup()
	return nil
}

// ReadFile reads p from the root directory.
func (s *Dir) ReadFile(p string) ([]byte, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// ValidatePath checks if a path is valid for output.
// Paths must be relative (no leading /), use / as separator,
// not contain .. components, and be clean (no ./, duplicate /).
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return errors.New("absolute paths not allowed")
	}
	// Windows drive letters, checked on every platform.
	if len(p) >= 2 && p[1] == ':' && ((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z')) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(p, "\\") {
		return errors.New("paths must use / as separator")
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := path.Clean(p); cleaned != p {
		return errors.Newf("path is not clean (expected %q, got %q)", cleaned, p)
	}
	return nil
}
