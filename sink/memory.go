package sink

import (
	"context"
	"io/fs"
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// Memory stores generated files in memory.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under p.
func (s *Memory) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ValidatePath(p); err != nil {
		return errors.Wrapf(err, "invalid path %q", p)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = slices.Clone(content)
	return nil
}

// ReadFile returns a copy of the content stored under p.
func (s *Memory) ReadFile(p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: p, Err: fs.ErrNotExist}
	}
	return slices.Clone(content), nil
}

// Get returns the content of a single file, or nil if not found.
func (s *Memory) Get(p string) []byte {
	b, _ := s.ReadFile(p)
	return b
}

// Files returns a copy of all written files.
func (s *Memory) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.files))
	for p, content := range s.files {
		out[p] = slices.Clone(content)
	}
	return out
}

// Paths returns the stored paths in sorted order.
func (s *Memory) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.files))
}

// Reset clears all stored files.
func (s *Memory) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}
