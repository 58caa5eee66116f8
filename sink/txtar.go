package sink

import (
	"context"
	"io"

	"golang.org/x/tools/txtar"
)

// Archive collects files into a txtar archive. Files are kept in path order
// so the archive is reproducible.
type Archive struct {
	// Comment is written before the first file.
	Comment string

	mem *Memory
}

// NewArchive creates an empty Archive.
func NewArchive(comment string) *Archive {
	return &Archive{Comment: comment, mem: NewMemory()}
}

// WriteFile adds or replaces the file at p.
func (a *Archive) WriteFile(ctx context.Context, p string, content []byte) error {
	return a.mem.WriteFile(ctx, p, content)
}

// ReadFile returns the archived content of p.
func (a *Archive) ReadFile(p string) ([]byte, error) {
	return a.mem.ReadFile(p)
}

// Txtar returns the archive.
func (a *Archive) Txtar() *txtar.Archive {
	ar := &txtar.Archive{}
	if a.Comment != "" {
		ar.Comment = []byte(a.Comment + "\n")
	}
	files := a.mem.Files()
	for _, p := range a.mem.Paths() {
		ar.Files = append(ar.Files, txtar.File{Name: p, Data: files[p]})
	}
	return ar
}

// Bytes returns the archive in txtar format.
func (a *Archive) Bytes() []byte {
	return txtar.Format(a.Txtar())
}

// WriteTo writes the archive in txtar format to w.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Bytes())
	return int64(n), err
}
