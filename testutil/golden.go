// Package testutil provides golden-file helpers over txtar archives.
//
// A golden archive holds a test's inputs and its expected outputs side by
// side. Outputs live under a name prefix such as "out/":
//
//	-- manifest.yaml --
//	package: acme
//	...
//	-- out/UserId.g.cs --
//	// @acme v1.0.0 hash:...
//
// Run tests with -update to rewrite the outputs of every archive a test
// checks.
package testutil

import (
	"flag"
	"maps"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var update = flag.Bool("update", false, "rewrite golden archives")

// ReadArchive reads the txtar archive at path, failing the test on error.
func ReadArchive(t testing.TB, path string) *txtar.Archive {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err, "read golden archive")
	return ar
}

// File returns the content of the archive file named name, failing the test
// when it is absent.
func File(t testing.TB, ar *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("golden archive has no file %q", name)
	return nil
}

// Files returns the archive files whose names start with prefix, keyed by
// the rest of the name.
func Files(ar *txtar.Archive, prefix string) map[string][]byte {
	out := make(map[string][]byte)
	for _, f := range ar.Files {
		if name, ok := strings.CutPrefix(f.Name, prefix); ok {
			out[name] = f.Data
		}
	}
	return out
}

// AssertGolden compares got with the files under prefix in the archive at
// path. Every expected file must be produced and nothing else. With -update
// the archive's files under prefix are replaced by got instead.
func AssertGolden(t testing.TB, path, prefix string, got map[string][]byte) {
	t.Helper()
	ar := ReadArchive(t, path)

	if *update {
		kept := slices.DeleteFunc(slices.Clone(ar.Files), func(f txtar.File) bool {
			return strings.HasPrefix(f.Name, prefix)
		})
		for _, name := range slices.Sorted(maps.Keys(got)) {
			kept = append(kept, txtar.File{Name: prefix + name, Data: got[name]})
		}
		ar.Files = kept
		require.NoError(t, os.WriteFile(path, txtar.Format(ar), 0o644), "update golden archive")
		return
	}

	want := Files(ar, prefix)
	assert.ElementsMatch(t, slices.Collect(maps.Keys(want)), slices.Collect(maps.Keys(got)), "generated file set")
	for name, w := range want {
		if g, ok := got[name]; ok {
			assert.Equal(t, string(w), string(g), "file %s", name)
		}
	}
}
