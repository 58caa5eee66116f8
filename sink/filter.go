package sink

import (
	"context"
	"path"
)

type filter struct {
	next Sink
	keep func(string) bool
}

// Filter returns a sink forwarding to next only the files for which keep
// reports true. Dropped files are not errors.
func Filter(next Sink, keep func(path string) bool) Sink {
	return &filter{next: next, keep: keep}
}

func (f *filter) WriteFile(ctx context.Context, p string, content []byte) error {
	if !f.keep(p) {
		return nil
	}
	return f.next.WriteFile(ctx, p, content)
}

// Match returns a sink forwarding to next only the files whose path matches
// one of patterns (path.Match syntax). With no patterns every file passes.
func Match(next Sink, patterns ...string) Sink {
	if len(patterns) == 0 {
		return next
	}
	return Filter(next, func(p string) bool {
		for _, pat := range patterns {
			if ok, _ := path.Match(pat, p); ok {
				return true
			}
		}
		return false
	})
}
