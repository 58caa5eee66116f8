package scaffold

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Status classifies an existing generated file against the header the
// generator would write now.
type Status int

const (
	// StatusMissing means there is no existing file.
	StatusMissing Status = iota
	// StatusFresh means the fingerprints match.
	StatusFresh
	// StatusStale means regenerating would change the file.
	StatusStale
	// StatusForeign means the file has no header, or one from another package.
	StatusForeign
	// StatusGeneratorNewer means the file is stale and was written by an
	// older generator than the running one.
	StatusGeneratorNewer
	// StatusGeneratorOlder means the file was written by a newer generator
	// than the running one.
	StatusGeneratorOlder
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusForeign:
		return "foreign"
	case StatusGeneratorNewer:
		return "generator-newer"
	case StatusGeneratorOlder:
		return "generator-older"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// OK reports whether the file needs no action.
func (s Status) OK() bool { return s == StatusFresh }

// Report is the outcome of CheckStaleness.
type Report struct {
	Status Status
	Found  Header // zero unless a header was parsed
	Want   Header
	Reason string
}

// CheckStaleness compares the header at the top of existing with want. An
// empty existing text is StatusMissing.
//
// Versions are compared as semantic versions; when either one does not parse,
// the version comparison is skipped.
func CheckStaleness(existing string, want Header) Report {
	r := Report{Want: want}
	if existing == "" {
		r.Status = StatusMissing
		r.Reason = "file does not exist"
		return r
	}

	found, ok := Parse(existing)
	if !ok {
		r.Status = StatusForeign
		r.Reason = "no scaffold header"
		return r
	}
	r.Found = found
	if found.Package != want.Package {
		r.Status = StatusForeign
		r.Reason = fmt.Sprintf("written by @%s, not @%s", found.Package, want.Package)
		return r
	}

	cmp, comparable := compareVersions(found.Version, want.Version)
	if comparable && cmp > 0 {
		r.Status = StatusGeneratorOlder
		r.Reason = fmt.Sprintf("written by v%s, running v%s", found.Version, want.Version)
		return r
	}
	if found.Hash == want.Hash {
		r.Status = StatusFresh
		return r
	}
	if comparable && cmp < 0 {
		r.Status = StatusGeneratorNewer
		r.Reason = fmt.Sprintf("written by v%s, running v%s", found.Version, want.Version)
		return r
	}
	r.Status = StatusStale
	r.Reason = fmt.Sprintf("hash %s, want %s", short(found.Hash), short(want.Hash))
	return r
}

// compareVersions returns the sign of found - running.
func compareVersions(found, running string) (int, bool) {
	f, err := semver.NewVersion(found)
	if err != nil {
		return 0, false
	}
	r, err := semver.NewVersion(running)
	if err != nil {
		return 0, false
	}
	return f.Compare(r), true
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
