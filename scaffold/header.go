package scaffold

import (
	"regexp"
	"strings"
)

// Header is the two-line provenance block prefixed to generated files:
//
//	// @<package> v<version> hash:<hash>
//	// scaffold: <scaffoldName>
type Header struct {
	Package  string
	Version  string // without the leading "v"
	Hash     string
	Scaffold string
}

var (
	provenanceLine = regexp.MustCompile(`^// @(\S+) v(\S+) hash:(\S+)$`)
	scaffoldLine   = regexp.MustCompile(`^// scaffold: (\S+)$`)
)

// Lines returns the two header lines without line terminators.
func (h Header) Lines() []string {
	return []string{
		"// @" + h.Package + " v" + strings.TrimPrefix(h.Version, "v") + " hash:" + h.Hash,
		"// scaffold: " + h.Scaffold,
	}
}

// Format returns the two header lines joined by a newline, without a
// trailing newline.
func (h Header) Format() string {
	return strings.Join(h.Lines(), "\n")
}

// Valid reports whether h would survive a Format/Parse round trip.
func (h Header) Valid() bool {
	_, ok := Parse(h.Format())
	return ok
}

// Parse reads a header from the first two lines of text. Any deviation from
// the fixed format, including an empty field, yields ok=false.
func Parse(text string) (h Header, ok bool) {
	h, _, ok = Split(text)
	return h, ok
}

// Split separates a header from the text that follows it. When text does not
// start with a well-formed header, it returns ok=false and the text unchanged.
func Split(text string) (h Header, rest string, ok bool) {
	first, after, found := cutLine(text)
	if !found {
		return Header{}, text, false
	}
	second, body, _ := cutLine(after)

	m := provenanceLine.FindStringSubmatch(first)
	if m == nil {
		return Header{}, text, false
	}
	n := scaffoldLine.FindStringSubmatch(second)
	if n == nil {
		return Header{}, text, false
	}
	return Header{Package: m[1], Version: m[2], Hash: m[3], Scaffold: n[1]}, body, true
}

// Prepend returns text with h in front of it. An existing header on text is
// replaced.
func Prepend(h Header, text string) string {
	if _, rest, ok := Split(text); ok {
		text = rest
	}
	return h.Format() + "\n" + text
}

// cutLine splits off the first line, accepting "\n" and "\r\n".
func cutLine(s string) (line, rest string, found bool) {
	line, rest, found = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, found
}
