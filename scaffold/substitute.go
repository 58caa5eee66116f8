package scaffold

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Placeholder returns the template placeholder for key: "Name" becomes
// "{{name}}", "TypeName" becomes "{{typeName}}".
func Placeholder(key string) string {
	return "{{" + strcase.ToLowerCamel(key) + "}}"
}

type segment struct {
	text string
	done bool // placeholder text, never matched again
}

// Substitute replaces every occurrence of each binding's value in text with
// the binding key's placeholder.
//
// Longer values are replaced first so that a short value never matches inside
// a longer one; values of equal length keep their binding order. Inserted
// placeholders are never rescanned. Empty values are ignored.
func Substitute(text string, bindings []Binding) string {
	return substitute(text, bindings, false, nil)
}

// SubstituteIdentifiers is Substitute restricted to whole identifiers: a
// value only matches where it is not directly preceded or followed by a
// letter, digit or underscore, so "Value" leaves "ValueTask" and
// "TryFromValue" alone. Occurrences of the keep strings are left untouched.
func SubstituteIdentifiers(text string, bindings []Binding, keep ...string) string {
	return substitute(text, bindings, true, keep)
}

func substitute(text string, bindings []Binding, whole bool, keep []string) string {
	ordered := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Value != "" {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Value) > len(ordered[j].Value)
	})

	segs := []segment{{text: text}}
	for _, k := range keep {
		if k != "" {
			segs = replace(segs, k, segment{text: k, done: true}, false)
		}
	}
	for _, b := range ordered {
		segs = replace(segs, b.Value, segment{text: Placeholder(b.Key), done: true}, whole)
	}

	var out strings.Builder
	for _, s := range segs {
		out.WriteString(s.text)
	}
	return out.String()
}

// replace splits every open segment at the matches of value and puts with
// in their place.
func replace(segs []segment, value string, with segment, whole bool) []segment {
	next := make([]segment, 0, len(segs))
	for _, s := range segs {
		if s.done || !strings.Contains(s.text, value) {
			next = append(next, s)
			continue
		}
		rest := s.text
		for {
			i := index(rest, value, whole)
			if i < 0 {
				break
			}
			if i > 0 {
				next = append(next, segment{text: rest[:i]})
			}
			next = append(next, with)
			rest = rest[i+len(value):]
		}
		if rest != "" {
			next = append(next, segment{text: rest})
		}
	}
	return next
}

// index returns the first match of value in s, or -1. With whole set, matches
// touching identifier characters are skipped.
func index(s, value string, whole bool) int {
	off := 0
	for {
		i := strings.Index(s[off:], value)
		if i < 0 {
			return -1
		}
		i += off
		if !whole || boundary(s, i, i+len(value)) {
			return i
		}
		off = i + 1
	}
}

func boundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isIdent(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isIdent(r) {
			return false
		}
	}
	return true
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Scaffold is Substitute over the bindings of h.
func (h *Hasher) Scaffold(text string) string {
	return Substitute(text, h.bindings)
}
