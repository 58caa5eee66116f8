package csharp

import "strings"

// C# reserved keywords. Contextual keywords (value, var, record, ...) are valid
// identifiers and are not listed.
var reservedWords = map[string]bool{
	"abstract":   true,
	"as":         true,
	"base":       true,
	"bool":       true,
	"break":      true,
	"byte":       true,
	"case":       true,
	"catch":      true,
	"char":       true,
	"checked":    true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"decimal":    true,
	"default":    true,
	"delegate":   true,
	"do":         true,
	"double":     true,
	"else":       true,
	"enum":       true,
	"event":      true,
	"explicit":   true,
	"extern":     true,
	"false":      true,
	"finally":    true,
	"fixed":      true,
	"float":      true,
	"for":        true,
	"foreach":    true,
	"goto":       true,
	"if":         true,
	"implicit":   true,
	"in":         true,
	"int":        true,
	"interface":  true,
	"internal":   true,
	"is":         true,
	"lock":       true,
	"long":       true,
	"namespace":  true,
	"new":        true,
	"null":       true,
	"object":     true,
	"operator":   true,
	"out":        true,
	"override":   true,
	"params":     true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"readonly":   true,
	"ref":        true,
	"return":     true,
	"sbyte":      true,
	"sealed":     true,
	"short":      true,
	"sizeof":     true,
	"stackalloc": true,
	"static":     true,
	"string":     true,
	"struct":     true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"typeof":     true,
	"uint":       true,
	"ulong":      true,
	"unchecked":  true,
	"unsafe":     true,
	"ushort":     true,
	"using":      true,
	"virtual":    true,
	"void":       true,
	"volatile":   true,
	"while":      true,
}

// IsReserved reports whether name is a C# reserved keyword.
func IsReserved(name string) bool { return reservedWords[name] }

// EscapeIdentifier prefixes a reserved word with "@" so it can be used as an
// identifier. Other names, including already-verbatim ones, are returned as is.
func EscapeIdentifier(name string) string {
	if reservedWords[name] {
		return "@" + name
	}
	return name
}

// SanitizeIdentifier makes an arbitrary string a valid C# identifier: invalid
// characters become underscores, a leading digit gets an underscore prefix and
// reserved words are escaped.
func SanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return EscapeIdentifier(b.String())
}
