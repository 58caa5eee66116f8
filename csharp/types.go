// Package csharp renders declaration trees as C# source text.
//
// Rendering is deterministic: the same tree and Config always produce the same
// bytes. Members are emitted in insertion order, and each guarded member is
// wrapped in its own #if/#endif pair.
package csharp

import "github.com/broady/declgen/ir"

// Config controls formatting.
type Config struct {
	// Formatting
	IndentStyle     string // "space" or "tab"
	IndentSize      int    // Spaces per indent level (when IndentStyle is "space")
	LineEnding      string // "lf" or "crlf"
	TrailingNewline bool   // Ensure files end with a newline

	// Features
	EmitComments        bool // Include XML documentation comments
	FileScopedNamespace bool // "namespace X;" instead of a block, when a file has one namespace
	NullableEnable      bool // Emit "#nullable enable" at the top of files
	AutoGenerated       bool // Emit "// <auto-generated/>" at the top of files

	// Usings are emitted in order at the top of every file.
	Usings []string
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		IndentStyle:         "space",
		IndentSize:          4,
		LineEnding:          "lf",
		TrailingNewline:     true,
		EmitComments:        true,
		FileScopedNamespace: true,
		NullableEnable:      true,
		AutoGenerated:       true,
	}
}

// File is one compilation unit.
type File struct {
	// Header lines are emitted verbatim before anything else.
	Header []string

	// Namespace overrides the namespaces of the declarations when set.
	Namespace string

	// Usings are emitted after the configured usings.
	Usings []string

	Types []ir.TypeDeclaration
}
