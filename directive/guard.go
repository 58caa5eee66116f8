package directive

// Target framework symbols defined by the .NET SDK.
var (
	Net6OrGreater          = Condition("NET6_0_OR_GREATER")
	Net7OrGreater          = Condition("NET7_0_OR_GREATER")
	Net8OrGreater          = Condition("NET8_0_OR_GREATER")
	NetStandard21OrGreater = Condition("NETSTANDARD2_1_OR_GREATER")
	NetCoreApp30OrGreater  = Condition("NETCOREAPP3_0_OR_GREATER")
)

const (
	openPrefix = "#if "
	closeLine  = "#endif"
)

// Open returns the line that opens a guard for e, or "" when e needs no guard.
func Open(e Expr) string {
	text := Render(e)
	if text == "" {
		return ""
	}
	return openPrefix + text
}

// Close returns the line that closes a guard opened by Open.
func Close() string { return closeLine }

// Wrap surrounds lines with the guard for e. Lines are returned unchanged when
// e needs no guard.
func Wrap(e Expr, lines []string) []string {
	open := Open(e)
	if open == "" {
		return lines
	}
	out := make([]string, 0, len(lines)+2)
	out = append(out, open)
	out = append(out, lines...)
	return append(out, closeLine)
}
