// Package declgen turns a backing type and a list of requested capabilities
// into a C# wrapper declaration.
//
// A Registry maps each Capability to a Synthesizer. Apply classifies the
// backing type once, runs every requested synthesizer through the interceptor
// chain, and reports which capabilities were inapplicable:
//
//	reg := declgen.DefaultRegistry()
//	res, err := reg.Apply(ctx, declgen.Request{
//	    Decl:     ir.Declare(ir.KindStruct, "UserId").WithModifiers(ir.ModReadonly | ir.ModPartial),
//	    Backing:  backing.Guid,
//	    Accessor: ir.MustAccessor("Value"),
//	    Capabilities: []declgen.CapabilityRequest{
//	        {Capability: declgen.CapWrapper},
//	        {Capability: declgen.CapEquality},
//	        {Capability: declgen.CapArithmetic}, // skipped: Guid is not numeric
//	    },
//	})
package declgen

import (
	"fmt"
	"strings"
)

// Capability names one synthesis module.
type Capability int

const (
	CapWrapper Capability = iota
	CapEquality
	CapComparison
	CapConversion
	CapFormattable
	CapParsable
	CapArithmetic
	CapBitwise
	CapShift
	CapEnumeration
	CapDisposal
	CapSingleton
	CapBuilder
	CapFactory

	numCapabilities
)

var capabilityNames = [numCapabilities]string{
	CapWrapper:     "wrapper",
	CapEquality:    "equality",
	CapComparison:  "comparison",
	CapConversion:  "conversion",
	CapFormattable: "formattable",
	CapParsable:    "parsable",
	CapArithmetic:  "arithmetic",
	CapBitwise:     "bitwise",
	CapShift:       "shift",
	CapEnumeration: "enumeration",
	CapDisposal:    "disposal",
	CapSingleton:   "singleton",
	CapBuilder:     "builder",
	CapFactory:     "factory",
}

func (c Capability) String() string {
	if c < 0 || c >= numCapabilities {
		return fmt.Sprintf("Capability(%d)", int(c))
	}
	return capabilityNames[c]
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool { return c >= 0 && c < numCapabilities }

// MarshalText implements encoding.TextMarshaler.
func (c Capability) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, Errorf(CodeUnknownCapability, "unknown capability %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Capability) UnmarshalText(text []byte) error {
	v, ok := ParseCapability(string(text))
	if !ok {
		return Errorf(CodeUnknownCapability, "unknown capability %q", text)
	}
	*c = v
	return nil
}

// ParseCapability returns the capability named s, ignoring case.
func ParseCapability(s string) (Capability, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range capabilityNames {
		if name == s {
			return Capability(i), true
		}
	}
	return 0, false
}

// AllCapabilities returns every capability in application order.
func AllCapabilities() []Capability {
	out := make([]Capability, numCapabilities)
	for i := range out {
		out[i] = Capability(i)
	}
	return out
}
