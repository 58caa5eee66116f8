package declgen

import (
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/gorilla/schema"

	"github.com/broady/declgen/backing"
)

// Options holds the raw options of one capability, keyed by option name.
// Repeated keys carry list values.
type Options map[string][]string

var optionDecoder = newOptionDecoder()

func newOptionDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	d.RegisterConverter(backing.StringComparison(0), func(s string) reflect.Value {
		c, ok := backing.ParseStringComparison(s)
		if !ok {
			return reflect.Value{}
		}
		return reflect.ValueOf(c)
	})
	return d
}

// Decode fills dst, a pointer to an options struct with schema tags. Unknown
// keys and unparseable values are errors.
func (o Options) Decode(dst any) error {
	if len(o) == 0 {
		return nil
	}
	return optionDecoder.Decode(dst, map[string][]string(o))
}

// Set replaces the values of key.
func (o Options) Set(key string, values ...string) { o[key] = values }

// Encode renders the options as a query string with sorted keys. Values keep
// their order.
func (o Options) Encode() string {
	if len(o) == 0 {
		return ""
	}
	return url.Values(o).Encode()
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CapabilityRequest is one capability to apply, with its options.
type CapabilityRequest struct {
	Capability Capability
	Options    Options
}

// String renders r in the shorthand accepted by ParseCapabilityRequest.
func (r CapabilityRequest) String() string {
	if q := r.Options.Encode(); q != "" {
		return r.Capability.String() + "?" + q
	}
	return r.Capability.String()
}

// ParseCapabilityRequest parses the shorthand "name" or "name?key=value&key=value",
// e.g. "equality?comparison=OrdinalIgnoreCase".
func ParseCapabilityRequest(s string) (CapabilityRequest, error) {
	name, query, _ := strings.Cut(strings.TrimSpace(s), "?")
	c, ok := ParseCapability(name)
	if !ok {
		return CapabilityRequest{}, Errorf(CodeUnknownCapability, "unknown capability %q", name)
	}
	r := CapabilityRequest{Capability: c}
	if query == "" {
		return r, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return CapabilityRequest{}, Errorf(CodeInvalidArgument, "capability %s: %v", c, err)
	}
	r.Options = Options(values)
	return r, nil
}
