package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/broady/declgen"
)

// Capability is one entry of a type's capability list. In YAML it is either
// the shorthand string "name?key=value" or a mapping with a name and options:
//
//	- equality?comparison=OrdinalIgnoreCase
//	- name: enumeration
//	  options:
//	    members: [Red, Green]
type Capability struct {
	Name    declgen.Capability
	Options declgen.Options
}

// Request converts c to a synthesis request.
func (c Capability) Request() declgen.CapabilityRequest {
	return declgen.CapabilityRequest{Capability: c.Name, Options: c.Options}
}

type capabilityMapping struct {
	Name    string               `yaml:"name"`
	Options map[string]yaml.Node `yaml:"options"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Capability) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		r, err := declgen.ParseCapabilityRequest(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = Capability{Name: r.Capability, Options: r.Options}
		return nil

	case yaml.MappingNode:
		var m capabilityMapping
		if err := node.Decode(&m); err != nil {
			return err
		}
		name, ok := declgen.ParseCapability(m.Name)
		if !ok {
			return fmt.Errorf("line %d: %w", node.Line, declgen.Errorf(declgen.CodeUnknownCapability, "unknown capability %q", m.Name))
		}
		out := Capability{Name: name}
		if len(m.Options) > 0 {
			out.Options = make(declgen.Options, len(m.Options))
			for k, v := range m.Options {
				values, err := optionValues(&v)
				if err != nil {
					return fmt.Errorf("line %d: option %s: %w", v.Line, k, err)
				}
				out.Options[k] = values
			}
		}
		*c = out
		return nil
	}
	return fmt.Errorf("line %d: capability must be a string or a mapping", node.Line)
}

// MarshalYAML implements yaml.Marshaler using the shorthand form.
func (c Capability) MarshalYAML() (any, error) {
	return c.Request().String(), nil
}

// optionValues flattens a scalar or a sequence of scalars.
func optionValues(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("list items must be scalars")
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	return nil, fmt.Errorf("must be a scalar or a list of scalars")
}
