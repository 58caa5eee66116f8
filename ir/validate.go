package ir

import (
	"fmt"

	"github.com/broady/declgen/directive"
)

// ValidationError reports caller misuse found in a declaration tree.
type ValidationError struct {
	// Field is the path of the offending element, e.g. "Members[3].Name".
	Field string

	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "ir: " + e.Message
	}
	return fmt.Sprintf("ir: %s: %s", e.Field, e.Message)
}

// Validate reports the first structural problem in d: empty or malformed
// names, invalid guards, operators with the wrong operand count, members
// without a type. It does not judge whether the emitted C# would compile.
func (d TypeDeclaration) Validate() error {
	return d.validate("")
}

func (d TypeDeclaration) validate(path string) error {
	if !IsIdentifier(d.Name) {
		return &ValidationError{Field: path + "Name", Message: fmt.Sprintf("type name %q is not an identifier", d.Name)}
	}
	for i, tp := range d.TypeParameters {
		if !IsIdentifier(tp) {
			return &ValidationError{Field: fmt.Sprintf("%sTypeParameters[%d]", path, i), Message: fmt.Sprintf("type parameter %q is not an identifier", tp)}
		}
	}
	for i, iface := range d.Interfaces {
		p := fmt.Sprintf("%sInterfaces[%d]", path, i)
		if iface.Name == "" {
			return &ValidationError{Field: p, Message: "interface name is empty"}
		}
		if err := validGuard(p, iface.Guard); err != nil {
			return err
		}
	}
	for i, m := range d.Members {
		if err := validateMember(fmt.Sprintf("%sMembers[%d]", path, i), m); err != nil {
			return err
		}
	}
	for i, n := range d.Nested {
		p := fmt.Sprintf("%sNested[%d]", path, i)
		if err := validGuard(p, n.Guard); err != nil {
			return err
		}
		if err := n.Decl.validate(p + "."); err != nil {
			return err
		}
	}
	return nil
}

func validateMember(path string, m Member) error {
	if m == nil {
		return &ValidationError{Field: path, Message: "member is nil"}
	}
	if err := validGuard(path, m.Base().Guard); err != nil {
		return err
	}
	switch x := m.(type) {
	case Field:
		return named(path, x.Name, x.Type)
	case Property:
		if err := named(path, x.Name, x.Type); err != nil {
			return err
		}
		if x.Getter.IsZero() && !x.Get && !x.Set && !x.Init {
			return &ValidationError{Field: path, Message: fmt.Sprintf("property %q has no accessors", x.Name)}
		}
		if x.Set && x.Init {
			return &ValidationError{Field: path, Message: fmt.Sprintf("property %q has both set and init", x.Name)}
		}
	case Method:
		if err := named(path, x.Name, x.ReturnType); err != nil {
			return err
		}
		return params(path, x.Params)
	case Constructor:
		return params(path, x.Params)
	case Operator:
		if !x.Symbol.Valid() {
			return &ValidationError{Field: path + ".Symbol", Message: fmt.Sprintf("unknown operator %q", x.Symbol)}
		}
		if !x.Symbol.AcceptsOperands(len(x.Params)) {
			return &ValidationError{Field: path + ".Params", Message: fmt.Sprintf("operator %s does not take %d operands", x.Symbol, len(x.Params))}
		}
		if x.ReturnType == "" {
			return &ValidationError{Field: path + ".ReturnType", Message: "operator return type is empty"}
		}
		return params(path, x.Params)
	case ConversionOperator:
		if x.TargetType == "" {
			return &ValidationError{Field: path + ".TargetType", Message: "conversion target type is empty"}
		}
		return params(path, []Parameter{x.Param})
	case Event:
		return named(path, x.Name, x.Type)
	case NestedType:
		return x.Decl.validate(path + ".")
	}
	return nil
}

func named(path, name, typ string) error {
	if !IsIdentifier(name) {
		return &ValidationError{Field: path + ".Name", Message: fmt.Sprintf("member name %q is not an identifier", name)}
	}
	if typ == "" {
		return &ValidationError{Field: path + ".Type", Message: fmt.Sprintf("member %q has no type", name)}
	}
	return nil
}

func params(path string, ps []Parameter) error {
	for i, p := range ps {
		if !IsIdentifier(p.Name) || p.Type == "" {
			return &ValidationError{Field: fmt.Sprintf("%s.Params[%d]", path, i), Message: fmt.Sprintf("parameter %q needs an identifier name and a type", p.Name)}
		}
	}
	return nil
}

func validGuard(path string, g directive.Expr) error {
	if err := directive.Validate(g); err != nil {
		return &ValidationError{Field: path + ".Guard", Message: err.Error()}
	}
	return nil
}
