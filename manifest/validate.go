package manifest

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must := func(tag string, fn func(string) bool) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	must("token", func(s string) bool {
		return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
	})
	must("identifier", ir.IsIdentifier)
	must("namespace", func(s string) bool {
		for _, part := range strings.Split(s, ".") {
			if !ir.IsIdentifier(part) {
				return false
			}
		}
		return true
	})
	must("accessor", func(s string) bool {
		_, err := ir.NewAccessor(s)
		return err == nil
	})
	must("kind", func(s string) bool {
		_, ok := ir.ParseTypeKind(s)
		return ok
	})
	must("access", func(s string) bool {
		_, ok := ir.ParseAccessibility(s)
		return ok
	})
	must("modifier", func(s string) bool {
		_, ok := ir.ParseModifiers(s)
		return ok
	})
	must("special", func(s string) bool {
		_, ok := backing.ParseSpecial(s)
		return ok
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		b := sl.Current().Interface().(Backing)
		if b.Special == "" && b.QualifiedName == "" && b.Name == "" {
			sl.ReportError(b.Special, "Special", "Special", "required", "")
		}
	}, Backing{})
	return v
}

// Validate checks m against its struct tags and reports duplicate type names.
// Failures are *declgen.Error values with code invalid_manifest.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return declgen.FromValidationErrors(declgen.CodeInvalidManifest, verrs)
		}
		return errors.Wrap(err, "validate manifest")
	}
	seen := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		key := t.Namespace + "." + t.Name
		if seen[key] {
			return declgen.Errorf(declgen.CodeInvalidManifest, "type %s is declared twice", t.Name).WithDetail("type", t.Name)
		}
		seen[key] = true
	}
	return nil
}
