// Package manifest reads the YAML files that describe which wrapper types to
// generate, what they wrap and which capabilities they get.
//
//	package: acme
//	version: 1.4.0
//	namespace: Acme.Ids
//	types:
//	  - name: UserId
//	    kind: struct
//	    modifiers: [readonly, partial]
//	    backing: {special: guid}
//	    capabilities:
//	      - wrapper
//	      - equality
//	      - comparison?comparison=OrdinalIgnoreCase
//	      - name: arithmetic
//	        options:
//	          operators: [add, subtract]
package manifest

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

// DefaultAccessor is the accessor used when a type does not name one.
const DefaultAccessor = "Value"

// Manifest is the root of a manifest file.
type Manifest struct {
	// Package and Version are recorded in every generated file's header.
	Package string `yaml:"package" validate:"required,token"`
	Version string `yaml:"version,omitempty" validate:"omitempty,semver"`

	// Namespace is the default namespace of every type.
	Namespace string `yaml:"namespace,omitempty" validate:"omitempty,namespace"`

	// Usings are added to every generated file.
	Usings []string `yaml:"usings,omitempty" validate:"dive,namespace"`

	Types []Type `yaml:"types" validate:"required,min=1,dive"`
}

// Type describes one wrapper type.
type Type struct {
	Name      string   `yaml:"name" validate:"required,identifier"`
	Kind      string   `yaml:"kind,omitempty" validate:"omitempty,kind"`
	Access    string   `yaml:"access,omitempty" validate:"omitempty,access"`
	Modifiers []string `yaml:"modifiers,omitempty" validate:"dive,modifier"`
	Namespace string   `yaml:"namespace,omitempty" validate:"omitempty,namespace"`
	Accessor  string   `yaml:"accessor,omitempty" validate:"omitempty,accessor"`
	Doc       string   `yaml:"doc,omitempty"`

	Backing      Backing      `yaml:"backing"`
	Capabilities []Capability `yaml:"capabilities,omitempty" validate:"dive"`
}

// Backing describes the type a wrapper delegates to. Either Special or one of
// the names must be set.
type Backing struct {
	Special       string `yaml:"special,omitempty" validate:"omitempty,special"`
	QualifiedName string `yaml:"qualified_name,omitempty"`
	Name          string `yaml:"name,omitempty"`
	ValueType     bool   `yaml:"value_type,omitempty"`
	Nullable      bool   `yaml:"nullable,omitempty"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown fields are errors.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, declgen.Errorf(declgen.CodeInvalidManifest, "decode: %v", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "encode manifest")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode manifest")
	}
	return buf.Bytes(), nil
}

// Find returns the type named name.
func (m *Manifest) Find(name string) (Type, bool) {
	for _, t := range m.Types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

// Snapshot returns the backing snapshot of t.
func (t Type) Snapshot() backing.Snapshot {
	s := backing.Snapshot{
		QualifiedName:       t.Backing.QualifiedName,
		Name:                t.Backing.Name,
		IsValueType:         t.Backing.ValueType,
		IsNullableReference: t.Backing.Nullable,
	}
	if sp, ok := backing.ParseSpecial(t.Backing.Special); ok && sp != backing.SpecialNone {
		known := knownSnapshot(sp)
		if s.QualifiedName == "" {
			s.QualifiedName = known.QualifiedName
		}
		if s.Name == "" {
			s.Name = known.Name
		}
		s.IsValueType = s.IsValueType || known.IsValueType
		s.Special = sp
	}
	return s
}

func knownSnapshot(sp backing.Special) backing.Snapshot {
	for _, s := range []backing.Snapshot{
		backing.Guid, backing.String, backing.Int16, backing.Int32, backing.Int64, backing.Byte,
		backing.Single, backing.Double, backing.Decimal, backing.Boolean, backing.Char,
	} {
		if s.Special == sp {
			return s
		}
	}
	return backing.Snapshot{Special: sp}
}

// AccessorName returns the accessor of t, defaulting to DefaultAccessor.
func (t Type) AccessorName() string {
	if t.Accessor == "" {
		return DefaultAccessor
	}
	return t.Accessor
}

// Declaration returns the empty declaration of t, placed in namespace unless
// t names its own.
func (t Type) Declaration(namespace string) (ir.TypeDeclaration, error) {
	kind, ok := ir.ParseTypeKind(t.Kind)
	if !ok {
		return ir.TypeDeclaration{}, declgen.Errorf(declgen.CodeInvalidManifest, "type %s: unknown kind %q", t.Name, t.Kind)
	}
	access := ir.Public
	if t.Access != "" {
		if access, ok = ir.ParseAccessibility(t.Access); !ok {
			return ir.TypeDeclaration{}, declgen.Errorf(declgen.CodeInvalidManifest, "type %s: unknown access %q", t.Name, t.Access)
		}
	}
	mods, ok := ir.ParseModifiers(t.Modifiers...)
	if !ok {
		return ir.TypeDeclaration{}, declgen.Errorf(declgen.CodeInvalidManifest, "type %s: unknown modifier in %v", t.Name, t.Modifiers)
	}
	if t.Namespace != "" {
		namespace = t.Namespace
	}

	d := ir.Declare(kind, t.Name).
		WithNamespace(namespace).
		WithAccess(access).
		WithModifiers(mods | ir.ModPartial)
	if t.Doc != "" {
		d = d.WithDoc(ir.Summary(t.Doc))
	}
	return d, nil
}

// Request returns the synthesis request for t.
func (t Type) Request(namespace string) (declgen.Request, error) {
	d, err := t.Declaration(namespace)
	if err != nil {
		return declgen.Request{}, err
	}
	acc, err := ir.NewAccessor(t.AccessorName())
	if err != nil {
		return declgen.Request{}, declgen.AsError(err).WithDetail("type", t.Name)
	}
	reqs := make([]declgen.CapabilityRequest, len(t.Capabilities))
	for i, c := range t.Capabilities {
		reqs[i] = c.Request()
	}
	return declgen.Request{
		Decl:         d,
		Backing:      t.Snapshot(),
		Accessor:     acc,
		Capabilities: reqs,
	}, nil
}
