package declgen

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
	"github.com/broady/declgen/synth"
)

// Synthesizer applies one capability to a declaration. It returns d unchanged
// when the capability does not apply to the backing type.
type Synthesizer func(d ir.TypeDeclaration, caps backing.Capabilities, acc ir.Accessor, opts Options) (ir.TypeDeclaration, error)

// Module adapts a synth module with a typed options struct into a
// Synthesizer. Options are decoded with gorilla/schema using the struct's
// schema tags.
func Module[O any](fn func(ir.TypeDeclaration, backing.Capabilities, ir.Accessor, O) ir.TypeDeclaration) Synthesizer {
	return func(d ir.TypeDeclaration, caps backing.Capabilities, acc ir.Accessor, opts Options) (ir.TypeDeclaration, error) {
		var o O
		if err := opts.Decode(&o); err != nil {
			return d, err
		}
		return fn(d, caps, acc, o), nil
	}
}

// Registry maps capabilities to synthesizers.
// It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	synths       map[Capability]Synthesizer
	interceptors []Interceptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{synths: make(map[Capability]Synthesizer)}
}

// DefaultRegistry returns a Registry with every built-in capability registered.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Register(CapWrapper, Module(synth.Wrapper)).
		Register(CapEquality, Module(synth.Equality)).
		Register(CapComparison, Module(synth.Comparison)).
		Register(CapConversion, Module(synth.Conversion)).
		Register(CapFormattable, Module(synth.Formattable)).
		Register(CapParsable, Module(synth.Parsable)).
		Register(CapArithmetic, Module(synth.Arithmetic)).
		Register(CapBitwise, Module(synth.Bitwise)).
		Register(CapShift, Module(synth.Shift)).
		Register(CapEnumeration, Module(synth.Enumeration)).
		Register(CapDisposal, Module(synth.Disposal)).
		Register(CapSingleton, Module(synth.Singleton)).
		Register(CapBuilder, Module(synth.Builder)).
		Register(CapFactory, Module(synth.Factory))
}

// Register sets the synthesizer for c, replacing any previous one.
// It returns the registry for chaining.
func (r *Registry) Register(c Capability, s Synthesizer) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synths[c] = s
	return r
}

// Lookup returns the synthesizer registered for c.
func (r *Registry) Lookup(c Capability) (Synthesizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.synths[c]
	return s, ok
}

// WithInterceptor adds an interceptor around every capability application.
// Interceptors run in the order they were added.
// It returns the registry for chaining.
func (r *Registry) WithInterceptor(i Interceptor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, i)
	return r
}

// Clone returns a registry with the same synthesizers and interceptors.
// Changes to the clone do not affect r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Registry{
		synths:       make(map[Capability]Synthesizer, len(r.synths)),
		interceptors: slices.Clone(r.interceptors),
	}
	maps.Copy(c.synths, r.synths)
	return c
}

// Request is the input of Apply.
type Request struct {
	// Decl is the declaration to extend. It is not modified.
	Decl ir.TypeDeclaration

	// Backing describes the type the wrapper delegates to.
	Backing backing.Snapshot

	// Accessor is the member holding the backing value.
	Accessor ir.Accessor

	// Capabilities are applied in order. Requesting one twice applies it twice.
	Capabilities []CapabilityRequest
}

// Result is the output of Apply.
type Result struct {
	Decl ir.TypeDeclaration

	// Backing is the classification every synthesizer saw.
	Backing backing.Capabilities

	// Applied lists the capabilities that changed the declaration.
	Applied []Capability

	// Skipped lists the capabilities that did not apply to the backing type
	// and left the declaration unchanged.
	Skipped []Capability
}

// Apply runs the requested capabilities against req.Decl.
//
// Inapplicable capabilities are not errors; they are reported in
// Result.Skipped. Errors are reserved for caller misuse: an empty accessor,
// an unregistered capability, malformed options, or a resulting tree that
// fails validation.
func (r *Registry) Apply(ctx context.Context, req Request) (Result, error) {
	if req.Accessor.IsZero() {
		return Result{}, NewError(CodeInvalidArgument, "accessor is required").WithDetail("type", req.Decl.Name)
	}

	r.mu.RLock()
	interceptor := chainInterceptors(r.interceptors)
	r.mu.RUnlock()

	res := Result{Decl: req.Decl, Backing: backing.Classify(req.Backing)}
	for _, cr := range req.Capabilities {
		if err := ctx.Err(); err != nil {
			return Result{}, AsError(err)
		}
		s, ok := r.Lookup(cr.Capability)
		if !ok {
			return Result{}, Errorf(CodeUnknownCapability, "no synthesizer registered for %s", cr.Capability)
		}

		step := func(_ context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error) {
			return s(d, res.Backing, req.Accessor, cr.Options)
		}
		sctx := newContext(ctx, req.Decl.Name, cr.Capability, res.Backing, cr.Options)

		before := res.Decl
		var out ir.TypeDeclaration
		var err error
		if interceptor != nil {
			out, err = interceptor(sctx, before, step)
		} else {
			out, err = step(sctx, before)
		}
		if err != nil {
			return Result{}, AsError(err).WithDetail("capability", cr.Capability.String())
		}

		if changed(before, out) {
			res.Applied = append(res.Applied, cr.Capability)
		} else {
			res.Skipped = append(res.Skipped, cr.Capability)
		}
		res.Decl = out
	}

	if err := res.Decl.Validate(); err != nil {
		return Result{}, AsError(err).WithDetail("type", req.Decl.Name)
	}
	return res, nil
}

// changed reports whether a step altered the declaration's shape. Members
// are matched by position, kind and name, interfaces and nested types by
// name, so replacing one member with a differently named one counts. A member
// rewritten in place under the same kind and name does not.
func changed(before, after ir.TypeDeclaration) bool {
	if after.Modifiers != before.Modifiers || after.BaseType != before.BaseType ||
		!slices.Equal(after.Attributes, before.Attributes) {
		return true
	}
	return !slices.EqualFunc(after.Members, before.Members, func(a, b ir.Member) bool {
		return a.Kind() == b.Kind() && a.MemberName() == b.MemberName()
	}) || !slices.EqualFunc(after.Interfaces, before.Interfaces, func(a, b ir.InterfaceRef) bool {
		return a.Name == b.Name
	}) || !slices.EqualFunc(after.Nested, before.Nested, func(a, b ir.NestedType) bool {
		return a.Decl.Name == b.Decl.Name
	})
}
