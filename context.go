package declgen

import (
	"context"

	"github.com/broady/declgen/backing"
)

type contextKey struct {
	name string
}

var synthKey = &contextKey{"synthesis"}

// Context carries the metadata of one capability application through the
// interceptor chain.
type Context struct {
	context.Context
	typeName   string
	capability Capability
	caps       backing.Capabilities
	options    Options
}

// TypeName returns the name of the declaration being synthesized.
func (c *Context) TypeName() string { return c.typeName }

// Capability returns the capability being applied.
func (c *Context) Capability() Capability { return c.capability }

// Backing returns the classification of the backing type.
func (c *Context) Backing() backing.Capabilities { return c.caps }

// Options returns the raw options of the capability.
func (c *Context) Options() Options { return c.options }

// FromContext returns the synthesis Context stored in ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	if c, ok := ctx.(*Context); ok {
		return c, true
	}
	c, ok := ctx.Value(synthKey).(*Context)
	return c, ok
}

func newContext(parent context.Context, typeName string, capability Capability, caps backing.Capabilities, opts Options) *Context {
	c := &Context{
		typeName:   typeName,
		capability: capability,
		caps:       caps,
		options:    opts,
	}
	c.Context = context.WithValue(parent, synthKey, c)
	return c
}
