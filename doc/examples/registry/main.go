// Package registry shows the synthesis API without the file pipeline.
package registry

import (
	"context"
	"fmt"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/csharp"
	"github.com/broady/declgen/ir"
)

func exampleApply(ctx context.Context) error {
	// [snippet:apply]
	res, err := declgen.DefaultRegistry().Apply(ctx, declgen.Request{
		Decl:     ir.Declare(ir.KindStruct, "UserId").WithModifiers(ir.ModReadonly | ir.ModPartial),
		Backing:  backing.Guid,
		Accessor: ir.MustAccessor("Value"),
		Capabilities: []declgen.CapabilityRequest{
			{Capability: declgen.CapWrapper},
			{Capability: declgen.CapEquality},
			{Capability: declgen.CapArithmetic},
		},
	})
	if err != nil {
		return err
	}
	fmt.Println("skipped:", res.Skipped) // [arithmetic]
	// [/snippet:apply]

	// [snippet:render]
	src, err := csharp.NewEmitter(csharp.DefaultConfig()).Render(res.Decl)
	if err != nil {
		return err
	}
	fmt.Print(src)
	// [/snippet:render]
	return nil
}

func exampleInterceptor() *declgen.Registry {
	// [snippet:interceptor]
	audit := func(ctx *declgen.Context, d ir.TypeDeclaration, next declgen.StepFunc) (ir.TypeDeclaration, error) {
		fmt.Println("applying", ctx.Capability(), "to", ctx.TypeName())
		return next(ctx, d)
	}
	return declgen.DefaultRegistry().WithInterceptor(audit)
	// [/snippet:interceptor]
}
