package declgen

import (
	"context"

	"github.com/broady/declgen/ir"
)

// StepFunc represents the next step in an interceptor chain. It is passed to
// [Interceptor] functions to invoke the next interceptor or the synthesizer
// itself.
type StepFunc func(ctx context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error)

// Interceptor is a hook that wraps each capability application.
//
// Interceptors receive *Context for access to the capability metadata:
//
//	func timing(ctx *declgen.Context, d ir.TypeDeclaration, next declgen.StepFunc) (ir.TypeDeclaration, error) {
//	    start := time.Now()
//	    out, err := next(ctx, d)
//	    log.Printf("%s %s took %v", ctx.TypeName(), ctx.Capability(), time.Since(start))
//	    return out, err
//	}
//
// The next parameter is the next step in the chain. Interceptors can:
//   - Inspect or replace the declaration before calling next
//   - Inspect or replace the declaration next returns
//   - Short-circuit by returning an error without calling next
type Interceptor func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx *Context, d ir.TypeDeclaration, step StepFunc) (ir.TypeDeclaration, error) {
		// Chain: i[0] -> i[1] -> ... -> step
		chain := step
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(c context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error) {
				sc, ok := FromContext(c)
				if !ok {
					sc = ctx
				}
				return current(sc, d, next)
			}
		}
		return chain(ctx, d)
	}
}
