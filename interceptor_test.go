package declgen

import (
	"context"
	"errors"
	"testing"

	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

func testContext() *Context {
	return newContext(context.Background(), "T", CapEquality, backing.Classify(backing.Int32), nil)
}

func TestChainInterceptors_Empty(t *testing.T) {
	if chain := chainInterceptors(nil); chain != nil {
		t.Error("expected nil chain for empty interceptors")
	}
}

func TestChainInterceptors_Single(t *testing.T) {
	called := false
	interceptor := func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
		called = true
		return next(ctx, d)
	}

	chain := chainInterceptors([]Interceptor{interceptor})
	if chain == nil {
		t.Fatal("expected non-nil chain")
	}

	step := func(_ context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error) {
		return d.WithMember(ir.Field{Name: "x", Type: "int"}), nil
	}
	out, err := chain(testContext(), ir.Declare(ir.KindClass, "T"), step)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(out.Members) != 1 {
		t.Errorf("expected step to run, got %d members", len(out.Members))
	}
	if !called {
		t.Error("expected interceptor to be called")
	}
}

func TestChainInterceptors_Order(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
			order = append(order, "before-"+name)
			out, err := next(ctx, d)
			order = append(order, "after-"+name)
			return out, err
		}
	}

	chain := chainInterceptors([]Interceptor{record("1"), record("2")})
	step := func(_ context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error) {
		order = append(order, "step")
		return d, nil
	}
	if _, err := chain(testContext(), ir.Declare(ir.KindClass, "T"), step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"before-1", "before-2", "step", "after-2", "after-1"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestChainInterceptors_ShortCircuit(t *testing.T) {
	boom := errors.New("boom")
	stop := func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
		return d, boom
	}
	never := func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
		t.Error("inner interceptor should not run")
		return next(ctx, d)
	}

	chain := chainInterceptors([]Interceptor{stop, never})
	_, err := chain(testContext(), ir.Declare(ir.KindClass, "T"), func(context.Context, ir.TypeDeclaration) (ir.TypeDeclaration, error) {
		t.Error("step should not run")
		return ir.TypeDeclaration{}, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestChainInterceptors_WrappedContext(t *testing.T) {
	type key struct{}
	outer := func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
		return next(context.WithValue(ctx, key{}, "v"), d)
	}
	var seen *Context
	inner := func(ctx *Context, d ir.TypeDeclaration, next StepFunc) (ir.TypeDeclaration, error) {
		seen = ctx
		return next(ctx, d)
	}

	chain := chainInterceptors([]Interceptor{outer, inner})
	if _, err := chain(testContext(), ir.Declare(ir.KindClass, "T"), func(_ context.Context, d ir.TypeDeclaration) (ir.TypeDeclaration, error) {
		return d, nil
	}); err != nil {
		t.Fatal(err)
	}
	if seen == nil || seen.Capability() != CapEquality || seen.TypeName() != "T" {
		t.Errorf("inner interceptor lost the synthesis context: %+v", seen)
	}
}
