package middleware

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

func apply(t *testing.T, logger *zap.Logger, snap backing.Snapshot, capability string) error {
	t.Helper()
	r, err := declgen.ParseCapabilityRequest(capability)
	if err != nil {
		t.Fatal(err)
	}
	reg := declgen.DefaultRegistry().WithInterceptor(LoggingInterceptor(logger))
	_, err = reg.Apply(context.Background(), declgen.Request{
		Decl:         ir.Declare(ir.KindStruct, "UserId"),
		Backing:      snap,
		Accessor:     ir.MustAccessor("Value"),
		Capabilities: []declgen.CapabilityRequest{r},
	})
	return err
}

func TestLoggingInterceptor_Applied(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	if err := apply(t, zap.New(core), backing.Guid, "equality"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("capability applied").All()
	if len(entries) != 1 {
		t.Fatalf("expected one 'capability applied' entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["type"] != "UserId" {
		t.Errorf("expected type field, got %v", fields["type"])
	}
	if fields["capability"] != "equality" {
		t.Errorf("expected capability field, got %v", fields["capability"])
	}
	if fields["members_added"] != int64(5) {
		t.Errorf("expected 5 members added, got %v", fields["members_added"])
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", entries[0].Level)
	}
}

func TestLoggingInterceptor_Skipped(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	if err := apply(t, zap.New(core), backing.String, "arithmetic"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := logs.FilterMessage("capability skipped").Len(); n != 1 {
		t.Errorf("expected one 'capability skipped' entry, got %d", n)
	}
	if n := logs.FilterMessage("capability applied").Len(); n != 0 {
		t.Errorf("debug entries should be filtered at info level, got %d", n)
	}
}

func TestLoggingInterceptor_Error(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	err := apply(t, zap.New(core), backing.Guid, "equality?comparison=Bytewise")
	if err == nil {
		t.Fatal("expected error")
	}

	entries := logs.FilterMessage("capability failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one 'capability failed' entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", entries[0].Level)
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Error("expected error field")
	}
}

func TestLoggingInterceptor_NilLogger(t *testing.T) {
	interceptor := LoggingInterceptor(nil)
	boom := errors.New("boom")
	reg := declgen.NewRegistry().
		Register(declgen.CapWrapper, func(d ir.TypeDeclaration, _ backing.Capabilities, _ ir.Accessor, _ declgen.Options) (ir.TypeDeclaration, error) {
			return d, boom
		}).
		WithInterceptor(interceptor)
	_, err := reg.Apply(context.Background(), declgen.Request{
		Decl:         ir.Declare(ir.KindClass, "C"),
		Accessor:     ir.MustAccessor("Value"),
		Capabilities: []declgen.CapabilityRequest{{Capability: declgen.CapWrapper}},
	})
	if declgen.CodeOf(err) != declgen.CodeInternal {
		t.Errorf("expected internal error, got %v", err)
	}
}
