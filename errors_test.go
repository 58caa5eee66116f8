package declgen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/broady/declgen/ir"
)

func TestNewError(t *testing.T) {
	err := NewError(CodeNotFound, "type not found")
	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "type not found" {
		t.Errorf("expected message 'type not found', got %s", err.Message)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeInvalidArgument, "invalid field: %s", "accessor")
	if err.Code != CodeInvalidArgument {
		t.Errorf("expected code %s, got %s", CodeInvalidArgument, err.Code)
	}
	if err.Message != "invalid field: accessor" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorError(t *testing.T) {
	err := NewError(CodeInternal, "something went wrong")
	expected := "internal: something went wrong"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestWithDetailDoesNotMutate(t *testing.T) {
	base := NewError(CodeInvalidArgument, "bad").WithDetail("a", 1)
	derived := base.WithDetail("b", 2)
	if _, ok := base.Details["b"]; ok {
		t.Error("WithDetail mutated the receiver")
	}
	if derived.Details["a"] != 1 || derived.Details["b"] != 2 {
		t.Errorf("unexpected details: %v", derived.Details)
	}
	if merged := base.WithDetails(nil); merged != base {
		t.Error("WithDetails(nil) should return the receiver")
	}
}

func TestAsError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		wantCode ErrorCode
	}{
		{"nil error", nil, ""},
		{"passthrough", NewError(CodeNotFound, "not found"), CodeNotFound},
		{"wrapped passthrough", fmt.Errorf("loading: %w", NewError(CodeInvalidManifest, "bad")), CodeInvalidManifest},
		{"canceled", context.Canceled, CodeCanceled},
		{"deadline", context.DeadlineExceeded, CodeCanceled},
		{"tree validation", &ir.ValidationError{Field: "Members[0].Name", Message: "empty"}, CodeInvalidArgument},
		{"wrapped tree validation", fmt.Errorf("render X: %w", &ir.ValidationError{Message: "empty"}), CodeInvalidArgument},
		{"generic", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsError(tt.input)
			if tt.input == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, got.Code)
			}
		})
	}

	got := AsError(&ir.ValidationError{Field: "Name", Message: "empty"})
	if got.Details["field"] != "Name" {
		t.Errorf("expected field detail, got %v", got.Details)
	}
}

func TestFromValidationErrors(t *testing.T) {
	type entry struct {
		Name string `validate:"required"`
		Kind string `validate:"oneof=class struct"`
	}
	err := validator.New().Struct(entry{Kind: "enum"})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	got := FromValidationErrors(CodeInvalidManifest, verrs)
	if got.Code != CodeInvalidManifest {
		t.Errorf("expected code %s, got %s", CodeInvalidManifest, got.Code)
	}
	if got.Details["entry.Name"] != "required" {
		t.Errorf("expected required detail, got %v", got.Details)
	}
	if got.Details["entry.Kind"] != "must be one of: class struct" {
		t.Errorf("expected oneof detail, got %v", got.Details)
	}

	if AsError(err).Code != CodeInvalidArgument {
		t.Errorf("expected validator errors to map to %s", CodeInvalidArgument)
	}
}

func TestCodeOf(t *testing.T) {
	if c := CodeOf(fmt.Errorf("x: %w", NewError(CodeRenderFailed, "y"))); c != CodeRenderFailed {
		t.Errorf("expected %s, got %s", CodeRenderFailed, c)
	}
	if c := CodeOf(errors.New("plain")); c != "" {
		t.Errorf("expected empty code, got %s", c)
	}
}
