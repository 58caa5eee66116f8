package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/declgen/directive"
)

func TestAccessor(t *testing.T) {
	a, err := NewAccessor("Value")
	require.NoError(t, err)
	assert.Equal(t, "Value", a.String())
	assert.Equal(t, "other.Value", a.On("other"))
	assert.Equal(t, "Value", a.Leaf())

	a, err = NewAccessor("Inner.Raw")
	require.NoError(t, err)
	assert.Equal(t, "Raw", a.Leaf())

	for _, bad := range []string{"", "1abc", "a b", "Value.", "x-y"} {
		_, err := NewAccessor(bad)
		var ve *ValidationError
		require.Error(t, err, bad)
		assert.True(t, errors.As(err, &ve), bad)
		assert.Equal(t, "accessor", ve.Field)
	}

	assert.Panics(t, func() { MustAccessor("") })
	assert.True(t, Accessor{}.IsZero())
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("_x1"))
	assert.True(t, IsIdentifier("@class"))
	assert.False(t, IsIdentifier("@"))
	assert.False(t, IsIdentifier("9a"))
}

func TestValidate(t *testing.T) {
	valid := Declare(KindStruct, "UserId").
		WithInterface("IEquatable<UserId>", nil).
		WithMembers(
			Property{Name: "Value", Type: "global::System.Guid", Get: true},
			Method{Name: "Equals", ReturnType: "bool", Params: []Parameter{Param("UserId", "other")}, Body: Expr("Value.Equals(other.Value)")},
			Operator{Symbol: OpEquality, ReturnType: "bool", Params: []Parameter{Param("UserId", "left"), Param("UserId", "right")}, Body: Expr("left.Equals(right)")},
			ConversionOperator{TargetType: "global::System.Guid", Param: Param("UserId", "value"), Body: Expr("value.Value")},
			Constructor{Params: []Parameter{Param("global::System.Guid", "value")}, Body: Block("Value = value;")},
		)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		decl  TypeDeclaration
		field string
	}{
		{"empty type name", Declare(KindClass, ""), "Name"},
		{"bad type parameter", Declare(KindClass, "C").WithTypeParameters("T U"), "TypeParameters[0]"},
		{"empty interface", Declare(KindClass, "C").WithInterface("", nil), "Interfaces[0]"},
		{"bad interface guard", Declare(KindClass, "C").WithInterface("I", directive.Condition("")), "Interfaces[0].Guard"},
		{"empty member name", Declare(KindClass, "C").WithMember(Field{Type: "int"}), "Members[0].Name"},
		{"missing member type", Declare(KindClass, "C").WithMember(Field{Name: "x"}), "Members[0].Type"},
		{"property without accessors", Declare(KindClass, "C").WithMember(Property{Name: "P", Type: "int"}), "Members[0]"},
		{"property with set and init", Declare(KindClass, "C").WithMember(Property{Name: "P", Type: "int", Set: true, Init: true}), "Members[0]"},
		{"bad member guard", Declare(KindClass, "C").WithMember(WithGuard(prop("P"), directive.Condition("A B"))), "Members[0].Guard"},
		{"unknown operator", Declare(KindClass, "C").WithMember(Operator{Symbol: "**", ReturnType: "C"}), "Members[0].Symbol"},
		{"wrong arity", Declare(KindClass, "C").WithMember(Operator{Symbol: OpEquality, ReturnType: "bool", Params: []Parameter{Param("C", "x")}}), "Members[0].Params"},
		{"bad parameter", Declare(KindClass, "C").WithMember(Method{Name: "M", ReturnType: "void", Params: []Parameter{{Name: "x"}}}), "Members[0].Params[0]"},
		{"bad nested", Declare(KindClass, "C").WithNested(Declare(KindClass, "B").WithMember(Field{Name: "f"}), nil), "Nested[0].Members[0].Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "ir: Name: bad", (&ValidationError{Field: "Name", Message: "bad"}).Error())
	assert.Equal(t, "ir: bad", (&ValidationError{Message: "bad"}).Error())
}
