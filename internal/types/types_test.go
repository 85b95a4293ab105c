package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveEquals(t *testing.T) {
	require.True(t, Equals(Int, Int))
	require.True(t, Equals(Byte, Byte))
	require.False(t, Equals(Int, Byte))
}

func TestVoidEquals(t *testing.T) {
	require.True(t, Equals(Void, Void))
	require.False(t, Equals(Void, Int))
}

func TestArrayEqualityIgnoresSize(t *testing.T) {
	fixed := NewArray(Int, 10)
	open := NewArray(Int, UnspecifiedSize)
	require.True(t, Equals(fixed, open), "array formal/actual compatibility ignores size")

	other := NewArray(Byte, UnspecifiedSize)
	require.False(t, Equals(fixed, other))
}

func TestReferenceEquality(t *testing.T) {
	a := NewReference(Int)
	b := NewReference(Int)
	c := NewReference(Byte)
	require.True(t, Equals(a, b))
	require.False(t, Equals(a, c))
	require.False(t, Equals(a, Int), "a reference is never equal to its unwrapped inner type")
}

func TestDeref(t *testing.T) {
	inner, ok := Deref(NewReference(Int))
	require.True(t, ok)
	require.True(t, Equals(inner, Int))

	same, ok := Deref(Int)
	require.False(t, ok)
	require.True(t, Equals(same, Int))
}

func TestIsArithmetic(t *testing.T) {
	require.True(t, IsArithmetic(Int))
	require.True(t, IsArithmetic(Byte))
	require.False(t, IsArithmetic(Void))
	require.False(t, IsArithmetic(NewArray(Int, 4)))
}

func TestMatchesReferenceFormal(t *testing.T) {
	formal := NewReference(Int)
	require.True(t, Matches(formal, Int, true), "an lvalue of the inner type satisfies a reference formal")
	require.False(t, Matches(formal, Int, false), "a non-lvalue actual can never bind to a reference formal")
	require.False(t, Matches(formal, Byte, true))
}

func TestMatchesValueFormal(t *testing.T) {
	require.True(t, Matches(Int, Int, false))
	require.True(t, Matches(Int, Int, true))
	require.False(t, Matches(Int, Byte, false))
}

func TestArrayRepr(t *testing.T) {
	require.Equal(t, "int[]", NewArray(Int, UnspecifiedSize).Repr())
	require.Equal(t, "int[5]", NewArray(Int, 5).Repr())
	require.Equal(t, "reference byte", NewReference(Byte).Repr())
}
