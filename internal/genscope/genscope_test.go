package genscope

import (
	"testing"

	irtypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	s := New()
	s.Push()

	slot := Slot{ElemType: irtypes.I32}
	s.Define("x", slot)

	got, ok := s.Lookup("x")
	require.True(t, ok)
	require.Equal(t, irtypes.I32, got.ElemType)
}

func TestLookupSearchesOuterFrames(t *testing.T) {
	s := New()
	s.Push()
	s.Define("x", Slot{ElemType: irtypes.I32})

	s.Push()
	got, ok := s.Lookup("x")
	require.True(t, ok, "lookup must see a binding from an enclosing frame")
	require.Equal(t, irtypes.I32, got.ElemType)
}

func TestDefineInInnerFrameShadowsOuter(t *testing.T) {
	s := New()
	s.Push()
	s.Define("x", Slot{ElemType: irtypes.I32})

	s.Push()
	s.Define("x", Slot{ElemType: irtypes.I8})

	got, _ := s.Lookup("x")
	require.Equal(t, irtypes.I8, got.ElemType)

	s.Pop()
	got, _ = s.Lookup("x")
	require.Equal(t, irtypes.I32, got.ElemType, "popping the inner frame restores the outer binding")
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	s := New()
	s.Push()
	_, ok := s.Lookup("missing")
	require.False(t, ok)
}

func TestDecayedFlagRoundTrips(t *testing.T) {
	s := New()
	s.Push()
	s.Define("buf", Slot{ElemType: irtypes.I8, Decayed: true})

	got, ok := s.Lookup("buf")
	require.True(t, ok)
	require.True(t, got.Decayed)
}
