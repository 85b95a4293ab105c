package symtab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kostiscpp/alan-compiler/internal/types"
)

func TestInsertAndLookup(t *testing.T) {
	tab := New()
	require.Equal(t, 1, tab.Depth())

	sym := &Symbol{Name: "x", Kind: VariableSym, Type: types.Int}
	require.True(t, tab.Insert(sym))
	require.Same(t, sym, tab.Lookup("x"))
}

func TestInsertRejectsDuplicateInSameScope(t *testing.T) {
	tab := New()
	require.True(t, tab.Insert(&Symbol{Name: "x", Kind: VariableSym, Type: types.Int}))
	require.False(t, tab.Insert(&Symbol{Name: "x", Kind: VariableSym, Type: types.Byte}))
}

func TestShadowingAcrossScopes(t *testing.T) {
	tab := New()
	outer := &Symbol{Name: "x", Kind: VariableSym, Type: types.Int}
	require.True(t, tab.Insert(outer))

	tab.EnterScope()
	inner := &Symbol{Name: "x", Kind: VariableSym, Type: types.Byte}
	require.True(t, tab.Insert(inner), "shadowing a name from an enclosing scope is legal")
	require.Same(t, inner, tab.Lookup("x"))

	tab.ExitScope()
	require.Same(t, outer, tab.Lookup("x"), "exiting the inner scope restores visibility of the shadowed symbol")
}

func TestLookupCurrentDoesNotSearchOuterScopes(t *testing.T) {
	tab := New()
	require.True(t, tab.Insert(&Symbol{Name: "x", Kind: VariableSym, Type: types.Int}))
	tab.EnterScope()
	require.Nil(t, tab.LookupCurrent("x"))
	require.NotNil(t, tab.Lookup("x"))
}

func TestLookupUndeclaredReturnsNil(t *testing.T) {
	tab := New()
	require.Nil(t, tab.Lookup("missing"))
}

func TestDepthOf(t *testing.T) {
	tab := New()
	require.True(t, tab.Insert(&Symbol{Name: "top", Kind: VariableSym, Type: types.Int}))
	tab.EnterScope()
	tab.EnterScope()
	require.True(t, tab.Insert(&Symbol{Name: "nested", Kind: VariableSym, Type: types.Int}))

	depth, ok := tab.DepthOf("top")
	require.True(t, ok)
	require.Equal(t, 0, depth)

	depth, ok = tab.DepthOf("nested")
	require.True(t, ok)
	require.Equal(t, 2, depth)

	_, ok = tab.DepthOf("nowhere")
	require.False(t, ok)
}

func TestExitScopeOnTopLevelPanics(t *testing.T) {
	tab := New()
	require.Panics(t, func() { tab.ExitScope() })
}
