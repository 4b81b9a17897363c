package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/symtab"
)

func TestDeclareAndLookupAcrossScopes(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.Declare("x", symtab.SymVar, ast.TypeInt, nil))

	tab.EnterScope()
	sym, ok := tab.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 0, sym.Depth)

	require.NoError(t, tab.Declare("y", symtab.SymVal, ast.TypeString, nil))
	_, ok = tab.Lookup("y")
	assert.True(t, ok)

	tab.LeaveScope()
	_, ok = tab.Lookup("y")
	assert.False(t, ok, "y should not be visible after leaving its scope")
}

func TestRedeclarationInSameScopeIsError(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.Declare("x", symtab.SymVar, ast.TypeInt, nil))
	err := tab.Declare("x", symtab.SymVar, ast.TypeInt, nil)
	assert.Error(t, err)
}

func TestShadowingOuterScopeIsAllowed(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.Declare("x", symtab.SymVar, ast.TypeInt, nil))
	tab.EnterScope()
	assert.NoError(t, tab.Declare("x", symtab.SymVar, ast.TypeString, nil))
	sym, _ := tab.Lookup("x")
	assert.Equal(t, ast.TypeString, sym.Type)
}

func TestNonNegativeMarkingIsVisibleInNestedScopes(t *testing.T) {
	tab := symtab.New()
	tab.MarkNonNegative("i")
	tab.EnterScope()
	assert.True(t, tab.IsNonNegative("i"))
	assert.False(t, tab.IsNonNegative("j"))
}

func TestFuncModifierInheritsIntoNestedScopes(t *testing.T) {
	tab := symtab.New()
	tab.PushFunc(ast.ModPrivate)
	tab.EnterScope()
	mod, ok := tab.CurrentFuncModifier()
	require.True(t, ok)
	assert.Equal(t, ast.ModPrivate, mod)
}
