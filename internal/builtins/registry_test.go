package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/types"
)

func TestRegisterDeclaresEverything(t *testing.T) {
	store := hir.NewStore()
	names := symbols.NewInterner()
	scopes := table.NewSymbolTable(names)

	p, err := Register(store, names, scopes)
	require.NoError(t, err)

	scope := scopes.Scope(p.Scope)
	require.NotNil(t, scope)
	assert.Equal(t, table.NoScope, scope.Parent)
	assert.Equal(t, PreludeName, names.Name(scope.Name))
	assert.Len(t, scope.Items(), len(types.Primitives)+len(CoreBuiltins)+len(IOBuiltins))

	for _, name := range []string{"int", "str", "f64", "println", "len"} {
		t.Run(name, func(t *testing.T) {
			sym, ok := names.Lookup(name)
			require.True(t, ok)
			res, ok := scopes.Resolve(sym, p.Scope)
			require.True(t, ok)

			id, ok := p.Lookup(name)
			require.True(t, ok)
			assert.Equal(t, id, res.Hir)

			m, ok := store.Mapping(id)
			require.True(t, ok)
			assert.Equal(t, hir.MappingDefinition, m.Kind)
			assert.Equal(t, p.ID, m.Owner)
		})
	}
}

func TestItemKinds(t *testing.T) {
	names := symbols.NewInterner()
	scopes := table.NewSymbolTable(names)
	p, err := Register(hir.NewStore(), names, scopes)
	require.NoError(t, err)

	item, ok := scopes.GetSymbol(names.Intern("i32"), p.Scope)
	require.True(t, ok)
	assert.Equal(t, symbols.SymbolType, item.Kind)

	item, ok = scopes.GetSymbol(names.Intern("panic"), p.Scope)
	require.True(t, ok)
	assert.Equal(t, symbols.SymbolFunction, item.Kind)
}

func TestNative(t *testing.T) {
	fn, ok := Native("println")
	require.True(t, ok)
	assert.Equal(t, "vex_io_println", fn.NativeName)

	_, ok = Native("Println")
	assert.False(t, ok)
}
