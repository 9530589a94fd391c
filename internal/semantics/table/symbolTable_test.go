package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/hir"
	"vex/internal/semantics/symbols"
)

func newTable(t *testing.T) (*SymbolTable, *symbols.Interner, ScopeID) {
	t.Helper()
	names := symbols.NewInterner()
	st := NewSymbolTable(names)
	root, err := st.AddScope(nil, NoScope, false, hir.NoID)
	require.NoError(t, err)
	return st, names, root
}

func TestNewSymbolTable(t *testing.T) {
	st := NewSymbolTable(nil)
	assert.Equal(t, 0, st.Len())
	assert.Nil(t, st.Scope(NoScope))
	assert.Nil(t, st.Scope(7))
}

func TestDeclareAndGetSymbol(t *testing.T) {
	st, names, root := newTable(t)
	foo := names.Intern("foo")

	require.NoError(t, st.AddItem(Item{Name: foo, Hir: 3}, root))

	got, ok := st.GetSymbol(foo, root)
	require.True(t, ok)
	assert.Equal(t, hir.ID(3), got.Hir)
}

func TestDeclareDuplicateInUnorderedScope(t *testing.T) {
	st, names, root := newTable(t)
	bar := names.Intern("bar")

	require.NoError(t, st.AddItem(Item{Name: bar, Hir: 1}, root))
	err := st.AddItem(Item{Name: bar, Hir: 2}, root)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Contains(t, err.Error(), "'bar'")

	got, _ := st.GetSymbol(bar, root)
	assert.Equal(t, hir.ID(1), got.Hir, "unordered scope keeps the first binding")
}

func TestDuplicateInTransparentScopeShadows(t *testing.T) {
	st, names, root := newTable(t)
	x := names.Intern("x")
	let, err := st.AddScope(nil, root, true, hir.NoID)
	require.NoError(t, err)

	require.NoError(t, st.AddItem(Item{Name: x, Hir: 1}, let))
	err = st.AddItem(Item{Name: x, Hir: 2}, let)

	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, ErrDuplicate, scopeErr.Kind)

	res, ok := st.Resolve(x, let)
	require.True(t, ok)
	assert.Equal(t, hir.ID(2), res.Hir)
	assert.Len(t, st.Scope(let).Items(), 1)
}

func TestResolveWalksParents(t *testing.T) {
	st, names, root := newTable(t)
	qux := names.Intern("qux")
	require.NoError(t, st.AddItem(Item{Name: qux, Kind: symbols.SymbolFunction, Hir: 5}, root))

	child, err := st.AddScope(nil, root, false, 5)
	require.NoError(t, err)
	grandchild, err := st.AddScope(nil, child, true, 5)
	require.NoError(t, err)

	res, ok := st.Resolve(qux, grandchild)
	require.True(t, ok)
	assert.Equal(t, root, res.Scope)
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, symbols.SymbolFunction, res.Kind)

	_, ok = st.GetSymbol(qux, grandchild)
	assert.False(t, ok, "GetSymbol must not look at parents")
}

func TestInnerBindingHidesOuter(t *testing.T) {
	st, names, root := newTable(t)
	x := names.Intern("x")
	require.NoError(t, st.AddItem(Item{Name: x, Hir: 1}, root))
	inner, _ := st.AddScope(nil, root, true, hir.NoID)
	require.NoError(t, st.AddItem(Item{Name: x, Hir: 2}, inner))

	res, _ := st.Resolve(x, inner)
	assert.Equal(t, hir.ID(2), res.Hir)
	res, _ = st.Resolve(x, root)
	assert.Equal(t, hir.ID(1), res.Hir)
}

func TestLookupNotFound(t *testing.T) {
	st, names, root := newTable(t)

	_, ok := st.Resolve(names.Intern("notfound"), root)
	assert.False(t, ok)
	_, ok = st.Resolve(names.Intern("notfound"), 42)
	assert.False(t, ok)
}

func TestUnknownScope(t *testing.T) {
	st, names, _ := newTable(t)

	_, err := st.AddScope(nil, 42, false, hir.NoID)
	assert.ErrorIs(t, err, ErrUnknownScope)

	err = st.AddItem(Item{Name: names.Intern("a")}, 42)
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestNamedScope(t *testing.T) {
	st, names, root := newTable(t)
	m := names.Intern("m")

	id, err := st.AddScope(&m, root, false, 9)
	require.NoError(t, err)

	scope := st.Scope(id)
	assert.Equal(t, m, scope.Name)
	assert.Equal(t, root, scope.Parent)
	assert.Equal(t, hir.ID(9), scope.Owner)
	assert.Equal(t, 2, st.Len())
}
