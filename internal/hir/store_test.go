package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/semantics/symbols"
	"vex/internal/source"
)

func TestInterningIsIdempotent(t *testing.T) {
	s := NewStore()

	a := s.Expr(IntLiteral{Value: 23})
	b := s.Expr(IntLiteral{Value: 23})
	c := s.Expr(IntLiteral{Value: 34})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, s.Expr(StrLiteral{Value: "23"}), a)
}

// sumLeft builds 23+23+34 as ((23 + 23) + 34).
func sumLeft(s *Store) ExprRef {
	x := s.Expr(IntLiteral{Value: 23})
	inner := s.Expr(BinaryApply{Op: OpAdd, X: x, Y: x})
	return s.Expr(BinaryApply{Op: OpAdd, X: inner, Y: s.Expr(IntLiteral{Value: 34})})
}

func TestSameTreeBuiltTwoWaysIsOneValue(t *testing.T) {
	s := NewStore()
	first := sumLeft(s)

	// Build it again bottom-up in a different order.
	thirtyFour := s.Expr(IntLiteral{Value: 34})
	left := s.Expr(IntLiteral{Value: 23})
	right := s.Expr(IntLiteral{Value: 23})
	inner := s.Expr(BinaryApply{Op: OpAdd, X: left, Y: right})
	second := s.Expr(BinaryApply{Op: OpAdd, X: inner, Y: thirtyFour})

	assert.Equal(t, first, second)
	assert.Equal(t, "(+ (+ (Int 23) (Int 23)) (Int 34))", s.DumpExpr(second, nil))

	swapped := s.Expr(BinaryApply{Op: OpAdd, X: thirtyFour, Y: inner})
	assert.NotEqual(t, first, swapped)
}

func TestListsAreInterned(t *testing.T) {
	s := NewStore()
	one := s.Expr(IntLiteral{Value: 1})
	two := s.Expr(IntLiteral{Value: 2})

	assert.Equal(t, s.ExprList([]ExprRef{one, two}), s.ExprList([]ExprRef{one, two}))
	assert.NotEqual(t, s.ExprList([]ExprRef{one, two}), s.ExprList([]ExprRef{two, one}))
	assert.Equal(t, s.Singletons.NoExprs, s.ExprList(nil))
	assert.Equal(t, s.Singletons.NoExprs, s.ExprList([]ExprRef{}))
	assert.Empty(t, s.ExprLists.Get(s.Singletons.NoExprs))
}

func TestInternedListIsACopy(t *testing.T) {
	s := NewStore()
	elems := []ExprRef{s.Expr(IntLiteral{Value: 1})}
	list := s.ExprList(elems)

	elems[0] = s.Expr(IntLiteral{Value: 9})

	assert.Equal(t, "(List [(Int 1)])", s.DumpExpr(s.Expr(List{Elems: list}), nil))
}

func TestAbsentHandles(t *testing.T) {
	s := NewStore()

	_, ok := s.Exprs.Get(0)
	assert.False(t, ok)
	_, ok = s.Exprs.Get(10_000)
	assert.False(t, ok)
	assert.Nil(t, s.ExprLists.Get(0))
	assert.Equal(t, "_", s.DumpExpr(0, nil))
}

func TestPutNeverDeduplicates(t *testing.T) {
	s := NewStore()
	m := Mapping{Kind: MappingLocal, Span: source.Span{From: 1, To: 2}}

	a := s.Put(m)
	b := s.Put(m)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Mappings())
}

func TestUpdateResolvesPlaceholder(t *testing.T) {
	s := NewStore()
	names := symbols.NewInterner()
	f := names.Intern("f")

	id := s.Put(Mapping{Kind: MappingDefinition, Name: f})
	def := s.Def(Function{ID: id, Name: f, Body: s.Singletons.Unit})
	require.NoError(t, s.Update(id, Mapping{Kind: MappingDefinition, Name: f, Def: def}))

	got, ok := s.Mapping(id)
	require.True(t, ok)
	assert.Equal(t, def, got.Def)

	err := s.Update(99, Mapping{})
	assert.ErrorIs(t, err, ErrUnknownID)
	_, ok = s.Mapping(NoID)
	assert.False(t, ok)
}

func TestPreservedNames(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name string
		want ExprRef
	}{
		{"self", s.Singletons.SelfVal},
		{"Self", s.Singletons.SelfType},
		{"null", s.Singletons.Null},
		{"undefined", s.Singletons.Undefined},
		{"any", s.Singletons.Any},
		{"Any", s.Singletons.AnyType},
		{"void", s.Singletons.Void},
		{"NoReturn", s.Singletons.NoReturn},
		{"bool", s.Singletons.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Preserved(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := s.Preserved("x")
	assert.False(t, ok)
	assert.Equal(t, s.Singletons.SelfVal, s.Expr(SelfVal{}))
}

func TestDumpUsesNames(t *testing.T) {
	s := NewStore()
	names := symbols.NewInterner()
	x := names.Intern("x")

	id := s.Put(Mapping{Kind: MappingLocal, Name: x})
	bind := s.Pattern(Bind{Name: x, ID: id})
	let := s.Expr(Let{
		Pattern: bind,
		Value:   s.Expr(RealLiteral{Whole: 3, Fraction: 14, Scale: 2}),
		Body:    s.Expr(RefExpr{Target: id}),
	})

	assert.Equal(t, "(Let (Bind x #1) _ (Real 3.14) (Ref #1))", s.DumpExpr(let, names))
}
