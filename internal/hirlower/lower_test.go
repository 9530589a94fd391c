package hirlower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/colors"
	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/frontend/lexer"
	"vex/internal/frontend/parser"
	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/source"
)

type fixture struct {
	file   *source.File
	store  *hir.Store
	names  *symbols.Interner
	scopes *table.SymbolTable
	root   table.ScopeID
}

// newFixture builds an empty compilation whose root scope holds globals.
func newFixture(t *testing.T, globals ...string) *fixture {
	t.Helper()
	f := &fixture{store: hir.NewStore(), names: symbols.NewInterner()}
	f.scopes = table.NewSymbolTable(f.names)
	root, err := f.scopes.AddScope(nil, table.NoScope, false, hir.NoID)
	require.NoError(t, err)
	f.root = root
	for _, g := range globals {
		name := f.names.Intern(g)
		id := f.store.Put(hir.Mapping{Kind: hir.MappingDefinition, Name: name})
		require.NoError(t, f.scopes.AddItem(table.Item{Name: name, Kind: symbols.SymbolType, Hir: id}, root))
	}
	return f
}

func (f *fixture) lower(t *testing.T, src string) (hir.DefRef, []*Error) {
	t.Helper()
	f.file = source.NewFile("test.vx", src)
	tree, errs := parser.Parse(f.file, lexer.Tokenize(f.file, nil))
	require.Empty(t, errs, src)
	return New(tree, f.store, f.names, f.scopes).LowerFile("test", f.root)
}

func (f *fixture) dump(ref hir.DefRef) string { return f.store.DumpDef(ref, f.names) }

// leaf lowers a single literal or identifier node spelled text.
func leaf(t *testing.T, kind ast.Kind, text string, scopes Scopes) (*hir.Store, hir.ExprRef, error) {
	t.Helper()
	tree := ast.NewStore(source.NewFile("leaf.vx", text))
	n := tree.Append(kind, source.Span{From: 0, To: len(text)})
	store := hir.NewStore()
	ref, err := New(tree, store, symbols.NewInterner(), scopes).LowerExpr(n, Owner{Scope: 1})
	return store, ref, err
}

// refuseScopes fails the test if lowering consults it.
type refuseScopes struct{ t *testing.T }

func (s refuseScopes) Resolve(symbols.ID, table.ScopeID) (table.Resolution, bool) {
	s.t.Fatal("Resolve called")
	return table.Resolution{}, false
}

func (s refuseScopes) AddItem(table.Item, table.ScopeID) error {
	s.t.Fatal("AddItem called")
	return nil
}

func (s refuseScopes) AddScope(*symbols.ID, table.ScopeID, bool, hir.ID) (table.ScopeID, error) {
	s.t.Fatal("AddScope called")
	return 0, nil
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name string
		kind ast.Kind
		text string
		want hir.Expr
	}{
		{"int", ast.Int, "42", hir.IntLiteral{Value: 42}},
		{"int with separators", ast.Int, "1_000", hir.IntLiteral{Value: 1000}},
		{"hex", ast.Int, "0xff", hir.IntLiteral{Value: 255}},
		{"real", ast.Real, "3.14", hir.RealLiteral{Whole: 3, Fraction: 14, Scale: 2}},
		{"real keeps leading zeros in scale", ast.Real, "0.05", hir.RealLiteral{Whole: 0, Fraction: 5, Scale: 2}},
		{"string", ast.Str, `"a\nb"`, hir.StrLiteral{Value: "a\nb"}},
		{"char", ast.Char, `'x'`, hir.CharLiteral{Value: 'x'}},
		{"escaped char", ast.Char, `'\n'`, hir.CharLiteral{Value: '\n'}},
		{"bool", ast.Bool, "true", hir.BoolLiteral{Value: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, ref, err := leaf(t, tt.kind, tt.text, refuseScopes{t})
			require.NoError(t, err)
			got, ok := store.Exprs.Get(ref)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMalformedLiterals(t *testing.T) {
	tests := []struct {
		name string
		kind ast.Kind
		text string
	}{
		{"two points", ast.Real, "12.3.4"},
		{"int overflow", ast.Int, "99999999999999999999"},
		{"char with two runes", ast.Char, `'ab'`},
		{"unterminated string", ast.Str, `"abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := leaf(t, tt.kind, tt.text, refuseScopes{t})
			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, LiteralError, lerr.Kind)
			assert.Equal(t, tt.text, lerr.Name)
			assert.Equal(t, source.Span{From: 0, To: len(tt.text)}, lerr.Span)
		})
	}
}

func TestReservedNamesSkipScopes(t *testing.T) {
	store, ref, err := leaf(t, ast.Ident, "self", refuseScopes{t})
	require.NoError(t, err)
	assert.Equal(t, store.Singletons.SelfVal, ref)
}

func TestUnresolvedIdentifier(t *testing.T) {
	f := newFixture(t)
	_, errs := f.lower(t, "let a = 1;\nlet b = zz;\n")

	require.Len(t, errs, 1)
	assert.Equal(t, UnresolvedIdentifier, errs[0].Kind)
	assert.Equal(t, "zz", errs[0].Name)
	assert.Equal(t, source.Span{From: 19, To: 21}, errs[0].Span)
	assert.Equal(t, 4002, errs[0].Code())
	assert.Equal(t, "UnresolvedIdentifier", errs[0].ErrorName())
}

func TestErrorDiagnostic(t *testing.T) {
	colors.SetEnabled(false)

	f := newFixture(t)
	_, errs := f.lower(t, "let a = 1;\nlet b = zz;\n")
	require.Len(t, errs, 1)

	bag := diagnostics.NewDiagnosticBag()
	bag.AddSource(f.file)
	bag.Add(errs[0].Diagnostic(f.file))
	out := bag.EmitAllToString()

	assert.Contains(t, out, "error[E4002]: unresolved identifier `zz`")
	assert.Contains(t, out, "--> test.vx:2:9")
	assert.Contains(t, out, "declare `zz` before using it")
}

func TestLetScopesTheRestOfTheSequence(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "let x = 1 + 2; x")
	require.Empty(t, errs)

	assert.Equal(t, "(Module test [] (Block [(Let (Bind x #2) _ (+ (Int 1) (Int 2)) (Block [(Ref #2)]))]))", f.dump(ref))

	m, ok := f.store.Mapping(2)
	require.True(t, ok)
	assert.Equal(t, hir.MappingLocal, m.Kind)
	assert.Equal(t, "x", f.names.Name(m.Name))
	assert.Equal(t, hir.ID(1), m.Owner)
	assert.Equal(t, "(Bind x #2)", f.store.DumpPattern(m.Pattern, f.names))
}

func TestShadowingRebinds(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "let x = 1; let x = x; x")
	require.Empty(t, errs)

	assert.Equal(t,
		"(Module test [] (Block [(Let (Bind x #2) _ (Int 1) (Block [(Let (Bind x #3) _ (Ref #2) (Block [(Ref #3)]))]))]))",
		f.dump(ref))
}

func TestModuleOccurrence(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "fn main() {}")
	require.Empty(t, errs)

	m, ok := f.store.Mapping(1)
	require.True(t, ok)
	assert.Equal(t, hir.MappingModule, m.Kind)
	assert.Equal(t, ref, m.Def)
}

func TestItemsMayReferToLaterItems(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "fn a() { b() } fn b() { 1 }")
	require.Empty(t, errs)

	out := f.dump(ref)
	assert.Contains(t, out, "(Function a [] [] _ [] [] (Block [(Call (Ref #3) [] [])]))")
	assert.Contains(t, out, "(Function b [] [] _ [] [] (Block [(Int 1)]))")

	m, ok := f.store.Mapping(3)
	require.True(t, ok)
	assert.Equal(t, hir.MappingDefinition, m.Kind)
	assert.NotZero(t, m.Def)
}

func TestDuplicateItemIsAScopeError(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "fn f() {} fn f() {}")

	require.Len(t, errs, 1)
	assert.Equal(t, ScopeError, errs[0].Kind)
	assert.Equal(t, "f", errs[0].Name)
	assert.ErrorIs(t, errs[0], table.ErrDuplicate)
	assert.Equal(t, "(Module test [(Function f [] [] _ [] [] (Block []))] _)", f.dump(ref))
}

func TestParamsAndGenerics(t *testing.T) {
	f := newFixture(t, "Int")
	ref, errs := f.lower(t, "fn id<T>(x: T, y: Int) -> T { x }")
	require.Empty(t, errs)

	// #1 Int, #2 module, #3 id, #4 T, #5 x, #6 y
	assert.Equal(t,
		"(Module test [(Function id [(Param (Bind T #4) _ _)] [(Param (Bind x #5) (Ref #4) _) (Param (Bind y #6) (Ref #1) _)] (Ref #4) [] [] (Block [(Ref #5)]))] _)",
		f.dump(ref))

	kinds := map[hir.ID]hir.MappingKind{4: hir.MappingGeneric, 5: hir.MappingParam, 6: hir.MappingParam}
	for id, want := range kinds {
		m, ok := f.store.Mapping(id)
		require.True(t, ok)
		assert.Equal(t, want, m.Kind, id.String())
		assert.Equal(t, hir.ID(3), m.Owner, id.String())
	}
}

func TestEnsuresSeesResult(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "fn f() ensures result > 0 { 1 }")
	require.Empty(t, errs)

	var result hir.ID
	for id := hir.ID(1); int(id) <= f.store.Mappings(); id++ {
		if m, _ := f.store.Mapping(id); m.Kind == hir.MappingResult {
			result = id
		}
	}
	require.NotEqual(t, hir.NoID, result)
	assert.Contains(t, f.dump(ref), "(Ensures (> (Ref "+result.String()+") (Int 0)))")
}

func TestResultIsOnlyVisibleInEnsures(t *testing.T) {
	f := newFixture(t)
	_, errs := f.lower(t, "fn f() requires result > 0 { 1 }")

	require.Len(t, errs, 1)
	assert.Equal(t, UnresolvedIdentifier, errs[0].Kind)
	assert.Equal(t, "result", errs[0].Name)
}

func TestExtendedCallPassesTrailingLambda(t *testing.T) {
	f := newFixture(t, "Int")
	ref, errs := f.lower(t, "fn run(x: Int) {} run(1) { 2 }")
	require.Empty(t, errs)

	assert.Contains(t, f.dump(ref), "(Call (Ref #3) [(Int 1) (Lambda [] _ _ (Block [(Int 2)]))] [])")
}

func TestEmptyTupleIsUnit(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "()")
	require.Empty(t, errs)
	assert.Equal(t, "(Module test [] (Block [(Unit)]))", f.dump(ref))
}

func TestIdentifierPatterns(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"lowercase binds", "1 match { n => n }", "(Arm (Bind n #3) (Ref #3))"},
		{"capitalised global is a path", "1 match { None => 1 }", "(Arm (Path (Ref #1)) (Int 1))"},
		{"unknown capitalised name binds", "1 match { Other => 1 }", "(Arm (Bind Other #3) (Int 1))"},
		{"reserved name is a literal", "1 match { null => 1 }", "(Arm (Literal (null)) (Int 1))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "None")
			ref, errs := f.lower(t, tt.source)
			require.Empty(t, errs)
			assert.Contains(t, f.dump(ref), tt.want)
		})
	}
}

func TestEnumVariantsLiveInTheEnumScope(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "enum Color { Red, Green } Color.Red")
	require.Empty(t, errs)

	out := f.dump(ref)
	assert.Contains(t, out, "(Enum Color [] [(Variant Red []) (Variant Green [])])")
	assert.Contains(t, out, "(Select (Ref #2) Red)")

	_, errs = f.lower(t, "enum Color { Red } Red")
	require.Len(t, errs, 1)
	assert.Equal(t, "Red", errs[0].Name)
}

func TestBlockScopeEndsWithTheBlock(t *testing.T) {
	f := newFixture(t)
	_, errs := f.lower(t, "{ let inner = 1; inner }; inner")

	require.Len(t, errs, 1)
	assert.Equal(t, "inner", errs[0].Name)
}

func TestFailuresAreCollectedPerStatement(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "let a = zz; qq; 1")

	require.Len(t, errs, 2)
	assert.Equal(t, "zz", errs[0].Name)
	assert.Equal(t, "qq", errs[1].Name)
	assert.Equal(t, "(Module test [] (Block [(Let (Bind a #2) _ (Hole) (Block [(Int 1)]))]))", f.dump(ref))
}

func TestBrokenItemIsSkipped(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "fn bad() { missing } fn good() { 1 }")

	require.Len(t, errs, 1)
	assert.Equal(t, "missing", errs[0].Name)
	assert.Equal(t, "(Module test [(Function good [] [] _ [] [] (Block [(Int 1)]))] _)", f.dump(ref))
}

func TestAttributesAreLabels(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "^inline fn f() {}")
	require.Empty(t, errs)
	assert.Equal(t, "(Module test [(Attributed (Label inline) (Function f [] [] _ [] [] (Block [])))] _)", f.dump(ref))
}

func TestIdenticalSubtreesShareAHandle(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "(1 + 2, 1 + 2)")
	require.Empty(t, errs)

	def, _ := f.store.Defs.Get(ref)
	body := def.(hir.ModuleDef).Body
	block, _ := f.store.Exprs.Get(body)
	stmts := f.store.ExprLists.Get(block.(hir.Block).Stmts)
	require.Len(t, stmts, 1)

	tuple, _ := f.store.Exprs.Get(stmts[0])
	elems := f.store.ExprLists.Get(tuple.(hir.Tuple).Elems)
	require.Len(t, elems, 2)
	assert.Equal(t, elems[0], elems[1])
}

func TestUsePathIsNotResolved(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"dotted", "use std.io;", "(Module test [(Use (Select (Label std) io))] _)"},
		{"scoped", "use std::io::File;", "(Module test [(Use (Select (Select (Label std) io) File))] _)"},
		{"single segment", "use foo;", "(Module test [(Use (Label foo))] _)"},
		{"last segment is bound", "use std.io; io", "(Module test [(Use (Select (Label std) io))] (Block [(Ref #2)]))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ref, errs := f.lower(t, tt.source)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, f.dump(ref))
		})
	}
}

func TestOrPatternAlternativesBindOneVariable(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "3 match { a | a => a }")
	require.Empty(t, errs)
	assert.Equal(t, "(Module test [] (Block [(Match (Int 3) [(Arm (Or (Bind a #2) (Bind a #2)) (Ref #2))])]))", f.dump(ref))

	_, ok := f.store.Mapping(3)
	assert.False(t, ok, "the second alternative must not create an occurrence")
}

func TestOrPatternSharingStaysInsideThePattern(t *testing.T) {
	f := newFixture(t)
	ref, errs := f.lower(t, "(1, 2) match { (a | a, b) => b }")
	require.Empty(t, errs)
	assert.Equal(t, "(Module test [] (Block [(Match (Tuple [(Int 1) (Int 2)]) [(Arm (TuplePattern [(Or (Bind a #2) (Bind a #2)) (Bind b #3)]) (Ref #3))])]))", f.dump(ref))
}
