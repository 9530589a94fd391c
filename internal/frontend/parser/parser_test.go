package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/internal/frontend/ast"
	"vex/internal/frontend/lexer"
	"vex/internal/source"
)

func lex(src string) (*source.File, *Parser) {
	file := source.NewFile("test.vx", src)
	return file, New(file, lexer.Tokenize(file, nil))
}

func parseExpr(t *testing.T, src string) string {
	t.Helper()
	file := source.NewFile("test.vx", src)
	store, _, err := ParseExpr(file, lexer.Tokenize(file, nil))
	require.NoError(t, err, src)
	return store.DumpRoot()
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "a + b * c", "(Add (Ident a) (Mul (Ident b) (Ident c)))"},
		{"left associative", "a - b - c", "(Sub (Sub (Ident a) (Ident b)) (Ident c))"},
		{"assign is right associative", "a = b = c", "(Assign (Ident a) (Assign (Ident b) (Ident c)))"},
		{"power is right associative", "a ** b ** c", "(Pow (Ident a) (Pow (Ident b) (Ident c)))"},
		{"negation takes power operand", "-a ** b", "(Neg (Pow (Ident a) (Ident b)))"},
		{"negation below product", "-a * b", "(Mul (Neg (Ident a)) (Ident b))"},
		{"adjacent greater signs shift", "a >> b", "(Shr (Ident a) (Ident b))"},
		{"coalesce is loose", "a ?? b || c", "(Coalesce (Ident a) (Or (Ident b) (Ident c)))"},
		{"range", "1..10", "(Range (Int 1) (Int 10))"},
		{"parens are transparent", "(a + b) * c", "(Mul (Add (Ident a) (Ident b)) (Ident c))"},
		{"unit", "()", "(Tuple [])"},
		{"tuple", "(1, 2)", "(Tuple [(Int 1) (Int 2)])"},
		{"list with trailing comma", "[1, 2,]", "(List [(Int 1) (Int 2)])"},
		{"select chain", "a.b.c", "(Select (Select (Ident a) (Ident b)) (Ident c))"},
		{"index", "xs[0]", "(IndexAccess (Ident xs) (Int 0))"},
		{"propagate", "x?", "(Propagate (Ident x))"},
		{"unwrap", "x!", "(Unwrap (Ident x))"},
		{"call with named argument", "f(x, y = 1)", "(Call (Ident f) [(Ident x) (PropertyAssignment (Ident y) (Int 1))])"},
		{"generic call", "f<T>(x)", "(Call (GenericApply (Ident f) [(Ident T)]) [(Ident x)])"},
		{"less than is not generic", "a < b", "(Lt (Ident a) (Ident b))"},
		{"object call", "Point { x: 1, y }", "(ObjectCall (Ident Point) [(Property (Ident x) (Int 1)) (Property (Ident y) _)])"},
		{"extended call", "f(x) { y }", "(ExtendedCall (Call (Ident f) [(Ident x)]) (Block [(Ident y)]))"},
		{"object literal", "{ a: 1 }", "(Object [(Property (Ident a) (Int 1))])"},
		{"block", "{ a }", "(Block [(Ident a)])"},
		{"if else", "if a { b } else { c }", "(If (Ident a) (Block [(Ident b)]) (Block [(Ident c)]))"},
		{"if condition keeps its brace", "if x == y { 1 }", "(If (Eq (Ident x) (Ident y)) (Block [(Int 1)]) _)"},
		{"while condition is not an object call", "while Point { x }", "(While (Ident Point) (Block [(Ident x)]))"},
		{"for", "for x in xs { x }", "(For (Ident x) (Ident xs) (Block [(Ident x)]))"},
		{"if let", "if let Some(v) = o { v }", "(IfLet (ConstructorPattern (Ident Some) [(Ident v)]) (Ident o) (Block [(Ident v)]) _)"},
		{"match", "x match { 1 => a, _ => b }", "(Match (Ident x) [(MatchArm (Int 1) (Ident a)) (MatchArm (Wildcard) (Ident b))])"},
		{"closure", "|x| x + 1", "(Lambda _ _ (Add (Ident x) (Int 1)) [(Param (Ident x) _ _)])"},
		{"closure without params", "|| 1", "(Lambda _ _ (Int 1) [])"},
		{"fn lambda", "fn (x: Int) -> Int => x", "(Lambda (Ident Int) _ (Ident x) [(Param (Ident x) (Ident Int) _)])"},
		{"is", "a is Int", "(Is (Ident a) (Ident Int))"},
		{"as generic type", "x as List<Int>", "(As (Ident x) (GenericType (Ident List) [(Ident Int)]))"},
		{"handle", "handle f() with { Ask() => resume 1 }", "(Handle (Call (Ident f) []) [(HandlerClause (Ident Ask) (Resume (Int 1)) [])])"},
		{"forall", "forall x: Int where x > 0 => x >= 0", "(Forall (Gt (Ident x) (Int 0)) (Ge (Ident x) (Int 0)) [(Param (Ident x) (Ident Int) _)])"},
		{"return without value", "return", "(Return _)"},
		{"continue", "continue", "(Continue)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.source))
		})
	}
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"or", "Some(x) | None", "(OrPattern (ConstructorPattern (Ident Some) [(Ident x)]) (Ident None))"},
		{"inclusive range", "1..=5", "(RangeInclusivePattern (Int 1) (Int 5))"},
		{"tuple", "(a, _)", "(TuplePattern [(Ident a) (Wildcard)])"},
		{"list with rest", "[first, ..rest]", "(ListPattern [(Ident first) (RestPattern (Ident rest))])"},
		{"record", "Point { x, y: 0 }", "(RecordPattern (Ident Point) [(FieldPattern (Ident x) _) (FieldPattern (Ident y) (Int 0))])"},
		{"guard", "n if n > 0", "(GuardPattern (Ident n) (Gt (Ident n) (Int 0)))"},
		{"as binding", "Some(v) as whole", "(AsPattern (ConstructorPattern (Ident Some) [(Ident v)]) (Ident whole))"},
		{"negative literal", "-1", "(Neg (Int 1))"},
		{"path", "Color.Red", "(Select (Ident Color) (Ident Red))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.vx", tt.source)
			store, _, err := ParsePattern(file, lexer.Tokenize(file, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.DumpRoot())
		})
	}
}

func TestTypes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"function type packs modifiers", "pure async fn(Int) -> Bool / IO", "(FnType 5 [(Ident Int)] (Ident Bool) [(Ident IO)])"},
		{"effect set", "fn() / {IO, Ask}", "(FnType 0 [] _ [(Ident IO) (Ident Ask)])"},
		{"nested generics", "List<List<Int>>", "(GenericType (Ident List) [(GenericType (Ident List) [(Ident Int)])])"},
		{"option of list", "[Int]?", "(OptionType (ListType (Ident Int)))"},
		{"tuple", "(Int, Str)", "(TupleType [(Ident Int) (Ident Str)])"},
		{"refinement", "{ n: Int | n > 0 }", "(RefinementType (Ident n) (Ident Int) (Gt (Ident n) (Int 0)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.vx", tt.source)
			store, _, err := ParseType(file, lexer.Tokenize(file, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.DumpRoot())
		})
	}
}

func TestFiles(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "let then use",
			source: "let x = 1 + 2; x",
			want:   "(File [(Let (Ident x) _ (Add (Int 1) (Int 2))) (Ident x)])",
		},
		{
			name:   "function with clause",
			source: "fn add(a: Int, b: Int) -> Int requires a > 0 { a + b }",
			want:   "(File [(FunctionDef (Ident add) [] [(Param (Ident a) (Ident Int) _) (Param (Ident b) (Ident Int) _)] (Ident Int) [] [(Requires (Gt (Ident a) (Int 0)))] (Block [(Add (Ident a) (Ident b))]))])",
		},
		{
			name:   "attribute wraps item",
			source: "^inline fn f() {}",
			want:   "(File [(Attribute (Ident inline) (FunctionDef (Ident f) [] [] _ [] [] (Block [])))])",
		},
		{
			name:   "impl for",
			source: "impl<T> Show for List<T> { }",
			want:   "(File [(ImplDef [(GenericParam (Ident T) _)] (Ident Show) (GenericType (Ident List) [(Ident T)]) [])])",
		},
		{
			name:   "inherent impl",
			source: "impl Point { }",
			want:   "(File [(ImplDef [] _ (Ident Point) [])])",
		},
		{
			name:   "struct",
			source: "struct P { x: Int, y: Int = 0 }",
			want:   "(File [(StructDef (Ident P) [] [(Field (Ident x) (Ident Int) _) (Field (Ident y) (Ident Int) (Int 0))])])",
		},
		{
			name:   "enum",
			source: "enum Opt<T> { Some(T), None }",
			want:   "(File [(EnumDef (Ident Opt) [(GenericParam (Ident T) _)] [(Variant (Ident Some) [(Ident T)]) (Variant (Ident None) [])])])",
		},
		{
			name:   "effect",
			source: "effect Ask { fn ask() -> Int; }",
			want:   "(File [(EffectDef (Ident Ask) [] [(FunctionDef (Ident ask) [] [] (Ident Int) [] [] _)])])",
		},
		{
			name:   "trait",
			source: "trait Eq: Show { type Out; fn eq(a: Self) -> Bool; }",
			want:   "(File [(TraitDef (Ident Eq) [] [(Ident Show)] [(AssocType (Ident Out) [] _) (FunctionDef (Ident eq) [] [(Param (Ident a) (Ident Self) _)] (Ident Bool) [] [] _)])])",
		},
		{
			name:   "type alias",
			source: "type Id = Int;",
			want:   "(File [(TypeAlias (Ident Id) [] (Ident Int))])",
		},
		{
			name:   "use",
			source: "use std::io;",
			want:   "(File [(Use (Select (Ident std) (Ident io)))])",
		},
		{
			name:   "pub",
			source: "pub fn f();",
			want:   "(File [(Public (FunctionDef (Ident f) [] [] _ [] [] _))])",
		},
		{
			name:   "module",
			source: "mod m { let a = 1; }",
			want:   "(File [(Module (Ident m) [(Let (Ident a) _ (Int 1))])])",
		},
		{
			name:   "semicolon optional after block-like expression",
			source: "if a { 1 } x",
			want:   "(File [(If (Ident a) (Block [(Int 1)]) _) (Ident x)])",
		},
		{
			name:   "empty file",
			source: "",
			want:   "(File [])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.vx", tt.source)
			store, errs := Parse(file, lexer.Tokenize(file, nil))
			require.Empty(t, errs)
			assert.Equal(t, tt.want, store.DumpRoot())
		})
	}
}

func TestMalformedConstructsAreErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"let without pattern", "let = 1;", "expected pattern"},
		{"unclosed call", "f(1, 2", "expected argument or `)`"},
		{"named argument without value", "f(x, y = )", "expected value for the 2nd argument"},
		{"missing semicolon", "1 2", "expected `;`"},
		{"dangling operator", "a +", "expected right operand"},
		{"attribute without target", "^inline", "after attribute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.vx", tt.source)
			_, errs := Parse(file, lexer.Tokenize(file, nil))
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.contains)
		})
	}
}

func TestRecoveryContinuesAfterBrokenElement(t *testing.T) {
	file := source.NewFile("test.vx", "let = 1; let y = 2;")
	store, errs := Parse(file, lexer.Tokenize(file, nil))

	require.Len(t, errs, 1)
	assert.Equal(t, "(File [(Let (Ident y) _ (Int 2))])", store.DumpRoot())
}

func TestPrefixMismatchLeavesNoTrace(t *testing.T) {
	probes := map[string]func(*Parser) (ast.Index, error){
		"if":       (*Parser).tryIf,
		"while":    (*Parser).tryWhile,
		"let":      (*Parser).tryLet,
		"fn def":   (*Parser).tryFnDef,
		"struct":   (*Parser).tryStructDef,
		"block":    (*Parser).tryBlock,
		"use":      (*Parser).tryUse,
		"tuple":    (*Parser).tryTuplePattern,
		"function": (*Parser).tryItem,
	}

	for name, probe := range probes {
		t.Run(name, func(t *testing.T) {
			_, p := lex("x + 1")
			cursor, size := p.Cursor(), p.AST().Len()

			idx, err := probe(p)

			require.NoError(t, err)
			assert.Equal(t, ast.NoIndex, idx)
			assert.Equal(t, cursor, p.Cursor())
			assert.Equal(t, size, p.AST().Len())
		})
	}
}

func TestFnWithoutNameIsNotADefinition(t *testing.T) {
	_, p := lex("fn (x) => x")
	idx, err := p.tryFnDef()

	require.NoError(t, err)
	assert.Equal(t, ast.NoIndex, idx)
	assert.Equal(t, 0, p.Cursor())
}

func TestAbandonedSpeculationIsUnreachable(t *testing.T) {
	file := source.NewFile("test.vx", "a < b")
	store, root, err := ParseExpr(file, lexer.Tokenize(file, nil))
	require.NoError(t, err)

	reachable := 0
	store.Walk(root, func(ast.Index) bool {
		reachable++
		return true
	})

	// the generic attempt left a type node for `b` behind
	assert.Equal(t, 3, reachable)
	assert.Greater(t, store.Len()-1, reachable)
	assert.Equal(t, "(Lt (Ident a) (Ident b))", store.DumpRoot())
}

func TestSpansCoverConsumedTokens(t *testing.T) {
	file := source.NewFile("test.vx", "foo(1) + bar")
	store, root, err := ParseExpr(file, lexer.Tokenize(file, nil))
	require.NoError(t, err)

	assert.Equal(t, source.Span{From: 0, To: 12}, store.Span(root))
	call := store.Child(root, 0)
	assert.Equal(t, source.Span{From: 0, To: 6}, store.Span(call))
	text, ok := store.SourceText(store.Child(root, 1))
	require.True(t, ok)
	assert.Equal(t, "bar", text)
}

func TestErrorDiagnostic(t *testing.T) {
	file := source.NewFile("test.vx", "let x 1;")
	_, errs := Parse(file, lexer.Tokenize(file, nil))
	require.NotEmpty(t, errs)

	diag := errs[0].Diagnostic(file)
	assert.Equal(t, "P0002", diag.Code)
	assert.Contains(t, diag.Message, "expected `=`")
}

func TestBlockLikeStatementEndsElement(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "while then negation",
			source: "{ while c { x }\n-1 }",
			want:   "(File [(Block [(While (Ident c) (Block [(Ident x)])) (Neg (Int 1))])])",
		},
		{
			name:   "if else then parenthesised",
			source: "{ if c { 1 } else { 2 }\n(3) }",
			want:   "(File [(Block [(If (Ident c) (Block [(Int 1)]) (Block [(Int 2)])) (Int 3)])])",
		},
		{
			name:   "loop then list",
			source: "{ loop { x }\n[1, 2] }",
			want:   "(File [(Block [(Loop (Block [(Ident x)])) (List [(Int 1) (Int 2)])])])",
		},
		{
			name:   "for then tuple",
			source: "for x in xs { x }\n(1, 2)",
			want:   "(File [(For (Ident x) (Ident xs) (Block [(Ident x)])) (Tuple [(Int 1) (Int 2)])])",
		},
		{
			name:   "if let then negation",
			source: "if let v = o { v }\n-v",
			want:   "(File [(IfLet (Ident v) (Ident o) (Block [(Ident v)]) _) (Neg (Ident v))])",
		},
		{
			name:   "block then negation",
			source: "{ a }\n-1",
			want:   "(File [(Block [(Ident a)]) (Neg (Int 1))])",
		},
		{
			name:   "handle then list",
			source: "handle f() with { Ask() => resume 1 }\n[2]",
			want:   "(File [(Handle (Call (Ident f) []) [(HandlerClause (Ident Ask) (Resume (Int 1)) [])]) (List [(Int 2)])])",
		},
		{
			name:   "nested block-like operand still continues",
			source: "x = if c { 1 } else { 2 } + 3;",
			want:   "(File [(Assign (Ident x) (Add (If (Ident c) (Block [(Int 1)]) (Block [(Int 2)])) (Int 3)))])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.vx", tt.source)
			store, errs := Parse(file, lexer.Tokenize(file, nil))
			require.Empty(t, errs)
			assert.Equal(t, tt.want, store.DumpRoot())
		})
	}
}

func TestBlockLikeExpressionContinuesOutsideStatements(t *testing.T) {
	assert.Equal(t,
		"(Sub (While (Ident c) (Block [(Ident x)])) (Int 1))",
		parseExpr(t, "while c { x } - 1"))
}

func TestBraceFlagsAreIndependent(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   Options
		want   string
	}{
		{"object call without extended call", "Point { x }", Options{NoExtendedCall: true}, "(ObjectCall (Ident Point) [(Property (Ident x) _)])"},
		{"extended call without object call", "Point { x }", Options{NoObjectCall: true}, "(ExtendedCall (Ident Point) (Block [(Ident x)]))"},
		{"no extended call leaves the brace", "f(x) { y }", Options{NoExtendedCall: true}, "(Call (Ident f) [(Ident x)])"},
		{"both flags leave the brace", "Point { x }", condition, "(Ident Point)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := lex(tt.source)
			idx, err := p.tryExprPratt(0, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.AST().Dump(idx))
		})
	}
}
