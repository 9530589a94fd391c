package hirlower

import (
	"fmt"

	"vex/internal/frontend/ast"
	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/source"
)

var binaryOps = map[ast.Kind]hir.BinaryOp{
	ast.Add:      hir.OpAdd,
	ast.Sub:      hir.OpSub,
	ast.Mul:      hir.OpMul,
	ast.Div:      hir.OpDiv,
	ast.Mod:      hir.OpMod,
	ast.Pow:      hir.OpPow,
	ast.Eq:       hir.OpEq,
	ast.Ne:       hir.OpNe,
	ast.Lt:       hir.OpLt,
	ast.Le:       hir.OpLe,
	ast.Gt:       hir.OpGt,
	ast.Ge:       hir.OpGe,
	ast.And:      hir.OpAnd,
	ast.Or:       hir.OpOr,
	ast.BitAnd:   hir.OpBitAnd,
	ast.BitOr:    hir.OpBitOr,
	ast.BitXor:   hir.OpBitXor,
	ast.Shl:      hir.OpShl,
	ast.Shr:      hir.OpShr,
	ast.Coalesce: hir.OpCoalesce,
}

// compound assignments carry the operator they apply
var assignOps = map[ast.Kind]hir.BinaryOp{
	ast.Assign:    hir.OpNone,
	ast.AddAssign: hir.OpAdd,
	ast.SubAssign: hir.OpSub,
	ast.MulAssign: hir.OpMul,
	ast.DivAssign: hir.OpDiv,
	ast.ModAssign: hir.OpMod,
}

var unaryOps = map[ast.Kind]hir.UnaryOp{
	ast.Neg:    hir.OpNeg,
	ast.Not:    hir.OpNot,
	ast.BitNot: hir.OpBitNot,
}

// LowerExpr lowers the expression or type at n as seen from owner.
func (l *Lowerer) LowerExpr(n ast.Index, owner Owner) (hir.ExprRef, error) {
	kind := l.ast.Kind(n)
	span := l.ast.Span(n)

	if op, ok := binaryOps[kind]; ok {
		x, y, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.BinaryApply{Op: op, X: x, Y: y}), nil
	}
	if op, ok := assignOps[kind]; ok {
		target, value, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Assign{Op: op, Target: target, Value: value}), nil
	}
	if op, ok := unaryOps[kind]; ok {
		x, err := l.LowerExpr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.UnaryApply{Op: op, X: x}), nil
	}

	switch kind {
	case ast.Int, ast.Real, ast.Str, ast.Char, ast.Bool:
		return l.lowerLiteral(n)
	case ast.Ident:
		return l.lowerIdent(n, owner)
	case ast.Wildcard:
		return l.hir.Singletons.Hole, nil
	case ast.Continue:
		return l.hir.Singletons.Continue, nil

	case ast.Propagate, ast.Unwrap, ast.Return, ast.Break, ast.Resume,
		ast.Loop, ast.ListType, ast.OptionType:
		x, err := l.optional(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(wrap(kind, x)), nil

	case ast.Range, ast.RangeInclusive:
		start, end, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Range{Start: start, End: end, Inclusive: kind == ast.RangeInclusive}), nil
	case ast.Is, ast.As:
		x, typ, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		if kind == ast.Is {
			return l.hir.Expr(hir.Is{X: x, Type: typ}), nil
		}
		return l.hir.Expr(hir.As{X: x, Type: typ}), nil
	case ast.Select:
		x, err := l.LowerExpr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Select{X: x, Field: l.symbol(l.ast.Child(n, 1))}), nil
	case ast.IndexAccess:
		x, index, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Index{X: x, Index: index}), nil

	case ast.Block:
		return l.lowerBlock(n, owner)
	case ast.If:
		return l.lowerIf(n, owner)
	case ast.IfLet:
		return l.lowerIfLet(n, owner)
	case ast.While:
		cond, body, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.While{Cond: cond, Body: body}), nil
	case ast.For:
		return l.lowerFor(n, owner)
	case ast.Match:
		return l.lowerMatch(n, owner)
	case ast.Handle:
		return l.lowerHandle(n, owner)

	case ast.List, ast.Tuple, ast.TupleType, ast.EffectRow:
		elems, err := l.exprs(l.ast.Multi(n, 0), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(l.sequence(kind, elems)), nil
	case ast.Object, ast.ObjectCall:
		return l.lowerObject(n, owner)
	case ast.Call:
		return l.lowerCall(n, owner, 0)
	case ast.ExtendedCall:
		return l.lowerExtendedCall(n, owner)
	case ast.GenericApply, ast.GenericType:
		base, err := l.LowerExpr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		args, err := l.exprs(l.ast.Multi(n, 1), owner)
		if err != nil {
			return 0, err
		}
		if kind == ast.GenericType {
			return l.hir.Expr(hir.TypeApply{Base: base, Args: args}), nil
		}
		return l.hir.Expr(hir.GenericApply{Callee: base, Args: args}), nil

	case ast.Lambda:
		return l.lowerLambda(n, owner)
	case ast.Forall, ast.Exists:
		return l.lowerQuantifier(n, owner)
	case ast.FnType:
		return l.lowerFnType(n, owner)
	case ast.RefinementType:
		return l.lowerRefinement(n, owner)

	case ast.Let, ast.Const:
		stmts, err := l.lowerSeq([]ast.Index{n}, owner, nil)
		if err != nil {
			return 0, err
		}
		return stmts[0], nil
	case ast.Attribute:
		if l.isItem(n) {
			return l.localDef(n, owner)
		}
		attr, err := l.lowerAttr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		x, err := l.LowerExpr(l.ast.Child(n, 1), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Attributed{Attr: attr, X: x}), nil

	case ast.FunctionDef, ast.EffectDef, ast.StructDef, ast.EnumDef, ast.TraitDef,
		ast.ImplDef, ast.TypeAlias, ast.AssocType, ast.Module, ast.Use, ast.Public:
		return l.localDef(n, owner)

	case ast.Property, ast.PropertyAssignment, ast.MatchArm, ast.GenericParam,
		ast.HandlerClause, ast.Param, ast.Field, ast.Variant, ast.Requires,
		ast.Ensures, ast.Decreases, ast.Invariant:
		return 0, internalError(span, "%v cannot be lowered outside its parent", kind)
	case ast.RestPattern, ast.OrPattern, ast.AsPattern, ast.GuardPattern,
		ast.RangePattern, ast.RangeInclusivePattern, ast.FieldPattern,
		ast.TuplePattern, ast.ListPattern, ast.ConstructorPattern, ast.RecordPattern:
		return 0, internalError(span, "pattern %v in expression position", kind)
	case ast.File:
		return 0, internalError(span, "a file is lowered with LowerFile")
	case ast.Invalid:
		return 0, internalError(span, "missing expression")
	}
	return 0, internalError(span, "no lowering for %v", kind)
}

func wrap(kind ast.Kind, x hir.ExprRef) hir.Expr {
	switch kind {
	case ast.Propagate:
		return hir.Propagate{X: x}
	case ast.Unwrap:
		return hir.Unwrap{X: x}
	case ast.Return:
		return hir.Return{Value: x}
	case ast.Break:
		return hir.Break{Value: x}
	case ast.Resume:
		return hir.Resume{Value: x}
	case ast.Loop:
		return hir.Loop{Body: x}
	case ast.ListType:
		return hir.ListType{Elem: x}
	}
	return hir.OptionType{Elem: x}
}

// sequence builds the node for a bracketed list of expressions. An empty
// tuple is the unit value.
func (l *Lowerer) sequence(kind ast.Kind, elems hir.ExprList) hir.Expr {
	switch kind {
	case ast.List:
		return hir.List{Elems: elems}
	case ast.EffectRow:
		return hir.EffectRow{Effects: elems}
	}
	if elems == l.hir.Singletons.NoExprs {
		return hir.Unit{}
	}
	if kind == ast.TupleType {
		return hir.TupleType{Elems: elems}
	}
	return hir.Tuple{Elems: elems}
}

func (l *Lowerer) lowerLiteral(n ast.Index) (hir.ExprRef, error) {
	text := l.text(n)
	var (
		lit hir.Expr
		err error
	)
	switch l.ast.Kind(n) {
	case ast.Int:
		lit, err = parseInt(text)
	case ast.Real:
		lit, err = parseReal(text)
	case ast.Str:
		lit, err = parseStr(text)
	case ast.Char:
		lit, err = parseChar(text)
	default:
		lit, err = parseBool(text)
	}
	if err != nil {
		return 0, literalError(l.ast.Span(n), text, err)
	}
	return l.hir.Expr(lit), nil
}

// lowerIdent checks the reserved names before asking the scope manager.
func (l *Lowerer) lowerIdent(n ast.Index, owner Owner) (hir.ExprRef, error) {
	text := l.text(n)
	if ref, ok := l.hir.Preserved(text); ok {
		return ref, nil
	}
	if sym, ok := l.names.Lookup(text); ok {
		if res, ok := l.scopes.Resolve(sym, owner.Scope); ok {
			return l.hir.Expr(hir.RefExpr{Target: res.Hir}), nil
		}
	}
	return 0, &Error{
		Kind:    UnresolvedIdentifier,
		Message: fmt.Sprintf("unresolved identifier `%s`", text),
		Span:    l.ast.Span(n),
		Name:    text,
	}
}

func (l *Lowerer) lowerBlock(n ast.Index, owner Owner) (hir.ExprRef, error) {
	inner, err := l.enter(owner, l.ast.Span(n), nil, false)
	if err != nil {
		return 0, err
	}
	stmts, err := l.lowerElements(l.ast.Multi(n, 0), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.Block{Stmts: l.hir.ExprList(stmts)}), nil
}

func (l *Lowerer) lowerIf(n ast.Index, owner Owner) (hir.ExprRef, error) {
	cond, err := l.LowerExpr(l.ast.Child(n, 0), owner)
	if err != nil {
		return 0, err
	}
	then, err := l.LowerExpr(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	els, err := l.optional(l.ast.Child(n, 2), owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.If{Cond: cond, Then: then, Else: els}), nil
}

// lowerIfLet binds the pattern in a scope only the then branch sees.
func (l *Lowerer) lowerIfLet(n ast.Index, owner Owner) (hir.ExprRef, error) {
	value, err := l.LowerExpr(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	inner, err := l.enter(owner, l.ast.Span(n), nil, true)
	if err != nil {
		return 0, err
	}
	pattern, err := l.lowerPattern(l.ast.Child(n, 0), inner, localBinder)
	if err != nil {
		return 0, err
	}
	then, err := l.LowerExpr(l.ast.Child(n, 2), inner)
	if err != nil {
		return 0, err
	}
	els, err := l.optional(l.ast.Child(n, 3), owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.IfLet{Pattern: pattern, Value: value, Then: then, Else: els}), nil
}

func (l *Lowerer) lowerFor(n ast.Index, owner Owner) (hir.ExprRef, error) {
	iter, err := l.LowerExpr(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	inner, err := l.enter(owner, l.ast.Span(n), nil, true)
	if err != nil {
		return 0, err
	}
	pattern, err := l.lowerPattern(l.ast.Child(n, 0), inner, localBinder)
	if err != nil {
		return 0, err
	}
	body, err := l.LowerExpr(l.ast.Child(n, 2), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.For{Pattern: pattern, Iter: iter, Body: body}), nil
}

func (l *Lowerer) lowerMatch(n ast.Index, owner Owner) (hir.ExprRef, error) {
	scrutinee, err := l.LowerExpr(l.ast.Child(n, 0), owner)
	if err != nil {
		return 0, err
	}
	arms := make([]hir.ClauseRef, 0)
	for _, arm := range l.ast.Multi(n, 1) {
		inner, err := l.enter(owner, l.ast.Span(arm), nil, true)
		if err != nil {
			return 0, err
		}
		pattern, err := l.lowerPattern(l.ast.Child(arm, 0), inner, localBinder)
		if err != nil {
			return 0, err
		}
		body, err := l.LowerExpr(l.ast.Child(arm, 1), inner)
		if err != nil {
			return 0, err
		}
		arms = append(arms, l.hir.Clause(hir.MatchArm{Pattern: pattern, Body: body}))
	}
	return l.hir.Expr(hir.Match{Scrutinee: scrutinee, Arms: l.hir.ClauseList(arms)}), nil
}

func (l *Lowerer) lowerHandle(n ast.Index, owner Owner) (hir.ExprRef, error) {
	body, err := l.LowerExpr(l.ast.Child(n, 0), owner)
	if err != nil {
		return 0, err
	}
	handlers := make([]hir.ClauseRef, 0)
	for _, h := range l.ast.Multi(n, 1) {
		op, err := l.LowerExpr(l.ast.Child(h, 0), owner)
		if err != nil {
			return 0, err
		}
		inner, err := l.enter(owner, l.ast.Span(h), nil, false)
		if err != nil {
			return 0, err
		}
		params, err := l.params(l.ast.Multi(h, 2), inner, paramBinder)
		if err != nil {
			return 0, err
		}
		arm, err := l.LowerExpr(l.ast.Child(h, 1), inner)
		if err != nil {
			return 0, err
		}
		handlers = append(handlers, l.hir.Clause(hir.HandlerArm{Op: op, Params: params, Body: arm}))
	}
	return l.hir.Expr(hir.Handle{Body: body, Handlers: l.hir.ClauseList(handlers)}), nil
}

// lowerObject handles both `{a: 1}` and `Point { x: 1 }`.
func (l *Lowerer) lowerObject(n ast.Index, owner Owner) (hir.ExprRef, error) {
	var (
		typ   hir.ExprRef
		props []ast.Index
		err   error
	)
	if l.ast.Kind(n) == ast.ObjectCall {
		if typ, err = l.LowerExpr(l.ast.Child(n, 0), owner); err != nil {
			return 0, err
		}
		props = l.ast.Multi(n, 1)
	} else {
		props = l.ast.Multi(n, 0)
	}

	refs := make([]hir.PropRef, 0, len(props))
	for _, p := range props {
		if l.ast.Kind(p) != ast.Property {
			return 0, internalError(l.ast.Span(p), "object field is %v", l.ast.Kind(p))
		}
		ref, err := l.property(p, owner)
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}
	return l.hir.Expr(hir.Object{Type: typ, Props: l.hir.PropList(refs)}), nil
}

// property lowers `name: value`. The shorthand `name` reads the variable of
// the same name.
func (l *Lowerer) property(n ast.Index, owner Owner) (hir.PropRef, error) {
	name := l.ast.Child(n, 0)
	valueNode := l.ast.Child(n, 1)
	if valueNode == ast.NoIndex {
		valueNode = name
	}
	value, err := l.LowerExpr(valueNode, owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Prop(hir.Property{Name: l.symbol(name), Value: value}), nil
}

// arguments splits call arguments by the kind of each child: named
// arguments go to the property list, everything else is positional.
func (l *Lowerer) arguments(args []ast.Index, owner Owner) ([]hir.ExprRef, []hir.PropRef, error) {
	var (
		positional []hir.ExprRef
		named      []hir.PropRef
	)
	for _, a := range args {
		switch l.ast.Kind(a) {
		case ast.Property, ast.PropertyAssignment:
			p, err := l.property(a, owner)
			if err != nil {
				return nil, nil, err
			}
			named = append(named, p)
		default:
			e, err := l.LowerExpr(a, owner)
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, e)
		}
	}
	return positional, named, nil
}

// lowerCall lowers a Call node. A nonzero trailing value is appended to the
// positional arguments.
func (l *Lowerer) lowerCall(n ast.Index, owner Owner, trailing hir.ExprRef) (hir.ExprRef, error) {
	callee, err := l.LowerExpr(l.ast.Child(n, 0), owner)
	if err != nil {
		return 0, err
	}
	args, named, err := l.arguments(l.ast.Multi(n, 1), owner)
	if err != nil {
		return 0, err
	}
	if trailing != 0 {
		args = append(args, trailing)
	}
	return l.hir.Expr(hir.Call{Callee: callee, Args: l.hir.ExprList(args), Named: l.hir.PropList(named)}), nil
}

// lowerExtendedCall turns `f(x) { body }` into `f(x, || { body })`.
func (l *Lowerer) lowerExtendedCall(n ast.Index, owner Owner) (hir.ExprRef, error) {
	body, err := l.lowerBlock(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	lambda := l.hir.Expr(hir.Lambda{Params: l.hir.Singletons.NoParams, Body: body})

	left := l.ast.Child(n, 0)
	if l.ast.Kind(left) == ast.Call {
		return l.lowerCall(left, owner, lambda)
	}
	callee, err := l.LowerExpr(left, owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.Call{
		Callee: callee,
		Args:   l.hir.ExprList([]hir.ExprRef{lambda}),
		Named:  l.hir.Singletons.NoProps,
	}), nil
}

func (l *Lowerer) lowerLambda(n ast.Index, owner Owner) (hir.ExprRef, error) {
	inner, err := l.enter(owner, l.ast.Span(n), nil, false)
	if err != nil {
		return 0, err
	}
	params, err := l.params(l.ast.Multi(n, 3), inner, paramBinder)
	if err != nil {
		return 0, err
	}
	ret, err := l.optional(l.ast.Child(n, 0), inner)
	if err != nil {
		return 0, err
	}
	effects, err := l.optional(l.ast.Child(n, 1), inner)
	if err != nil {
		return 0, err
	}
	body, err := l.LowerExpr(l.ast.Child(n, 2), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.Lambda{Params: params, Ret: ret, Effects: effects, Body: body}), nil
}

func (l *Lowerer) lowerQuantifier(n ast.Index, owner Owner) (hir.ExprRef, error) {
	inner, err := l.enter(owner, l.ast.Span(n), nil, false)
	if err != nil {
		return 0, err
	}
	params, err := l.params(l.ast.Multi(n, 2), inner, paramBinder)
	if err != nil {
		return 0, err
	}
	cond, err := l.optional(l.ast.Child(n, 0), inner)
	if err != nil {
		return 0, err
	}
	body, err := l.LowerExpr(l.ast.Child(n, 1), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.Quantifier{
		Exists: l.ast.Kind(n) == ast.Exists,
		Params: params,
		Cond:   cond,
		Body:   body,
	}), nil
}

func (l *Lowerer) lowerFnType(n ast.Index, owner Owner) (hir.ExprRef, error) {
	params, err := l.exprs(l.ast.Multi(n, 1), owner)
	if err != nil {
		return 0, err
	}
	ret, err := l.optional(l.ast.Child(n, 2), owner)
	if err != nil {
		return 0, err
	}
	effects, err := l.exprs(l.ast.Multi(n, 3), owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.FnType{
		Modifiers: l.ast.RawValue(n, 0),
		Params:    params,
		Ret:       ret,
		Effects:   effects,
	}), nil
}

// lowerRefinement lowers `{x: T | pred}`. Only the predicate sees x.
func (l *Lowerer) lowerRefinement(n ast.Index, owner Owner) (hir.ExprRef, error) {
	base, err := l.LowerExpr(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	inner, err := l.enter(owner, l.ast.Span(n), nil, true)
	if err != nil {
		return 0, err
	}
	binder, _, err := l.bind(l.ast.Child(n, 0), inner, localBinder)
	if err != nil {
		return 0, err
	}
	pred, err := l.LowerExpr(l.ast.Child(n, 2), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.RefinementType{Binder: binder, Base: base, Pred: pred}), nil
}

// lowerAttr keeps attribute names as labels instead of resolving them.
func (l *Lowerer) lowerAttr(n ast.Index, owner Owner) (hir.ExprRef, error) {
	switch l.ast.Kind(n) {
	case ast.Ident:
		return l.hir.Expr(hir.Label{Name: l.symbol(n)}), nil
	case ast.Call:
		callee, err := l.lowerAttr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		args, named, err := l.arguments(l.ast.Multi(n, 1), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Call{Callee: callee, Args: l.hir.ExprList(args), Named: l.hir.PropList(named)}), nil
	}
	return l.LowerExpr(n, owner)
}

func (l *Lowerer) localDef(n ast.Index, owner Owner) (hir.ExprRef, error) {
	def, err := l.lowerDef(n, owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Expr(hir.LocalDef{Def: def}), nil
}

// helpers

func (l *Lowerer) text(n ast.Index) string {
	text, _ := l.ast.SourceText(n)
	return text
}

func (l *Lowerer) symbol(n ast.Index) symbols.ID { return l.names.Intern(l.text(n)) }

func (l *Lowerer) pair(n ast.Index, owner Owner) (hir.ExprRef, hir.ExprRef, error) {
	x, err := l.LowerExpr(l.ast.Child(n, 0), owner)
	if err != nil {
		return 0, 0, err
	}
	y, err := l.LowerExpr(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// optional lowers n, or returns the absent handle when n is absent.
func (l *Lowerer) optional(n ast.Index, owner Owner) (hir.ExprRef, error) {
	if n == ast.NoIndex {
		return 0, nil
	}
	return l.LowerExpr(n, owner)
}

func (l *Lowerer) exprs(ns []ast.Index, owner Owner) (hir.ExprList, error) {
	refs := make([]hir.ExprRef, 0, len(ns))
	for _, n := range ns {
		ref, err := l.LowerExpr(n, owner)
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}
	return l.hir.ExprList(refs), nil
}

// enter opens a child scope of owner's scope.
func (l *Lowerer) enter(owner Owner, span source.Span, name *symbols.ID, transparent bool) (Owner, error) {
	scope, err := l.scopes.AddScope(name, owner.Scope, transparent, owner.ID)
	if err != nil {
		return owner, &Error{Kind: ScopeError, Message: err.Error(), Span: span, Err: err}
	}
	return Owner{ID: owner.ID, Scope: scope}, nil
}
