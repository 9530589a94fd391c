package hirlower

import (
	"errors"

	"vex/internal/frontend/ast"
	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/utils/strings"
)

// binder says how names bound by a pattern are recorded.
type binder struct {
	mapping hir.MappingKind
	symbol  symbols.SymbolKind
	// declared names were already added to the scope by the item pass
	declared bool
	// shared holds the names bound so far by the alternatives of an
	// or-pattern; a later alternative binds the same occurrence.
	shared map[symbols.ID]hir.ID
}

var (
	localBinder   = binder{mapping: hir.MappingLocal, symbol: symbols.SymbolVariable}
	constBinder   = binder{mapping: hir.MappingLocal, symbol: symbols.SymbolConstant}
	paramBinder   = binder{mapping: hir.MappingParam, symbol: symbols.SymbolParameter}
	genericBinder = binder{mapping: hir.MappingGeneric, symbol: symbols.SymbolGeneric}
	resultBinder  = binder{mapping: hir.MappingResult, symbol: symbols.SymbolVariable}
	itemBinder    = binder{mapping: hir.MappingDefinition, symbol: symbols.SymbolConstant, declared: true}
)

// LowerPattern lowers the pattern at n, binding its names as locals in
// owner's scope.
func (l *Lowerer) LowerPattern(n ast.Index, owner Owner) (hir.PatternRef, error) {
	return l.lowerPattern(n, owner, localBinder)
}

func (l *Lowerer) lowerPattern(n ast.Index, owner Owner, b binder) (hir.PatternRef, error) {
	kind := l.ast.Kind(n)
	switch kind {
	case ast.Wildcard:
		return l.hir.Singletons.Wildcard, nil
	case ast.Ident:
		return l.lowerIdentPattern(n, owner, b)
	case ast.Int, ast.Real, ast.Str, ast.Char, ast.Bool, ast.Neg:
		value, err := l.LowerExpr(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.LiteralPattern{Value: value}), nil
	case ast.Select:
		path, err := l.LowerExpr(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.PathPattern{Path: path}), nil

	case ast.TuplePattern, ast.ListPattern:
		elems, err := l.patterns(l.ast.Multi(n, 0), owner, b)
		if err != nil {
			return 0, err
		}
		if kind == ast.ListPattern {
			return l.hir.Pattern(hir.ListPattern{Elems: elems}), nil
		}
		return l.hir.Pattern(hir.TuplePattern{Elems: elems}), nil
	case ast.RestPattern:
		var rest hir.PatternRef
		if name := l.ast.Child(n, 0); name != ast.NoIndex {
			_, ref, err := l.bind(name, owner, b)
			if err != nil {
				return 0, err
			}
			rest = ref
		}
		return l.hir.Pattern(hir.RestPattern{Bind: rest}), nil

	case ast.ConstructorPattern, ast.RecordPattern:
		path, err := l.LowerExpr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		elems, err := l.patterns(l.ast.Multi(n, 1), owner, b)
		if err != nil {
			return 0, err
		}
		if kind == ast.RecordPattern {
			return l.hir.Pattern(hir.RecordPattern{Path: path, Fields: elems}), nil
		}
		return l.hir.Pattern(hir.ConstructorPattern{Path: path, Args: elems}), nil
	case ast.FieldPattern:
		name := l.ast.Child(n, 0)
		inner := l.ast.Child(n, 1)
		var (
			sub hir.PatternRef
			err error
		)
		if inner == ast.NoIndex {
			_, sub, err = l.bind(name, owner, b)
		} else {
			sub, err = l.lowerPattern(inner, owner, b)
		}
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.FieldPattern{Name: l.symbol(name), Pattern: sub}), nil

	case ast.OrPattern:
		if b.shared == nil {
			b.shared = make(map[symbols.ID]hir.ID)
		}
		x, err := l.lowerPattern(l.ast.Child(n, 0), owner, b)
		if err != nil {
			return 0, err
		}
		y, err := l.lowerPattern(l.ast.Child(n, 1), owner, b)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.OrPattern{X: x, Y: y}), nil
	case ast.AsPattern:
		inner, err := l.lowerPattern(l.ast.Child(n, 0), owner, b)
		if err != nil {
			return 0, err
		}
		_, name, err := l.bind(l.ast.Child(n, 1), owner, b)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.AsPattern{Pattern: inner, Bind: name}), nil
	case ast.GuardPattern:
		inner, err := l.lowerPattern(l.ast.Child(n, 0), owner, b)
		if err != nil {
			return 0, err
		}
		guard, err := l.LowerExpr(l.ast.Child(n, 1), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.GuardPattern{Pattern: inner, Guard: guard}), nil
	case ast.RangePattern, ast.RangeInclusivePattern:
		lo, hi, err := l.pair(n, owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Pattern(hir.RangePattern{Lo: lo, Hi: hi, Inclusive: kind == ast.RangeInclusivePattern}), nil
	}
	return 0, internalError(l.ast.Span(n), "%v is not a pattern", kind)
}

// lowerIdentPattern binds a name unless it is reserved, or capitalised and
// already names something, in which case it matches that thing.
func (l *Lowerer) lowerIdentPattern(n ast.Index, owner Owner, b binder) (hir.PatternRef, error) {
	text := l.text(n)
	if ref, ok := l.hir.Preserved(text); ok {
		return l.hir.Pattern(hir.LiteralPattern{Value: ref}), nil
	}
	if strings.IsCapitalized(text) && !b.declared {
		if sym, ok := l.names.Lookup(text); ok {
			if res, ok := l.scopes.Resolve(sym, owner.Scope); ok {
				path := l.hir.Expr(hir.RefExpr{Target: res.Hir})
				return l.hir.Pattern(hir.PathPattern{Path: path}), nil
			}
		}
	}
	_, ref, err := l.bind(n, owner, b)
	return ref, err
}

// bind records a new occurrence for the identifier n and declares it in
// owner's scope. A duplicate name shadows the earlier one.
func (l *Lowerer) bind(n ast.Index, owner Owner, b binder) (hir.ID, hir.PatternRef, error) {
	if l.ast.Kind(n) != ast.Ident {
		return hir.NoID, 0, internalError(l.ast.Span(n), "binder is %v", l.ast.Kind(n))
	}
	name := l.symbol(n)
	span := l.ast.Span(n)

	if b.declared {
		if res, ok := l.scopes.Resolve(name, owner.Scope); ok && res.Scope == owner.Scope {
			ref := l.hir.Pattern(hir.Bind{Name: name, ID: res.Hir})
			if m, ok := l.hir.Mapping(res.Hir); ok {
				m.Pattern = ref
				_ = l.hir.Update(res.Hir, m)
			}
			return res.Hir, ref, nil
		}
	}

	if id, ok := b.shared[name]; ok {
		return id, l.hir.Pattern(hir.Bind{Name: name, ID: id}), nil
	}

	id := l.hir.Put(hir.Mapping{Kind: b.mapping, Owner: owner.ID, Name: name, Span: span})
	ref := l.hir.Pattern(hir.Bind{Name: name, ID: id})
	if err := l.hir.Update(id, hir.Mapping{Kind: b.mapping, Owner: owner.ID, Name: name, Span: span, Pattern: ref}); err != nil {
		return hir.NoID, 0, internalError(span, "%v", err)
	}
	err := l.scopes.AddItem(table.Item{Name: name, Kind: b.symbol, Hir: id, Span: span}, owner.Scope)
	if err != nil && !errors.Is(err, table.ErrDuplicate) {
		return hir.NoID, 0, &Error{Kind: ScopeError, Message: err.Error(), Span: span, Name: l.text(n), Err: err}
	}
	if b.shared != nil {
		b.shared[name] = id
	}
	return id, ref, nil
}

func (l *Lowerer) patterns(ns []ast.Index, owner Owner, b binder) (hir.PatternList, error) {
	refs := make([]hir.PatternRef, 0, len(ns))
	for _, n := range ns {
		ref, err := l.lowerPattern(n, owner, b)
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}
	return l.hir.PatternList(refs), nil
}

// patternNames lists the identifiers a pattern binds, in source order.
func (l *Lowerer) patternNames(n ast.Index) []ast.Index {
	var out []ast.Index
	var walk func(ast.Index)
	walk = func(n ast.Index) {
		switch l.ast.Kind(n) {
		case ast.Ident:
			if _, reserved := l.hir.Preserved(l.text(n)); !reserved {
				out = append(out, n)
			}
		case ast.TuplePattern, ast.ListPattern:
			for _, e := range l.ast.Multi(n, 0) {
				walk(e)
			}
		case ast.ConstructorPattern, ast.RecordPattern:
			for _, e := range l.ast.Multi(n, 1) {
				walk(e)
			}
		case ast.RestPattern, ast.GuardPattern:
			walk(l.ast.Child(n, 0))
		case ast.FieldPattern:
			if inner := l.ast.Child(n, 1); inner != ast.NoIndex {
				walk(inner)
			} else {
				walk(l.ast.Child(n, 0))
			}
		case ast.AsPattern, ast.OrPattern:
			walk(l.ast.Child(n, 0))
			walk(l.ast.Child(n, 1))
		}
	}
	walk(n)
	return out
}

// params lowers parameter nodes. Types and defaults are lowered before the
// parameter's own names are bound.
func (l *Lowerer) params(ns []ast.Index, owner Owner, b binder) (hir.ParamList, error) {
	refs := make([]hir.ParamRef, 0, len(ns))
	for _, n := range ns {
		var (
			param hir.Param
			err   error
		)
		switch l.ast.Kind(n) {
		case ast.Param:
			if param.Type, err = l.optional(l.ast.Child(n, 1), owner); err != nil {
				return 0, err
			}
			if param.Default, err = l.optional(l.ast.Child(n, 2), owner); err != nil {
				return 0, err
			}
			if param.Pattern, err = l.lowerPattern(l.ast.Child(n, 0), owner, b); err != nil {
				return 0, err
			}
		case ast.GenericParam:
			if _, param.Pattern, err = l.bind(l.ast.Child(n, 0), owner, genericBinder); err != nil {
				return 0, err
			}
			if param.Type, err = l.optional(l.ast.Child(n, 1), owner); err != nil {
				return 0, err
			}
		default:
			return 0, internalError(l.ast.Span(n), "parameter is %v", l.ast.Kind(n))
		}
		refs = append(refs, l.hir.Param(param))
	}
	return l.hir.ParamList(refs), nil
}
