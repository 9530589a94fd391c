package hirlower

import (
	"fmt"

	"vex/internal/frontend/ast"
	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
)

var itemSymbols = map[ast.Kind]symbols.SymbolKind{
	ast.FunctionDef: symbols.SymbolFunction,
	ast.EffectDef:   symbols.SymbolEffect,
	ast.StructDef:   symbols.SymbolType,
	ast.EnumDef:     symbols.SymbolType,
	ast.TraitDef:    symbols.SymbolTrait,
	ast.TypeAlias:   symbols.SymbolType,
	ast.AssocType:   symbols.SymbolType,
	ast.Module:      symbols.SymbolModule,
	ast.Use:         symbols.SymbolModule,
	ast.ImplDef:     symbols.SymbolType,
}

// isItem reports whether n declares something that is hoisted.
func (l *Lowerer) isItem(n ast.Index) bool {
	switch l.ast.Kind(n) {
	case ast.Public:
		return l.isItem(l.ast.Child(n, 0))
	case ast.Attribute:
		return l.isItem(l.ast.Child(n, 1))
	}
	_, ok := itemSymbols[l.ast.Kind(n)]
	return ok
}

func (l *Lowerer) isConst(n ast.Index) bool {
	inner, _ := l.peelAttributes(n)
	return l.ast.Kind(inner) == ast.Const
}

// itemName is the node naming an item, or NoIndex for an impl. A use is
// named by the last segment of its path.
func (l *Lowerer) itemName(n ast.Index) ast.Index {
	switch l.ast.Kind(n) {
	case ast.ImplDef:
		return ast.NoIndex
	case ast.Use:
		path := l.ast.Child(n, 0)
		for l.ast.Kind(path) == ast.Select {
			path = l.ast.Child(path, 1)
		}
		return path
	}
	return l.ast.Child(n, 0)
}

// declare puts a placeholder occurrence for the item at n and adds its name
// to owner's scope. The real definition is filled in by lowerDef.
func (l *Lowerer) declare(n ast.Index, owner Owner) (hir.ID, error) {
	switch l.ast.Kind(n) {
	case ast.Public:
		return l.declare(l.ast.Child(n, 0), owner)
	case ast.Attribute:
		return l.declare(l.ast.Child(n, 1), owner)
	case ast.Const:
		return l.declareConst(n, owner)
	}
	if id, ok := l.declared[n]; ok {
		return id, nil
	}

	kind := hir.MappingDefinition
	if l.ast.Kind(n) == ast.Module {
		kind = hir.MappingModule
	}
	nameNode := l.itemName(n)
	var name symbols.ID
	if nameNode != ast.NoIndex {
		name = l.symbol(nameNode)
	}
	id := l.hir.Put(hir.Mapping{Kind: kind, Owner: owner.ID, Name: name, Span: l.ast.Span(n)})
	l.declared[n] = id

	if nameNode == ast.NoIndex {
		return id, nil
	}
	item := table.Item{Name: name, Kind: itemSymbols[l.ast.Kind(n)], Hir: id, Span: l.ast.Span(nameNode)}
	if err := l.scopes.AddItem(item, owner.Scope); err != nil {
		return id, &Error{
			Kind:    ScopeError,
			Message: fmt.Sprintf("`%s` is already declared in this scope", l.text(nameNode)),
			Span:    l.ast.Span(nameNode),
			Name:    l.text(nameNode),
			Err:     err,
		}
	}
	return id, nil
}

// declareConst declares every name bound by a module-level const.
func (l *Lowerer) declareConst(n ast.Index, owner Owner) (hir.ID, error) {
	if id, ok := l.declared[n]; ok {
		return id, nil
	}
	id := l.hir.Put(hir.Mapping{Kind: hir.MappingDefinition, Owner: owner.ID, Span: l.ast.Span(n)})
	l.declared[n] = id

	for _, nameNode := range l.patternNames(l.ast.Child(n, 0)) {
		name := l.symbol(nameNode)
		span := l.ast.Span(nameNode)
		bound := l.hir.Put(hir.Mapping{Kind: hir.MappingDefinition, Owner: owner.ID, Name: name, Span: span})
		item := table.Item{Name: name, Kind: symbols.SymbolConstant, Hir: bound, Span: span}
		if err := l.scopes.AddItem(item, owner.Scope); err != nil {
			return id, &Error{
				Kind:    ScopeError,
				Message: fmt.Sprintf("`%s` is already declared in this scope", l.text(nameNode)),
				Span:    span,
				Name:    l.text(nameNode),
				Err:     err,
			}
		}
	}
	return id, nil
}

// finish stores the lowered definition in the item's occurrence.
func (l *Lowerer) finish(id hir.ID, def hir.DefRef) error {
	m, ok := l.hir.Mapping(id)
	if !ok {
		return internalError(m.Span, "no occurrence %s", id)
	}
	m.Def = def
	return l.hir.Update(id, m)
}

// lowerDef lowers an item. Items that were not hoisted are declared first.
func (l *Lowerer) lowerDef(n ast.Index, owner Owner) (hir.DefRef, error) {
	switch l.ast.Kind(n) {
	case ast.Public:
		inner, err := l.lowerDef(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Def(hir.Public{Def: inner}), nil
	case ast.Attribute:
		attr, err := l.lowerAttr(l.ast.Child(n, 0), owner)
		if err != nil {
			return 0, err
		}
		inner, err := l.lowerDef(l.ast.Child(n, 1), owner)
		if err != nil {
			return 0, err
		}
		return l.hir.Def(hir.AttributedDef{Attr: attr, Def: inner}), nil
	}

	id, err := l.declare(n, owner)
	if err != nil {
		return 0, err
	}

	var def hir.DefRef
	switch l.ast.Kind(n) {
	case ast.FunctionDef:
		def, err = l.lowerFunction(n, id, owner)
	case ast.EffectDef, ast.TraitDef, ast.ImplDef:
		def, err = l.lowerContainer(n, id, owner)
	case ast.StructDef:
		def, err = l.lowerStruct(n, id, owner)
	case ast.EnumDef:
		def, err = l.lowerEnum(n, id, owner)
	case ast.TypeAlias:
		def, err = l.lowerTypeAlias(n, id, owner)
	case ast.AssocType:
		def, err = l.lowerAssocType(n, id, owner)
	case ast.Module:
		name := l.symbol(l.ast.Child(n, 0))
		return l.lowerModule(id, name, l.ast.Multi(n, 1), l.ast.Span(n), owner, nil)
	case ast.Use:
		var path hir.ExprRef
		if path, err = l.lowerUsePath(l.ast.Child(n, 0)); err == nil {
			def = l.hir.Def(hir.UseDef{Path: path})
		}
	case ast.Const:
		def, err = l.lowerConstDef(n, id, owner)
	default:
		return 0, internalError(l.ast.Span(n), "%v is not an item", l.ast.Kind(n))
	}
	if err != nil {
		return 0, err
	}
	return def, l.finish(id, def)
}

// lowerUsePath keeps a use path as unresolved segments. Modules do not see
// each other, so the path names nothing in this compilation.
func (l *Lowerer) lowerUsePath(n ast.Index) (hir.ExprRef, error) {
	switch l.ast.Kind(n) {
	case ast.Ident:
		return l.hir.Expr(hir.Label{Name: l.symbol(n)}), nil
	case ast.Select:
		x, err := l.lowerUsePath(l.ast.Child(n, 0))
		if err != nil {
			return 0, err
		}
		return l.hir.Expr(hir.Select{X: x, Field: l.symbol(l.ast.Child(n, 1))}), nil
	}
	return 0, internalError(l.ast.Span(n), "use path segment is %v", l.ast.Kind(n))
}

// itemScope opens the scope an item's generics and members live in.
func (l *Lowerer) itemScope(n ast.Index, id hir.ID, owner Owner, name *symbols.ID) (Owner, error) {
	return l.enter(Owner{ID: id, Scope: owner.Scope}, l.ast.Span(n), name, false)
}

func (l *Lowerer) lowerFunction(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	name := l.symbol(l.ast.Child(n, 0))
	inner, err := l.itemScope(n, id, owner, &name)
	if err != nil {
		return 0, err
	}
	fn := hir.Function{ID: id, Name: name}
	if fn.Generics, err = l.params(l.ast.Multi(n, 1), inner, genericBinder); err != nil {
		return 0, err
	}
	if fn.Params, err = l.params(l.ast.Multi(n, 2), inner, paramBinder); err != nil {
		return 0, err
	}
	if fn.Ret, err = l.optional(l.ast.Child(n, 3), inner); err != nil {
		return 0, err
	}
	if fn.Effects, err = l.exprs(l.ast.Multi(n, 4), inner); err != nil {
		return 0, err
	}
	if fn.Clauses, err = l.clauses(l.ast.Multi(n, 5), inner); err != nil {
		return 0, err
	}
	if fn.Body, err = l.optional(l.ast.Child(n, 6), inner); err != nil {
		return 0, err
	}
	return l.hir.Def(fn), nil
}

// clauses lowers contract clauses. An ensures clause also sees `result`,
// the value the function returns.
func (l *Lowerer) clauses(ns []ast.Index, owner Owner) (hir.ClauseList, error) {
	refs := make([]hir.ClauseRef, 0, len(ns))
	for _, n := range ns {
		scope := owner
		if l.ast.Kind(n) == ast.Ensures {
			var err error
			if scope, err = l.enter(owner, l.ast.Span(n), nil, true); err != nil {
				return 0, err
			}
			if err := l.bindResult(n, scope); err != nil {
				return 0, err
			}
		}
		cond, err := l.LowerExpr(l.ast.Child(n, 0), scope)
		if err != nil {
			return 0, err
		}
		var clause hir.Clause
		switch l.ast.Kind(n) {
		case ast.Requires:
			clause = hir.Requires{Cond: cond}
		case ast.Ensures:
			clause = hir.Ensures{Cond: cond}
		case ast.Decreases:
			clause = hir.Decreases{Measure: cond}
		case ast.Invariant:
			clause = hir.Invariant{Cond: cond}
		default:
			return 0, internalError(l.ast.Span(n), "%v is not a clause", l.ast.Kind(n))
		}
		refs = append(refs, l.hir.Clause(clause))
	}
	return l.hir.ClauseList(refs), nil
}

func (l *Lowerer) bindResult(n ast.Index, owner Owner) error {
	name := l.names.Intern("result")
	span := l.ast.Span(n)
	id := l.hir.Put(hir.Mapping{Kind: resultBinder.mapping, Owner: owner.ID, Name: name, Span: span})
	err := l.scopes.AddItem(table.Item{Name: name, Kind: resultBinder.symbol, Hir: id, Span: span}, owner.Scope)
	if err != nil {
		return &Error{Kind: ScopeError, Message: err.Error(), Span: span, Name: "result", Err: err}
	}
	return nil
}

// lowerContainer lowers effects, traits and impls, whose members are items
// hoisted into the container's own scope.
func (l *Lowerer) lowerContainer(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	kind := l.ast.Kind(n)
	var namePtr *symbols.ID
	var name symbols.ID
	if kind != ast.ImplDef {
		name = l.symbol(l.ast.Child(n, 0))
		namePtr = &name
	}
	inner, err := l.itemScope(n, id, owner, namePtr)
	if err != nil {
		return 0, err
	}

	genericsSlot, membersSlot := 1, 2
	switch kind {
	case ast.TraitDef:
		membersSlot = 3
	case ast.ImplDef:
		genericsSlot, membersSlot = 0, 3
	}
	generics, err := l.params(l.ast.Multi(n, genericsSlot), inner, genericBinder)
	if err != nil {
		return 0, err
	}
	members, err := l.members(l.ast.Multi(n, membersSlot), inner)
	if err != nil {
		return 0, err
	}

	switch kind {
	case ast.TraitDef:
		supers, err := l.exprs(l.ast.Multi(n, 2), inner)
		if err != nil {
			return 0, err
		}
		return l.hir.Def(hir.TraitDef{ID: id, Name: name, Generics: generics, Supers: supers, Members: members}), nil
	case ast.ImplDef:
		trait, err := l.optional(l.ast.Child(n, 1), inner)
		if err != nil {
			return 0, err
		}
		target, err := l.LowerExpr(l.ast.Child(n, 2), inner)
		if err != nil {
			return 0, err
		}
		return l.hir.Def(hir.ImplDef{ID: id, Generics: generics, Trait: trait, Target: target, Members: members}), nil
	}
	return l.hir.Def(hir.EffectDef{ID: id, Name: name, Generics: generics, Ops: members}), nil
}

func (l *Lowerer) members(ns []ast.Index, owner Owner) (hir.DefList, error) {
	for _, n := range ns {
		if _, err := l.declare(n, owner); err != nil {
			return 0, err
		}
	}
	refs := make([]hir.DefRef, 0, len(ns))
	for _, n := range ns {
		ref, err := l.lowerDef(n, owner)
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}
	return l.hir.DefList(refs), nil
}

func (l *Lowerer) lowerStruct(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	name := l.symbol(l.ast.Child(n, 0))
	inner, err := l.itemScope(n, id, owner, &name)
	if err != nil {
		return 0, err
	}
	generics, err := l.params(l.ast.Multi(n, 1), inner, genericBinder)
	if err != nil {
		return 0, err
	}
	fields := make([]hir.DefRef, 0)
	for _, f := range l.ast.Multi(n, 2) {
		typ, err := l.LowerExpr(l.ast.Child(f, 1), inner)
		if err != nil {
			return 0, err
		}
		def, err := l.optional(l.ast.Child(f, 2), inner)
		if err != nil {
			return 0, err
		}
		fields = append(fields, l.hir.Def(hir.FieldDef{Name: l.symbol(l.ast.Child(f, 0)), Type: typ, Default: def}))
	}
	return l.hir.Def(hir.StructDef{ID: id, Name: name, Generics: generics, Fields: l.hir.DefList(fields)}), nil
}

// lowerEnum declares each variant in the enum's scope as it goes.
func (l *Lowerer) lowerEnum(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	name := l.symbol(l.ast.Child(n, 0))
	inner, err := l.itemScope(n, id, owner, &name)
	if err != nil {
		return 0, err
	}
	generics, err := l.params(l.ast.Multi(n, 1), inner, genericBinder)
	if err != nil {
		return 0, err
	}
	variants := make([]hir.DefRef, 0)
	for _, v := range l.ast.Multi(n, 2) {
		nameNode := l.ast.Child(v, 0)
		vname := l.symbol(nameNode)
		vid := l.hir.Put(hir.Mapping{Kind: hir.MappingDefinition, Owner: id, Name: vname, Span: l.ast.Span(v)})
		item := table.Item{Name: vname, Kind: symbols.SymbolVariant, Hir: vid, Span: l.ast.Span(nameNode)}
		if err := l.scopes.AddItem(item, inner.Scope); err != nil {
			return 0, &Error{
				Kind:    ScopeError,
				Message: fmt.Sprintf("variant `%s` is declared twice", l.text(nameNode)),
				Span:    l.ast.Span(nameNode),
				Name:    l.text(nameNode),
				Err:     err,
			}
		}
		payload, err := l.exprs(l.ast.Multi(v, 1), inner)
		if err != nil {
			return 0, err
		}
		ref := l.hir.Def(hir.VariantDef{ID: vid, Name: vname, Payload: payload})
		if err := l.finish(vid, ref); err != nil {
			return 0, err
		}
		variants = append(variants, ref)
	}
	return l.hir.Def(hir.EnumDef{ID: id, Name: name, Generics: generics, Variants: l.hir.DefList(variants)}), nil
}

func (l *Lowerer) lowerTypeAlias(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	name := l.symbol(l.ast.Child(n, 0))
	inner, err := l.itemScope(n, id, owner, &name)
	if err != nil {
		return 0, err
	}
	generics, err := l.params(l.ast.Multi(n, 1), inner, genericBinder)
	if err != nil {
		return 0, err
	}
	typ, err := l.LowerExpr(l.ast.Child(n, 2), inner)
	if err != nil {
		return 0, err
	}
	return l.hir.Def(hir.TypeAlias{ID: id, Name: name, Generics: generics, Type: typ}), nil
}

func (l *Lowerer) lowerAssocType(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	bounds, err := l.exprs(l.ast.Multi(n, 1), owner)
	if err != nil {
		return 0, err
	}
	def, err := l.optional(l.ast.Child(n, 2), owner)
	if err != nil {
		return 0, err
	}
	return l.hir.Def(hir.AssocType{ID: id, Name: l.symbol(l.ast.Child(n, 0)), Bounds: bounds, Default: def}), nil
}

// lowerConstDef binds the names declareConst already put in scope.
func (l *Lowerer) lowerConstDef(n ast.Index, id hir.ID, owner Owner) (hir.DefRef, error) {
	typ, err := l.optional(l.ast.Child(n, 1), owner)
	if err != nil {
		return 0, err
	}
	value, err := l.LowerExpr(l.ast.Child(n, 2), owner)
	if err != nil {
		return 0, err
	}
	pattern, err := l.lowerPattern(l.ast.Child(n, 0), owner, itemBinder)
	if err != nil {
		return 0, err
	}
	return l.hir.Def(hir.ConstDef{ID: id, Pattern: pattern, Type: typ, Value: value}), nil
}
