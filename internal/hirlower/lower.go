package hirlower

import (
	"errors"

	"vex/internal/frontend/ast"
	"vex/internal/hir"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/source"
)

// Scopes is the scope manager driven by lowering.
type Scopes interface {
	Resolve(name symbols.ID, scope table.ScopeID) (table.Resolution, bool)
	AddItem(item table.Item, scope table.ScopeID) error
	AddScope(name *symbols.ID, parent table.ScopeID, transparent bool, owner hir.ID) (table.ScopeID, error)
}

// Owner is the item whose code is being lowered and the scope that code sees.
type Owner struct {
	ID    hir.ID
	Scope table.ScopeID
}

// Lowerer turns a parsed file into HIR.
type Lowerer struct {
	ast    *ast.Store
	hir    *hir.Store
	names  *symbols.Interner
	scopes Scopes

	// placeholder IDs of hoisted items, keyed by their node
	declared map[ast.Index]hir.ID
}

// New creates a lowerer for one parsed file. The HIR store, interner and
// scopes may be shared between files of a compilation.
func New(tree *ast.Store, store *hir.Store, names *symbols.Interner, scopes Scopes) *Lowerer {
	return &Lowerer{
		ast:      tree,
		hir:      store,
		names:    names,
		scopes:   scopes,
		declared: make(map[ast.Index]hir.ID),
	}
}

// LowerFile lowers the tree's root into a module named name whose scope is
// a child of parent. Errors are collected per item and per top-level
// statement, so the returned module holds everything that did lower.
func (l *Lowerer) LowerFile(name string, parent table.ScopeID) (hir.DefRef, []*Error) {
	root := l.ast.Root()
	if l.ast.Kind(root) != ast.File {
		return 0, []*Error{internalError(l.ast.Span(root), "root is %v, not a file", l.ast.Kind(root))}
	}

	var errs []*Error
	report := func(err error) { errs = append(errs, asError(err)) }

	sym := l.names.Intern(name)
	id := l.hir.Put(hir.Mapping{Kind: hir.MappingModule, Name: sym, Span: l.ast.Span(root)})
	ref, err := l.lowerModule(id, sym, l.ast.Multi(root, 0), l.ast.Span(root), Owner{Scope: parent}, report)
	if err != nil {
		report(err)
	}
	return ref, errs
}

func asError(err error) *Error {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr
	}
	return &Error{Kind: InternalError, Message: err.Error(), Err: err}
}

// fail hands err to report when there is one. It returns err back when the
// caller must stop.
func fail(err error, report func(error)) error {
	if report == nil {
		return err
	}
	report(err)
	return nil
}

// lowerModule registers every item of elems in a fresh scope before lowering
// any of them, so items may refer to each other in any order. The remaining
// elements become the module body.
func (l *Lowerer) lowerModule(id hir.ID, name symbols.ID, elems []ast.Index, span source.Span, outer Owner, report func(error)) (hir.DefRef, error) {
	inner, err := l.enter(Owner{ID: id, Scope: outer.Scope}, span, &name, false)
	if err != nil {
		return 0, err
	}

	var items, stmts []ast.Index
	for _, e := range elems {
		if l.isItem(e) || l.isConst(e) {
			items = append(items, e)
		} else {
			stmts = append(stmts, e)
		}
	}

	var live []ast.Index
	for _, item := range items {
		if _, err := l.declare(item, inner); err != nil {
			if err := fail(err, report); err != nil {
				return 0, err
			}
			continue
		}
		live = append(live, item)
	}

	defs := make([]hir.DefRef, 0, len(live))
	for _, item := range live {
		def, err := l.lowerDef(item, inner)
		if err != nil {
			if err := fail(err, report); err != nil {
				return 0, err
			}
			continue
		}
		defs = append(defs, def)
	}

	body, err := l.lowerSeq(stmts, inner, report)
	if err != nil {
		return 0, err
	}
	var block hir.ExprRef
	if len(body) > 0 {
		block = l.hir.Expr(hir.Block{Stmts: l.hir.ExprList(body)})
	}

	ref := l.hir.Def(hir.ModuleDef{ID: id, Name: name, Items: l.hir.DefList(defs), Body: block})
	return ref, l.finish(id, ref)
}

// lowerElements lowers the contents of a block: items are hoisted into
// owner's scope first, then everything is lowered in order.
func (l *Lowerer) lowerElements(elems []ast.Index, owner Owner) ([]hir.ExprRef, error) {
	for _, e := range elems {
		if !l.isItem(e) {
			continue
		}
		if _, err := l.declare(e, owner); err != nil {
			return nil, err
		}
	}
	return l.lowerSeq(elems, owner, nil)
}

// lowerSeq lowers statements in order. A let or const takes the rest of the
// sequence as its body, which sees the new bindings. With a report func a
// failed statement is reported and skipped instead of ending the sequence.
func (l *Lowerer) lowerSeq(elems []ast.Index, owner Owner, report func(error)) ([]hir.ExprRef, error) {
	stmts := make([]hir.ExprRef, 0, len(elems))
	for i, e := range elems {
		binding, attrs := l.peelAttributes(e)
		if k := l.ast.Kind(binding); k == ast.Let || k == ast.Const {
			stmt, err := l.lowerBinding(binding, elems[i+1:], owner, report)
			if err != nil {
				return nil, err
			}
			for j := len(attrs) - 1; j >= 0; j-- {
				attr, err := l.lowerAttr(attrs[j], owner)
				if err != nil {
					if err := fail(err, report); err != nil {
						return nil, err
					}
					continue
				}
				stmt = l.hir.Expr(hir.Attributed{Attr: attr, X: stmt})
			}
			return append(stmts, stmt), nil
		}

		stmt, err := l.LowerExpr(e, owner)
		if err != nil {
			if err := fail(err, report); err != nil {
				return nil, err
			}
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// peelAttributes strips Attribute wrappers, returning the attributes
// outermost first.
func (l *Lowerer) peelAttributes(n ast.Index) (ast.Index, []ast.Index) {
	var attrs []ast.Index
	for l.ast.Kind(n) == ast.Attribute {
		attrs = append(attrs, l.ast.Child(n, 0))
		n = l.ast.Child(n, 1)
	}
	return n, attrs
}

func (l *Lowerer) lowerBinding(n ast.Index, rest []ast.Index, owner Owner, report func(error)) (hir.ExprRef, error) {
	typ, err := l.optional(l.ast.Child(n, 1), owner)
	if err != nil {
		if err := fail(err, report); err != nil {
			return 0, err
		}
	}
	value, err := l.optional(l.ast.Child(n, 2), owner)
	if err != nil {
		if err := fail(err, report); err != nil {
			return 0, err
		}
		value = l.hir.Singletons.Hole
	}

	inner, err := l.enter(owner, l.ast.Span(n), nil, true)
	if err != nil {
		return 0, err
	}
	b := localBinder
	if l.ast.Kind(n) == ast.Const {
		b = constBinder
	}
	pattern, err := l.lowerPattern(l.ast.Child(n, 0), inner, b)
	if err != nil {
		if err := fail(err, report); err != nil {
			return 0, err
		}
		pattern = l.hir.Singletons.Wildcard
	}

	tail, err := l.lowerSeq(rest, inner, report)
	if err != nil {
		return 0, err
	}
	var body hir.ExprRef
	if len(tail) > 0 {
		body = l.hir.Expr(hir.Block{Stmts: l.hir.ExprList(tail)})
	}

	if l.ast.Kind(n) == ast.Const {
		return l.hir.Expr(hir.Const{Pattern: pattern, Type: typ, Value: value, Body: body}), nil
	}
	return l.hir.Expr(hir.Let{Pattern: pattern, Type: typ, Value: value, Body: body}), nil
}
